// Package searchselect implements a searchable dropdown over a fixed list of
// candidates. The widget keeps its own open/closed state and search text and
// narrows a view over the candidate list; it never mutates the list itself.
package searchselect

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

const (
	// KeyEscape closes the dropdown without touching the selection.
	KeyEscape = "Escape"

	// DefaultPlaceholder is shown when nothing is selected.
	DefaultPlaceholder = "Select..."
	// DefaultNoMatchText is rendered in place of options when the filter is empty.
	DefaultNoMatchText = "No match found"
)

// ErrUnknownCandidate is returned when selecting an identifier that is not part of the candidate list.
var ErrUnknownCandidate = errors.New("searchselect: unknown candidate")

// Candidate is a selectable entry, for example a company.
type Candidate[K comparable] struct {
	ID   K
	Name string
	Code string
}

// Label renders the candidate as "Name (CODE)".
func (c Candidate[K]) Label() string {
	if c.Code == "" {
		return c.Name
	}
	return c.Name + " (" + c.Code + ")"
}

// Filter returns the candidates whose name or code contains query, compared
// after trimming and case folding. A blank query returns the full list.
func Filter[K comparable](candidates []Candidate[K], query string) []Candidate[K] {
	needle := fold(strings.TrimSpace(query))
	if needle == "" {
		out := make([]Candidate[K], len(candidates))
		copy(out, candidates)
		return out
	}
	out := make([]Candidate[K], 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(fold(c.Name), needle) || strings.Contains(fold(c.Code), needle) {
			out = append(out, c)
		}
	}
	return out
}

func fold(s string) string {
	// Casers carry state and are not safe to share.
	return cases.Fold().String(s)
}

// Options configures a Select.
type Options[K comparable] struct {
	// Name is the form field carrying the selected identifier.
	Name string
	// DOMID identifies the widget in rendered markup.
	DOMID       string
	Placeholder string
	NoMatchText string
	Selected    *K
	OnSelect    func(K)
}

// Select is the searchable dropdown state container.
type Select[K comparable] struct {
	candidates  []Candidate[K]
	selected    *K
	query       string
	open        bool
	scrollTop   int
	name        string
	domID       string
	placeholder string
	noMatchText string
	onSelect    func(K)
}

// New builds a closed widget over candidates.
func New[K comparable](candidates []Candidate[K], opts Options[K]) *Select[K] {
	s := &Select[K]{
		candidates:  candidates,
		name:        opts.Name,
		domID:       opts.DOMID,
		placeholder: opts.Placeholder,
		noMatchText: opts.NoMatchText,
		onSelect:    opts.OnSelect,
	}
	if s.placeholder == "" {
		s.placeholder = DefaultPlaceholder
	}
	if s.noMatchText == "" {
		s.noMatchText = DefaultNoMatchText
	}
	if s.domID == "" {
		s.domID = s.name
	}
	if opts.Selected != nil {
		id := *opts.Selected
		s.selected = &id
	}
	return s
}

// SetCandidates replaces the candidate list supplied by the caller.
func (s *Select[K]) SetCandidates(candidates []Candidate[K]) {
	s.candidates = candidates
}

// Open switches to text entry mode with an empty query scrolled to the top.
func (s *Select[K]) Open() {
	s.open = true
	s.query = ""
	s.scrollTop = 0
}

// Close leaves text entry mode and discards the query.
func (s *Select[K]) Close() {
	s.open = false
	s.query = ""
}

// IsOpen reports whether the option list is showing.
func (s *Select[K]) IsOpen() bool {
	return s.open
}

// Query returns the current search text.
func (s *Select[K]) Query() string {
	return s.query
}

// SetQuery updates the search text. Typing into a closed widget opens it first.
func (s *Select[K]) SetQuery(q string) {
	if !s.open {
		s.Open()
	}
	s.query = q
}

// HandleKey processes a key event and reports whether it was consumed.
func (s *Select[K]) HandleKey(key string) bool {
	if key == KeyEscape && s.open {
		s.Close()
		return true
	}
	return false
}

// Select chooses the candidate with id, notifies the callback and closes.
func (s *Select[K]) Select(id K) error {
	if _, ok := s.find(id); !ok {
		return ErrUnknownCandidate
	}
	s.selected = &id
	if s.onSelect != nil {
		s.onSelect(id)
	}
	s.Close()
	return nil
}

// Selected returns the chosen identifier, if any.
func (s *Select[K]) Selected() (K, bool) {
	if s.selected == nil {
		var zero K
		return zero, false
	}
	return *s.selected, true
}

// Filtered returns the options visible for the current query.
func (s *Select[K]) Filtered() []Candidate[K] {
	return Filter(s.candidates, s.query)
}

func (s *Select[K]) find(id K) (Candidate[K], bool) {
	for _, c := range s.candidates {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate[K]{}, false
}

// Option is a single rendered row.
type Option[K comparable] struct {
	ID       K
	Label    string
	Name     string
	Code     string
	Selected bool
}

// View is the render model consumed by templates.
type View[K comparable] struct {
	Name         string
	DOMID        string
	Label        string
	HasSelection bool
	SelectedID   K
	Placeholder  string
	Open         bool
	Query        string
	ScrollTop    int
	Options      []Option[K]
	NoMatch      bool
	NoMatchText  string
}

// View captures the current state for rendering.
func (s *Select[K]) View() View[K] {
	v := View[K]{
		Name:        s.name,
		DOMID:       s.domID,
		Label:       s.placeholder,
		Placeholder: s.placeholder,
		Open:        s.open,
		Query:       s.query,
		ScrollTop:   s.scrollTop,
		NoMatchText: s.noMatchText,
	}
	if s.selected != nil {
		if c, ok := s.find(*s.selected); ok {
			v.Label = c.Label()
			v.HasSelection = true
			v.SelectedID = c.ID
		}
	}
	filtered := s.Filtered()
	if len(filtered) == 0 {
		v.NoMatch = true
		return v
	}
	v.Options = make([]Option[K], 0, len(filtered))
	for _, c := range filtered {
		v.Options = append(v.Options, Option[K]{
			ID:       c.ID,
			Label:    c.Label(),
			Name:     c.Name,
			Code:     c.Code,
			Selected: v.HasSelection && c.ID == v.SelectedID,
		})
	}
	return v
}
