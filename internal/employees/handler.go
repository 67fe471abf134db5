package employees

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/owner-console/internal/directory"
	"github.com/odyssey-erp/owner-console/internal/platform/httpx"
	"github.com/odyssey-erp/owner-console/internal/shared"
	"github.com/odyssey-erp/owner-console/internal/ui/searchselect"
	"github.com/odyssey-erp/owner-console/internal/view"
)

const (
	companyFilterKey = "employees.company_id"
	optionsURL       = "/employees/company-options"
	perPage          = 20
	rosterLimit      = 500
)

var sectionTitles = map[string]string{
	SectionProfile:      "Profile",
	SectionWork:         "Work details",
	SectionCompensation: "Salary and shift",
	SectionLeave:        "Leave allowance",
	SectionCompany:      "Company",
}

// Exporter converts a rendered HTML document into a PDF.
type Exporter interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Handler serves the employee list and edit pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	exporter  Exporter
	now       func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, now: time.Now}
}

// WithExporter enables the PDF roster export.
func (h *Handler) WithExporter(exporter Exporter) *Handler {
	h.exporter = exporter
	return h
}

// MountRoutes registers employee routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/next-code", h.nextCode)
	r.Get("/export.pdf", h.export)
	r.Get("/company-options", h.companyOptions)
	r.Get("/{id}", h.edit)
	r.Post("/{id}/{section}", h.update)
}

type listPageData struct {
	Employees     []directory.Employee
	Pagination    shared.Pagination
	Search        string
	CompanyID     int64
	CompanyFilter searchselect.View[int64]
	CreateCompany searchselect.View[int64]
	OptionsURL    string
	Form          CreateForm
	Errors        FieldErrors
	ModalOpen     bool
	CanExport     bool
	Error         string
}

// PageURL links to another page of the same listing.
func (d listPageData) PageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if d.Search != "" {
		q.Set("search", d.Search)
	}
	if d.CompanyID > 0 {
		q.Set("company_id", strconv.FormatInt(d.CompanyID, 10))
	} else {
		q.Set("company_id", "")
	}
	return "/employees?" + q.Encode()
}

// ExportURL links to the PDF roster of the current filter.
func (d listPageData) ExportURL() string {
	q := url.Values{}
	if d.Search != "" {
		q.Set("search", d.Search)
	}
	if d.CompanyID > 0 {
		q.Set("company_id", strconv.FormatInt(d.CompanyID, 10))
	}
	if len(q) == 0 {
		return "/employees/export.pdf"
	}
	return "/employees/export.pdf?" + q.Encode()
}

type rosterData struct {
	Employees   []directory.Employee
	Company     string
	Search      string
	Total       int
	Truncated   bool
	GeneratedAt time.Time
}

type editPageData struct {
	Employee        directory.Employee
	Company         searchselect.View[int64]
	OptionsURL      string
	Section         string
	Errors          FieldErrors
	Error           string
	EmploymentTypes []string
	SalaryTypes     []string
	Statuses        []string
	Genders         []string
}

type listState struct {
	form      CreateForm
	errors    FieldErrors
	modalOpen bool
	message   string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, listState{}, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form, parseErrs := ParseCreateForm(r)
	if len(parseErrs) > 0 {
		h.renderList(w, r, listState{form: form, errors: parseErrs, modalOpen: true}, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), form)
	if err != nil {
		state := listState{form: form, modalOpen: true}
		var fieldErrs FieldErrors
		if errors.As(err, &fieldErrs) {
			state.errors = fieldErrs
		} else {
			h.logger.Error("create employee failed", slog.Any("error", err))
			state.message = shared.UserSafeMessage(err)
		}
		h.renderList(w, r, state, http.StatusBadRequest)
		return
	}

	h.logger.Info("employee created", slog.Int64("id", created.ID), slog.Int64("company_id", created.CompanyID))
	shared.RedirectWithFlash(w, r, "/employees/"+strconv.FormatInt(created.ID, 10), shared.FlashSuccess, "Employee "+created.FullName+" created")
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, state listState, status int) {
	filter, companyID := h.listFilter(r)

	data := listPageData{
		Search:     filter.Search,
		CompanyID:  companyID,
		OptionsURL: optionsURL,
		Form:       state.form,
		Errors:     state.errors,
		ModalOpen:  state.modalOpen,
		CanExport:  h.exporter != nil,
		Error:      state.message,
	}
	if data.Errors == nil {
		data.Errors = FieldErrors{}
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list employees failed", slog.Any("error", err))
		if data.Error == "" {
			data.Error = shared.UserSafeMessage(err)
		}
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	}
	data.Employees = result.Page.Employees
	data.Pagination = shared.NewPagination(filter.Page, perPage, result.Page.Total)

	var filterSelected *int64
	if companyID > 0 {
		filterSelected = &companyID
	}
	data.CompanyFilter = searchselect.New(result.Candidates, searchselect.Options[int64]{
		Name:        "company_id",
		DOMID:       "company-filter",
		Placeholder: "All companies",
		Selected:    filterSelected,
	}).View()

	var createSelected *int64
	if state.form.CompanyID > 0 {
		createSelected = &state.form.CompanyID
	} else if companyID > 0 {
		createSelected = &companyID
	}
	data.CreateCompany = searchselect.New(result.Candidates, searchselect.Options[int64]{
		Name:        "company_id",
		DOMID:       "create-company",
		Placeholder: "Select company",
		Selected:    createSelected,
	}).View()

	h.render(w, r, "pages/employees/list.html", "Employees", data, status)
}

// listFilter reads the listing query. An explicit company_id (even empty)
// replaces the filter remembered in the session.
func (h *Handler) listFilter(r *http.Request) (directory.ListFilter, int64) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	filter := directory.ListFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   page,
		Limit:  perPage,
	}

	sess := shared.SessionFromContext(r.Context())
	raw := ""
	if values, ok := q["company_id"]; ok {
		raw = strings.TrimSpace(values[0])
		if sess != nil {
			if raw == "" {
				sess.Delete(companyFilterKey)
			} else {
				sess.Set(companyFilterKey, raw)
			}
		}
	} else if sess != nil {
		raw = sess.Get(companyFilterKey)
	}

	var companyID int64
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		companyID = id
		filter.CompanyID = &companyID
	}
	return filter, companyID
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}
	employee, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.renderFailure(w, r, "load employee failed", id, err)
		return
	}
	h.renderEdit(w, r, employee, "", FieldErrors{}, "", http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	name := chi.URLParam(r, "section")
	section, parseErrs, ok := ParseSection(name, r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var (
		updated directory.Employee
		err     error
	)
	if len(parseErrs) > 0 {
		err = parseErrs
	} else {
		updated, err = h.service.Update(r.Context(), id, section)
	}
	if err != nil {
		var fieldErrs FieldErrors
		message := ""
		if !errors.As(err, &fieldErrs) {
			h.logger.Error("update employee failed", slog.Any("error", err), slog.Int64("id", id), slog.String("section", name))
			message = shared.UserSafeMessage(err)
			fieldErrs = FieldErrors{}
		}
		current, getErr := h.service.Get(r.Context(), id)
		if getErr != nil {
			h.renderFailure(w, r, "reload employee failed", id, getErr)
			return
		}
		h.renderEdit(w, r, withSection(current, section), name, fieldErrs, message, http.StatusBadRequest)
		return
	}

	h.logger.Info("employee updated", slog.Int64("id", id), slog.String("section", name))
	shared.RedirectWithFlash(w, r, "/employees/"+strconv.FormatInt(updated.ID, 10)+"#"+name, shared.FlashSuccess, sectionTitles[name]+" updated")
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, employee directory.Employee, section string, errs FieldErrors, message string, status int) {
	data := editPageData{
		Employee:        employee,
		OptionsURL:      optionsURL,
		Section:         section,
		Errors:          errs,
		Error:           message,
		EmploymentTypes: []string{directory.EmploymentPermanent, directory.EmploymentContract, directory.EmploymentIntern},
		SalaryTypes:     []string{directory.SalaryMonthly, directory.SalaryDaily, directory.SalaryHourly},
		Statuses:        []string{directory.StatusActive, directory.StatusInactive},
		Genders:         []string{"male", "female"},
	}
	candidates, err := h.service.Candidates(r.Context())
	if err != nil {
		h.logger.Error("load companies failed", slog.Any("error", err))
		if data.Error == "" {
			data.Error = shared.UserSafeMessage(err)
		}
	}
	companyID := employee.CompanyID
	data.Company = searchselect.New(candidates, searchselect.Options[int64]{
		Name:        "company_id",
		DOMID:       "employee-company",
		Placeholder: "Select company",
		Selected:    &companyID,
	}).View()
	if !data.Company.HasSelection && employee.CompanyName != "" {
		data.Company.Label = employee.CompanyName
	}
	h.render(w, r, "pages/employees/edit.html", employee.FullName, data, status)
}

func (h *Handler) companyOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	candidates, err := h.service.Candidates(r.Context())
	if err != nil {
		h.logger.Error("load company options failed", slog.Any("error", err))
		http.Error(w, shared.UserSafeMessage(err), http.StatusBadGateway)
		return
	}
	opts := searchselect.Options[int64]{Name: q.Get("name")}
	if id, err := strconv.ParseInt(q.Get("selected"), 10, 64); err == nil && id > 0 {
		opts.Selected = &id
	}
	sel := searchselect.New(candidates, opts)
	sel.Open()
	sel.SetQuery(q.Get("q"))
	if err := h.templates.RenderStatus(w, http.StatusOK, "partials/search_options.html", sel.View()); err != nil {
		h.logger.Error("render company options", slog.Any("error", err))
	}
}

func (h *Handler) nextCode(w http.ResponseWriter, r *http.Request) {
	companyID, _ := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	code, err := h.service.NextCode(r.Context(), companyID)
	if err != nil {
		var fieldErrs FieldErrors
		if errors.As(err, &fieldErrs) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company_id "+fieldErrs["company_id"])
			return
		}
		h.logger.Error("next employee code failed", slog.Any("error", err), slog.Int64("company_id", companyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		http.NotFound(w, r)
		return
	}
	filter, companyID := h.listFilter(r)
	filter.Page = 1
	filter.Limit = rosterLimit

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.renderFailure(w, r, "load roster failed", 0, err)
		return
	}
	data := rosterData{
		Employees:   result.Page.Employees,
		Search:      filter.Search,
		Total:       result.Page.Total,
		Truncated:   result.Page.Total > len(result.Page.Employees),
		GeneratedAt: h.now(),
	}
	for _, c := range result.Candidates {
		if c.ID == companyID {
			data.Company = c.Label()
		}
	}

	var html bytes.Buffer
	if err := h.templates.Execute(&html, "pages/employees/roster.html", data); err != nil {
		h.logger.Error("render roster", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	pdf, err := h.exporter.RenderHTML(r.Context(), html.Bytes())
	if err != nil {
		h.logger.Error("export roster", slog.Any("error", err))
		h.render(w, r, "pages/error.html", "Employees", map[string]any{
			"Message": "The PDF export is unavailable, please try again later",
			"Back":    "/employees",
		}, http.StatusBadGateway)
		return
	}

	filename := "employees-" + data.GeneratedAt.Format("20060102") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid employee ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) renderFailure(w http.ResponseWriter, r *http.Request, msg string, id int64, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, directory.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		h.logger.Error(msg, slog.Any("error", err), slog.Int64("id", id))
	}
	h.render(w, r, "pages/error.html", "Employees", map[string]any{
		"Message": shared.UserSafeMessage(err),
		"Back":    "/employees",
	}, status)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, err := h.csrf.EnsureToken(sess)
	if err != nil {
		h.logger.Warn("csrf token", slog.Any("error", err))
	}
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: "/employees",
		Data:        data,
	}
	if err := h.templates.RenderStatus(w, status, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", template))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// withSection shows the submitted values of section on top of e.
func withSection(e directory.Employee, section Section) directory.Employee {
	in := directory.InputFromEmployee(e)
	section.Apply(&in)
	e.CompanyID = in.CompanyID
	e.FullName = in.FullName
	e.Email = in.Email
	e.Phone = in.Phone
	e.Gender = in.Gender
	e.BirthDate = in.BirthDate
	e.Address = in.Address
	e.Position = in.Position
	e.Department = in.Department
	e.EmploymentType = in.EmploymentType
	e.JoinDate = in.JoinDate
	e.Status = in.Status
	e.BaseSalary = in.BaseSalary
	e.SalaryType = in.SalaryType
	e.ShiftName = in.ShiftName
	e.ShiftStart = in.ShiftStart
	e.ShiftEnd = in.ShiftEnd
	e.AnnualLeaveDays = in.AnnualLeaveDays
	e.SickLeaveDays = in.SickLeaveDays
	return e
}
