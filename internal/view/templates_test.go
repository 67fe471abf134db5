package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/owner-console/internal/ui/searchselect"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine("id")
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestNewEngineUnknownLocale(t *testing.T) {
	engine, err := NewEngine("not a locale!")
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestRenderSearchOptionsFragment(t *testing.T) {
	engine, err := NewEngine("en")
	require.NoError(t, err)

	sel := searchselect.New([]searchselect.Candidate[int64]{
		{ID: 1, Name: "Odyssey Trading", Code: "ODT"},
		{ID: 2, Name: "Nusantara Logistik", Code: "NSL"},
	}, searchselect.Options[int64]{Name: "company_id"})
	sel.SetQuery("nsl")

	rec := httptest.NewRecorder()
	require.NoError(t, engine.RenderStatus(rec, http.StatusOK, "partials/search_options.html", sel.View()))
	body := rec.Body.String()
	assert.Contains(t, body, "Nusantara Logistik (NSL)")
	assert.NotContains(t, body, "Odyssey Trading")

	sel.SetQuery("zzz")
	rec = httptest.NewRecorder()
	require.NoError(t, engine.RenderStatus(rec, http.StatusOK, "partials/search_options.html", sel.View()))
	body = rec.Body.String()
	assert.Contains(t, body, "No match found")
	assert.False(t, strings.Contains(body, `data-value=`), "no-match render must not contain options")
}

func TestRenderUnknownTemplateWritesNothing(t *testing.T) {
	engine, err := NewEngine("en")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	err = engine.RenderStatus(rec, http.StatusOK, "pages/missing.html", nil)
	assert.Error(t, err)
	assert.Empty(t, rec.Body.String())
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, 1, m["a"])
	_, err = dict("a")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}
