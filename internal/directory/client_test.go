package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	op  string
	err error
}

type observerStub struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (o *observerStub) ObserveDirectoryCall(op string, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, recordedCall{op: op, err: err})
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret-token", time.Second, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListCompanies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/companies", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []Company{{ID: 1, Code: "ODT", Name: "Odyssey Trading"}}})
	})

	companies, err := client.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "ODT", companies[0].Code)
}

func TestListEmployeesSendsFilterAndReadsMeta(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/employees", r.URL.Path)
		assert.Equal(t, "7", q.Get("company_id"))
		assert.Equal(t, "budi", q.Get("search"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []Employee{{ID: 11, CompanyID: 7, FullName: "Budi Santoso"}},
			"meta": map[string]int{"total": 31, "page": 2, "limit": 10},
		})
	})

	companyID := int64(7)
	page, err := client.ListEmployees(context.Background(), ListFilter{CompanyID: &companyID, Search: " budi ", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 31, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Employees, 1)
	assert.Equal(t, "Budi Santoso", page.Employees[0].FullName)
}

func TestListEmployeesWithoutMeta(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, map[string]any{"data": []Employee{{ID: 1}, {ID: 2}}})
	})

	page, err := client.ListEmployees(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestCreateAndUpdateEmployee(t *testing.T) {
	var received EmployeeInput
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/employees", r.URL.Path)
			writeJSON(w, http.StatusCreated, map[string]any{"data": Employee{ID: 5, Code: received.Code, FullName: received.FullName}})
		case http.MethodPut:
			assert.Equal(t, "/employees/5", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"data": Employee{ID: 5, FullName: received.FullName, AnnualLeaveDays: received.AnnualLeaveDays}})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	created, err := client.CreateEmployee(context.Background(), EmployeeInput{CompanyID: 1, Code: "EMP-0001", FullName: "Siti"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, "EMP-0001", created.Code)

	updated, err := client.UpdateEmployee(context.Background(), 5, EmployeeInput{FullName: "Siti Rahma", AnnualLeaveDays: 14})
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", updated.FullName)
	assert.Equal(t, 14, updated.AnnualLeaveDays)
	assert.Equal(t, 14, received.AnnualLeaveDays)
}

func TestNextEmployeeCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees/next-code", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("company_id"))
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"code": "NSL-0042"}})
	})

	code, err := client.NextEmployeeCode(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "NSL-0042", code)
}

func TestErrorPayloadMapsToSentinels(t *testing.T) {
	tests := []struct {
		status int
		body   string
		kind   error
		msg    string
	}{
		{http.StatusNotFound, `{"error":"not_found","message":"employee not found"}`, ErrNotFound, "employee not found"},
		{http.StatusConflict, `{"error":"duplicate","message":"code already used"}`, ErrDuplicate, "code already used"},
		{http.StatusUnprocessableEntity, `{"error":"email is invalid"}`, ErrValidation, "email is invalid"},
		{http.StatusBadRequest, `bad input`, ErrValidation, "bad input"},
		{http.StatusUnauthorized, `{}`, ErrUnauthorized, ""},
		{http.StatusForbidden, `{"message":"no access"}`, ErrForbidden, "no access"},
		{http.StatusBadGateway, ``, ErrUnavailable, ""},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := client.GetEmployee(context.Background(), 9)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.msg, apiErr.Message)
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	obs := &observerStub{}
	client := NewClient(url, "", time.Second, WithObserver(obs))
	_, err := client.ListCompanies(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	require.Len(t, obs.calls, 1)
	assert.Equal(t, "list_companies", obs.calls[0].op)
	assert.Error(t, obs.calls[0].err)
}

func TestObserverSeesSuccess(t *testing.T) {
	obs := &observerStub{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": Employee{ID: 1}})
	}, WithObserver(obs))

	_, err := client.GetEmployee(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, obs.calls, 1)
	assert.Equal(t, "get_employee", obs.calls[0].op)
	assert.NoError(t, obs.calls[0].err)
}
