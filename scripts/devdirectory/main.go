// Command devdirectory serves an in-memory employee directory speaking the
// same JSON API as the real one, for running the console locally.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/owner-console/internal/directory"
	"github.com/odyssey-erp/owner-console/internal/platform/httpx"
)

func main() {
	addr := getenv("DEVDIRECTORY_ADDR", ":9000")
	token := os.Getenv("DIRECTORY_TOKEN")
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(seed(), token),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("dev directory listening", slog.String("addr", addr), slog.String("base", "/api/v1"))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("dev directory", slog.Any("error", err))
		os.Exit(1)
	}
}

type store struct {
	mu        sync.Mutex
	companies []directory.Company
	employees map[int64]directory.Employee
	nextID    int64
}

func seed() *store {
	s := &store{
		companies: []directory.Company{
			{ID: 1, Code: "ODT", Name: "Odyssey Trading"},
			{ID: 2, Code: "NSL", Name: "Nusantara Logistik"},
			{ID: 3, Code: "SBM", Name: "Sinar Baru Manufaktur"},
		},
		employees: make(map[int64]directory.Employee),
	}
	people := []struct {
		company  int64
		name     string
		position string
		salary   int64
	}{
		{1, "Budi Santoso", "Sales Manager", 12500000},
		{1, "Rina Wijaya", "Accountant", 9000000},
		{2, "Agus Pratama", "Driver", 5200000},
		{2, "Dewi Lestari", "Dispatcher", 6100000},
		{3, "Joko Susilo", "Line Supervisor", 8300000},
	}
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	for _, p := range people {
		in := directory.EmployeeInput{
			CompanyID:       p.company,
			FullName:        p.name,
			Email:           strings.ToLower(strings.ReplaceAll(p.name, " ", ".")) + "@example.test",
			Position:        p.position,
			EmploymentType:  directory.EmploymentPermanent,
			JoinDate:        "2024-02-01",
			Status:          directory.StatusActive,
			BaseSalary:      p.salary,
			SalaryType:      directory.SalaryMonthly,
			AnnualLeaveDays: 12,
			SickLeaveDays:   6,
		}
		in.Code = s.nextCode(p.company)
		s.insert(in, now)
	}
	return s
}

func (s *store) company(id int64) (directory.Company, bool) {
	for _, c := range s.companies {
		if c.ID == id {
			return c, true
		}
	}
	return directory.Company{}, false
}

func (s *store) nextCode(companyID int64) string {
	c, _ := s.company(companyID)
	n := 1
	for _, e := range s.employees {
		if e.CompanyID == companyID {
			n++
		}
	}
	return fmt.Sprintf("%s-%04d", c.Code, n)
}

func (s *store) codeTaken(code string, except int64) bool {
	for _, e := range s.employees {
		if e.ID != except && strings.EqualFold(e.Code, code) {
			return true
		}
	}
	return false
}

func (s *store) insert(in directory.EmployeeInput, now time.Time) directory.Employee {
	s.nextID++
	e := apply(directory.Employee{ID: s.nextID, CreatedAt: now}, in)
	e.UpdatedAt = now
	if c, ok := s.company(in.CompanyID); ok {
		e.CompanyName = c.Name
	}
	s.employees[e.ID] = e
	return e
}

func apply(e directory.Employee, in directory.EmployeeInput) directory.Employee {
	e.CompanyID = in.CompanyID
	e.Code = in.Code
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

func newRouter(s *store, token string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Group(func(r chi.Router) {
			r.Use(bearer(token))
			r.Get("/companies", s.listCompanies)
			r.Get("/employees", s.listEmployees)
			r.Post("/employees", s.createEmployee)
			r.Get("/employees/next-code", s.employeeCode)
			r.Get("/employees/{id}", s.getEmployee)
			r.Put("/employees/{id}", s.updateEmployee)
		})
	})
	return r
}

func bearer(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				fail(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func ok(w http.ResponseWriter, status int, data any, m *meta) {
	body := map[string]any{"data": data}
	if m != nil {
		body["meta"] = m
	}
	httpx.JSON(w, status, body)
}

func fail(w http.ResponseWriter, status int, code, message string) {
	httpx.JSON(w, status, map[string]string{"error": code, "message": message})
}

func (s *store) listCompanies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(w, http.StatusOK, s.companies, nil)
}

func (s *store) listEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyID, _ := strconv.ParseInt(q.Get("company_id"), 10, 64)
	search := strings.ToLower(strings.TrimSpace(q.Get("search")))
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}

	s.mu.Lock()
	matched := make([]directory.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if companyID > 0 && e.CompanyID != companyID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.FullName+" "+e.Code+" "+e.Email), search) {
			continue
		}
		matched = append(matched, e)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	ok(w, http.StatusOK, matched[start:end], &meta{Total: len(matched), Page: page, Limit: limit})
}

func (s *store) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	s.mu.Lock()
	e, found := s.employees[id]
	s.mu.Unlock()
	if !found {
		fail(w, http.StatusNotFound, "not_found", "employee not found")
		return
	}
	ok(w, http.StatusOK, e, nil)
}

func (s *store) createEmployee(w http.ResponseWriter, r *http.Request) {
	var in directory.EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		fail(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.company(in.CompanyID); !found {
		fail(w, http.StatusUnprocessableEntity, "unknown_company", "company does not exist")
		return
	}
	if s.codeTaken(in.Code, 0) {
		fail(w, http.StatusConflict, "duplicate_code", "employee code "+in.Code+" is already used")
		return
	}
	ok(w, http.StatusCreated, s.insert(in, time.Now().UTC()), nil)
}

func (s *store) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var in directory.EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		fail(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, found := s.employees[id]
	if !found {
		fail(w, http.StatusNotFound, "not_found", "employee not found")
		return
	}
	c, found := s.company(in.CompanyID)
	if !found {
		fail(w, http.StatusUnprocessableEntity, "unknown_company", "company does not exist")
		return
	}
	if s.codeTaken(in.Code, id) {
		fail(w, http.StatusConflict, "duplicate_code", "employee code "+in.Code+" is already used")
		return
	}
	updated := apply(current, in)
	updated.CompanyName = c.Name
	updated.UpdatedAt = time.Now().UTC()
	s.employees[id] = updated
	ok(w, http.StatusOK, updated, nil)
}

func (s *store) employeeCode(w http.ResponseWriter, r *http.Request) {
	companyID, _ := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.company(companyID); !found {
		fail(w, http.StatusUnprocessableEntity, "unknown_company", "company does not exist")
		return
	}
	ok(w, http.StatusOK, map[string]string{"code": s.nextCode(companyID)}, nil)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
