package employees

import (
	"context"
	"sync"

	"github.com/odyssey-erp/owner-console/internal/directory"
)

type directoryStub struct {
	mu          sync.Mutex
	employees   map[int64]directory.Employee
	nextID      int64
	lastFilter  directory.ListFilter
	lastInput   directory.EmployeeInput
	listErr     error
	getErr      error
	createErr   error
	updateErr   error
	codeErr     error
	updateCalls int
}

func newDirectoryStub(employees ...directory.Employee) *directoryStub {
	s := &directoryStub{employees: make(map[int64]directory.Employee), nextID: 100}
	for _, e := range employees {
		s.employees[e.ID] = e
	}
	return s
}

func (s *directoryStub) ListEmployees(ctx context.Context, filter directory.ListFilter) (directory.EmployeePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	if s.listErr != nil {
		return directory.EmployeePage{}, s.listErr
	}
	var out []directory.Employee
	for _, e := range s.employees {
		if filter.CompanyID != nil && e.CompanyID != *filter.CompanyID {
			continue
		}
		out = append(out, e)
	}
	return directory.EmployeePage{Employees: out, Total: len(out), Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *directoryStub) GetEmployee(ctx context.Context, id int64) (directory.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return directory.Employee{}, s.getErr
	}
	e, ok := s.employees[id]
	if !ok {
		return directory.Employee{}, &directory.APIError{Status: 404, Message: "employee not found"}
	}
	return e, nil
}

func (s *directoryStub) CreateEmployee(ctx context.Context, input directory.EmployeeInput) (directory.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastInput = input
	if s.createErr != nil {
		return directory.Employee{}, s.createErr
	}
	s.nextID++
	e := directory.Employee{ID: s.nextID, CompanyID: input.CompanyID, Code: input.Code, FullName: input.FullName, Email: input.Email, Status: input.Status}
	s.employees[e.ID] = e
	return e, nil
}

func (s *directoryStub) UpdateEmployee(ctx context.Context, id int64, input directory.EmployeeInput) (directory.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	s.lastInput = input
	if s.updateErr != nil {
		return directory.Employee{}, s.updateErr
	}
	e := s.employees[id]
	e.CompanyID = input.CompanyID
	e.FullName = input.FullName
	e.Email = input.Email
	e.BaseSalary = input.BaseSalary
	e.SalaryType = input.SalaryType
	e.AnnualLeaveDays = input.AnnualLeaveDays
	e.SickLeaveDays = input.SickLeaveDays
	s.employees[id] = e
	return e, nil
}

func (s *directoryStub) NextEmployeeCode(ctx context.Context, companyID int64) (string, error) {
	if s.codeErr != nil {
		return "", s.codeErr
	}
	return "EMP-0007", nil
}

type companiesStub struct {
	companies []directory.Company
	err       error
}

func (c *companiesStub) Companies(ctx context.Context) ([]directory.Company, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.companies, nil
}

func testCompanies() *companiesStub {
	return &companiesStub{companies: []directory.Company{
		{ID: 1, Code: "ODT", Name: "Odyssey Trading"},
		{ID: 2, Code: "NSL", Name: "Nusantara Logistik"},
	}}
}

func budi() directory.Employee {
	return directory.Employee{
		ID:              7,
		CompanyID:       1,
		Code:            "ODT-0007",
		FullName:        "Budi Santoso",
		Email:           "budi@odyssey.test",
		EmploymentType:  directory.EmploymentPermanent,
		Status:          directory.StatusActive,
		BaseSalary:      4500000,
		SalaryType:      directory.SalaryMonthly,
		AnnualLeaveDays: 12,
		SickLeaveDays:   6,
	}
}
