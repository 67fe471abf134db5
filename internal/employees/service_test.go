package employees

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/owner-console/internal/directory"
)

func validCreateForm() CreateForm {
	return CreateForm{
		CompanyID: 2,
		Code:      "NSL-0001",
		FullName:  "Siti Rahma",
		Email:     "siti@nsl.test",
		JoinDate:  "2026-01-05",
	}
}

func TestCreateBuildsDefaultsAndCallsDirectory(t *testing.T) {
	dir := newDirectoryStub()
	svc := NewService(dir, testCompanies())

	created, err := svc.Create(context.Background(), validCreateForm())
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", created.FullName)
	assert.Equal(t, int64(2), dir.lastInput.CompanyID)
	assert.Equal(t, directory.StatusActive, dir.lastInput.Status)
	assert.Equal(t, directory.EmploymentPermanent, dir.lastInput.EmploymentType)
	assert.Equal(t, directory.SalaryMonthly, dir.lastInput.SalaryType)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newDirectoryStub(), testCompanies())

	form := validCreateForm()
	form.CompanyID = 0
	form.FullName = ""
	form.Email = "not-an-email"
	form.JoinDate = "05/01/2026"

	_, err := svc.Create(context.Background(), form)
	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, "is required", fieldErrs["company_id"])
	assert.Equal(t, "is required", fieldErrs["full_name"])
	assert.Equal(t, "must be a valid email address", fieldErrs["email"])
	assert.Equal(t, "must be a date (YYYY-MM-DD)", fieldErrs["join_date"])
}

func TestCreateRejectsUnknownCompany(t *testing.T) {
	dir := newDirectoryStub()
	svc := NewService(dir, testCompanies())

	form := validCreateForm()
	form.CompanyID = 99
	_, err := svc.Create(context.Background(), form)
	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, "is not a known company", fieldErrs["company_id"])
	assert.Empty(t, dir.lastInput.FullName)
}

func TestCreateWrapsDirectoryError(t *testing.T) {
	dir := newDirectoryStub()
	dir.createErr = &directory.APIError{Status: 409, Message: "code NSL-0001 already used"}
	svc := NewService(dir, testCompanies())

	_, err := svc.Create(context.Background(), validCreateForm())
	assert.ErrorIs(t, err, directory.ErrDuplicate)
}

func TestUpdateMergesSectionIntoStoredRecord(t *testing.T) {
	dir := newDirectoryStub(budi())
	svc := NewService(dir, testCompanies())

	updated, err := svc.Update(context.Background(), 7, LeaveForm{AnnualLeaveDays: 14, SickLeaveDays: 10})
	require.NoError(t, err)
	assert.Equal(t, 14, updated.AnnualLeaveDays)

	assert.Equal(t, "Budi Santoso", dir.lastInput.FullName)
	assert.Equal(t, int64(4500000), dir.lastInput.BaseSalary)
	assert.Equal(t, "ODT-0007", dir.lastInput.Code)
	assert.Equal(t, 10, dir.lastInput.SickLeaveDays)
}

func TestUpdateSectionValidation(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		field   string
		message string
	}{
		{"leave too high", LeaveForm{AnnualLeaveDays: 400}, "annual_leave_days", "must be at most 365"},
		{"negative sick", LeaveForm{SickLeaveDays: -1}, "sick_leave_days", "must not be negative"},
		{"negative salary", CompensationForm{BaseSalary: -5, SalaryType: "monthly"}, "base_salary", "must not be negative"},
		{"salary type", CompensationForm{SalaryType: "weekly"}, "salary_type", "must be one of: monthly, daily, hourly"},
		{"shift time", CompensationForm{SalaryType: "daily", ShiftStart: "25:00"}, "shift_start", "must be a time (HH:MM)"},
		{"employment", WorkForm{EmploymentType: "freelance", Status: "active"}, "employment_type", "must be one of: permanent, contract, intern"},
		{"status", WorkForm{EmploymentType: "contract"}, "status", "is required"},
		{"gender", ProfileForm{FullName: "A", Email: "a@b.test", Gender: "x"}, "gender", "must be one of: male, female"},
		{"company", CompanyForm{}, "company_id", "is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := newDirectoryStub(budi())
			svc := NewService(dir, testCompanies())
			_, err := svc.Update(context.Background(), 7, tc.section)
			var fieldErrs FieldErrors
			require.True(t, errors.As(err, &fieldErrs), "got %v", err)
			assert.Equal(t, tc.message, fieldErrs[tc.field])
			assert.Zero(t, dir.updateCalls)
		})
	}
}

func TestServiceUpdateCompanyReassignment(t *testing.T) {
	dir := newDirectoryStub(budi())
	svc := NewService(dir, testCompanies())

	_, err := svc.Update(context.Background(), 7, CompanyForm{CompanyID: 42})
	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))

	updated, err := svc.Update(context.Background(), 7, CompanyForm{CompanyID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.CompanyID)
}

func TestUpdateInvalidIDAndMissingEmployee(t *testing.T) {
	svc := NewService(newDirectoryStub(), testCompanies())

	_, err := svc.Update(context.Background(), 0, LeaveForm{})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.Update(context.Background(), 55, LeaveForm{})
	assert.ErrorIs(t, err, directory.ErrNotFound)

	_, err = svc.Get(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestListFillsCompanyNames(t *testing.T) {
	dir := newDirectoryStub(budi())
	svc := NewService(dir, testCompanies())

	result, err := svc.List(context.Background(), directory.ListFilter{Page: 1})
	require.NoError(t, err)
	require.Len(t, result.Page.Employees, 1)
	assert.Equal(t, "Odyssey Trading", result.Page.Employees[0].CompanyName)
	assert.Len(t, result.Candidates, 2)
}

func TestListPropagatesCompanyFailure(t *testing.T) {
	boom := errors.New("redis down and directory down")
	svc := NewService(newDirectoryStub(), &companiesStub{err: boom})

	_, err := svc.List(context.Background(), directory.ListFilter{})
	assert.ErrorIs(t, err, boom)
}

func TestServiceNextCode(t *testing.T) {
	svc := NewService(newDirectoryStub(), testCompanies())

	code, err := svc.NextCode(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "EMP-0007", code)

	_, err = svc.NextCode(context.Background(), 0)
	var fieldErrs FieldErrors
	assert.True(t, errors.As(err, &fieldErrs))
}

func TestCandidatesKeepOrder(t *testing.T) {
	c := Candidates(testCompanies().companies)
	require.Len(t, c, 2)
	assert.Equal(t, int64(1), c[0].ID)
	assert.Equal(t, "NSL", c[1].Code)
}
