package employees

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/owner-console/internal/directory"
	"github.com/odyssey-erp/owner-console/internal/ui/searchselect"
)

// Directory is the subset of the directory client used by employee views.
type Directory interface {
	ListEmployees(ctx context.Context, filter directory.ListFilter) (directory.EmployeePage, error)
	GetEmployee(ctx context.Context, id int64) (directory.Employee, error)
	CreateEmployee(ctx context.Context, input directory.EmployeeInput) (directory.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, input directory.EmployeeInput) (directory.Employee, error)
	NextEmployeeCode(ctx context.Context, companyID int64) (string, error)
}

// CompanyProvider supplies the company candidate list.
type CompanyProvider interface {
	Companies(ctx context.Context) ([]directory.Company, error)
}

// ErrInvalidID is returned for non-positive employee identifiers.
var ErrInvalidID = errors.New("employees: invalid employee id")

// Service glues form handling to the directory.
type Service struct {
	dir       Directory
	companies CompanyProvider
	validate  *validator.Validate
}

// NewService constructs a Service.
func NewService(dir Directory, companies CompanyProvider) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	return &Service{dir: dir, companies: companies, validate: v}
}

// ListResult is everything the list page needs.
type ListResult struct {
	Page       directory.EmployeePage
	Candidates []searchselect.Candidate[int64]
}

// List loads one page of employees together with the company candidates.
func (s *Service) List(ctx context.Context, filter directory.ListFilter) (ListResult, error) {
	var (
		page      directory.EmployeePage
		companies []directory.Company
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.dir.ListEmployees(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		companies, err = s.companies.Companies(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ListResult{}, err
	}

	names := make(map[int64]string, len(companies))
	for _, c := range companies {
		names[c.ID] = c.Name
	}
	for i := range page.Employees {
		if page.Employees[i].CompanyName == "" {
			page.Employees[i].CompanyName = names[page.Employees[i].CompanyID]
		}
	}
	return ListResult{Page: page, Candidates: Candidates(companies)}, nil
}

// Candidates returns the company list in the shape the dropdown consumes.
func (s *Service) Candidates(ctx context.Context) ([]searchselect.Candidate[int64], error) {
	companies, err := s.companies.Companies(ctx)
	if err != nil {
		return nil, err
	}
	return Candidates(companies), nil
}

// Get loads an employee.
func (s *Service) Get(ctx context.Context, id int64) (directory.Employee, error) {
	if id <= 0 {
		return directory.Employee{}, ErrInvalidID
	}
	return s.dir.GetEmployee(ctx, id)
}

// Create validates the modal form and registers the employee.
func (s *Service) Create(ctx context.Context, form CreateForm) (directory.Employee, error) {
	if errs := s.check(form); len(errs) > 0 {
		return directory.Employee{}, errs
	}
	if err := s.ensureCompany(ctx, form.CompanyID); err != nil {
		return directory.Employee{}, err
	}
	created, err := s.dir.CreateEmployee(ctx, form.Input())
	if err != nil {
		return directory.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return created, nil
}

// Update merges section into the stored record and saves the full payload.
func (s *Service) Update(ctx context.Context, id int64, section Section) (directory.Employee, error) {
	if id <= 0 {
		return directory.Employee{}, ErrInvalidID
	}
	if errs := s.check(section); len(errs) > 0 {
		return directory.Employee{}, errs
	}
	if cf, ok := section.(CompanyForm); ok {
		if err := s.ensureCompany(ctx, cf.CompanyID); err != nil {
			return directory.Employee{}, err
		}
	}
	current, err := s.dir.GetEmployee(ctx, id)
	if err != nil {
		return directory.Employee{}, fmt.Errorf("load employee %d: %w", id, err)
	}
	input := directory.InputFromEmployee(current)
	section.Apply(&input)
	updated, err := s.dir.UpdateEmployee(ctx, id, input)
	if err != nil {
		return directory.Employee{}, fmt.Errorf("update employee %d: %w", id, err)
	}
	return updated, nil
}

// NextCode asks the directory for the next employee code of a company.
func (s *Service) NextCode(ctx context.Context, companyID int64) (string, error) {
	if companyID <= 0 {
		return "", FieldErrors{"company_id": "is required"}
	}
	return s.dir.NextEmployeeCode(ctx, companyID)
}

func (s *Service) ensureCompany(ctx context.Context, companyID int64) error {
	companies, err := s.companies.Companies(ctx)
	if err != nil {
		return fmt.Errorf("load companies: %w", err)
	}
	for _, c := range companies {
		if c.ID == companyID {
			return nil
		}
	}
	return FieldErrors{"company_id": "is not a known company"}
}

func (s *Service) check(form any) FieldErrors {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"general": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = describe(fe)
		}
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "gt":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		if fe.Param() == "15:04" {
			return "must be a time (HH:MM)"
		}
		return "must be a date (YYYY-MM-DD)"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must not be negative"
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// Candidates converts directory companies into dropdown candidates.
func Candidates(companies []directory.Company) []searchselect.Candidate[int64] {
	out := make([]searchselect.Candidate[int64], 0, len(companies))
	for _, c := range companies {
		out = append(out, searchselect.Candidate[int64]{ID: c.ID, Name: c.Name, Code: c.Code})
	}
	return out
}
