package employees

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/odyssey-erp/owner-console/internal/directory"
)

// Editable sections of the employee page.
const (
	SectionProfile      = "profile"
	SectionWork         = "work"
	SectionCompensation = "compensation"
	SectionLeave        = "leave"
	SectionCompany      = "company"
)

// Section is a partial edit merged into the full update payload.
type Section interface {
	Apply(in *directory.EmployeeInput)
}

// CreateForm is the payload of the "new employee" modal.
type CreateForm struct {
	CompanyID int64  `form:"company_id" validate:"required,gt=0"`
	Code      string `form:"code" validate:"required,max=32"`
	FullName  string `form:"full_name" validate:"required,max=120"`
	Email     string `form:"email" validate:"required,email"`
	Phone     string `form:"phone" validate:"omitempty,max=32"`
	Position  string `form:"position" validate:"omitempty,max=80"`
	JoinDate  string `form:"join_date" validate:"omitempty,datetime=2006-01-02"`
}

// Input builds the create payload. New employees start active and permanent.
func (f CreateForm) Input() directory.EmployeeInput {
	return directory.EmployeeInput{
		CompanyID:      f.CompanyID,
		Code:           f.Code,
		FullName:       f.FullName,
		Email:          f.Email,
		Phone:          f.Phone,
		Position:       f.Position,
		JoinDate:       f.JoinDate,
		EmploymentType: directory.EmploymentPermanent,
		Status:         directory.StatusActive,
		SalaryType:     directory.SalaryMonthly,
	}
}

// ProfileForm edits personal data.
type ProfileForm struct {
	FullName  string `form:"full_name" validate:"required,max=120"`
	Email     string `form:"email" validate:"required,email"`
	Phone     string `form:"phone" validate:"omitempty,max=32"`
	Gender    string `form:"gender" validate:"omitempty,oneof=male female"`
	BirthDate string `form:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Address   string `form:"address" validate:"omitempty,max=255"`
}

func (f ProfileForm) Apply(in *directory.EmployeeInput) {
	in.FullName = f.FullName
	in.Email = f.Email
	in.Phone = f.Phone
	in.Gender = f.Gender
	in.BirthDate = f.BirthDate
	in.Address = f.Address
}

// WorkForm edits position and employment details.
type WorkForm struct {
	Position       string `form:"position" validate:"omitempty,max=80"`
	Department     string `form:"department" validate:"omitempty,max=80"`
	EmploymentType string `form:"employment_type" validate:"required,oneof=permanent contract intern"`
	JoinDate       string `form:"join_date" validate:"omitempty,datetime=2006-01-02"`
	Status         string `form:"status" validate:"required,oneof=active inactive"`
}

func (f WorkForm) Apply(in *directory.EmployeeInput) {
	in.Position = f.Position
	in.Department = f.Department
	in.EmploymentType = f.EmploymentType
	in.JoinDate = f.JoinDate
	in.Status = f.Status
}

// CompensationForm edits salary and shift.
type CompensationForm struct {
	BaseSalary int64  `form:"base_salary" validate:"gte=0"`
	SalaryType string `form:"salary_type" validate:"required,oneof=monthly daily hourly"`
	ShiftName  string `form:"shift_name" validate:"omitempty,max=60"`
	ShiftStart string `form:"shift_start" validate:"omitempty,datetime=15:04"`
	ShiftEnd   string `form:"shift_end" validate:"omitempty,datetime=15:04"`
}

func (f CompensationForm) Apply(in *directory.EmployeeInput) {
	in.BaseSalary = f.BaseSalary
	in.SalaryType = f.SalaryType
	in.ShiftName = f.ShiftName
	in.ShiftStart = f.ShiftStart
	in.ShiftEnd = f.ShiftEnd
}

// LeaveForm edits yearly leave allowances.
type LeaveForm struct {
	AnnualLeaveDays int `form:"annual_leave_days" validate:"gte=0,lte=365"`
	SickLeaveDays   int `form:"sick_leave_days" validate:"gte=0,lte=365"`
}

func (f LeaveForm) Apply(in *directory.EmployeeInput) {
	in.AnnualLeaveDays = f.AnnualLeaveDays
	in.SickLeaveDays = f.SickLeaveDays
}

// CompanyForm reassigns the employee to another company.
type CompanyForm struct {
	CompanyID int64 `form:"company_id" validate:"required,gt=0"`
}

func (f CompanyForm) Apply(in *directory.EmployeeInput) {
	in.CompanyID = f.CompanyID
}

// FieldErrors maps form field names to messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

type formReader struct {
	r      *http.Request
	errors FieldErrors
}

func (fr *formReader) text(name string) string {
	return strings.TrimSpace(fr.r.PostFormValue(name))
}

func (fr *formReader) int64(name string) int64 {
	return fr.parse(name, fr.text(name))
}

var groupedAmount = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$|^\d{1,3}(?:,\d{3})+$`)

// amount accepts thousands separators as typed by users, e.g. "4.500.000".
// Anything else carrying a separator is a fraction and is rejected.
func (fr *formReader) amount(name string) int64 {
	raw := strings.ReplaceAll(fr.text(name), " ", "")
	if strings.ContainsAny(raw, ".,") {
		if !groupedAmount.MatchString(raw) {
			fr.errors[name] = "must be a whole number"
			return 0
		}
		raw = strings.NewReplacer(".", "", ",", "").Replace(raw)
	}
	return fr.parse(name, raw)
}

func (fr *formReader) parse(name, raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fr.errors[name] = "must be a whole number"
		return 0
	}
	return n
}

func (fr *formReader) int(name string) int {
	n := fr.int64(name)
	return int(n)
}

// ParseCreateForm reads the modal form.
func ParseCreateForm(r *http.Request) (CreateForm, FieldErrors) {
	fr := &formReader{r: r, errors: FieldErrors{}}
	form := CreateForm{
		CompanyID: fr.int64("company_id"),
		Code:      fr.text("code"),
		FullName:  fr.text("full_name"),
		Email:     fr.text("email"),
		Phone:     fr.text("phone"),
		Position:  fr.text("position"),
		JoinDate:  fr.text("join_date"),
	}
	return form, fr.errors
}

// ParseSection reads the form for the named section.
func ParseSection(name string, r *http.Request) (Section, FieldErrors, bool) {
	fr := &formReader{r: r, errors: FieldErrors{}}
	var section Section
	switch name {
	case SectionProfile:
		section = ProfileForm{
			FullName:  fr.text("full_name"),
			Email:     fr.text("email"),
			Phone:     fr.text("phone"),
			Gender:    fr.text("gender"),
			BirthDate: fr.text("birth_date"),
			Address:   fr.text("address"),
		}
	case SectionWork:
		section = WorkForm{
			Position:       fr.text("position"),
			Department:     fr.text("department"),
			EmploymentType: fr.text("employment_type"),
			JoinDate:       fr.text("join_date"),
			Status:         fr.text("status"),
		}
	case SectionCompensation:
		section = CompensationForm{
			BaseSalary: fr.amount("base_salary"),
			SalaryType: fr.text("salary_type"),
			ShiftName:  fr.text("shift_name"),
			ShiftStart: fr.text("shift_start"),
			ShiftEnd:   fr.text("shift_end"),
		}
	case SectionLeave:
		section = LeaveForm{
			AnnualLeaveDays: fr.int("annual_leave_days"),
			SickLeaveDays:   fr.int("sick_leave_days"),
		}
	case SectionCompany:
		section = CompanyForm{CompanyID: fr.int64("company_id")}
	default:
		return nil, nil, false
	}
	return section, fr.errors, true
}
