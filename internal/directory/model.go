package directory

import "time"

// Company is a tenant known to the directory.
type Company struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Employment types accepted by the directory.
const (
	EmploymentPermanent = "permanent"
	EmploymentContract  = "contract"
	EmploymentIntern    = "intern"
)

// Salary types accepted by the directory.
const (
	SalaryMonthly = "monthly"
	SalaryDaily   = "daily"
	SalaryHourly  = "hourly"
)

// Employee statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Employee is the directory record for a single employee.
type Employee struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"company_id"`
	CompanyName string `json:"company_name"`
	Code        string `json:"code"`

	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`

	Position       string `json:"position"`
	Department     string `json:"department"`
	EmploymentType string `json:"employment_type"`
	JoinDate       string `json:"join_date"`
	Status         string `json:"status"`

	BaseSalary int64  `json:"base_salary"`
	SalaryType string `json:"salary_type"`
	ShiftName  string `json:"shift_name"`
	ShiftStart string `json:"shift_start"`
	ShiftEnd   string `json:"shift_end"`

	AnnualLeaveDays int `json:"annual_leave_days"`
	SickLeaveDays   int `json:"sick_leave_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmployeeInput is the payload for create and update calls.
type EmployeeInput struct {
	CompanyID int64  `json:"company_id"`
	Code      string `json:"code"`

	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	Address   string `json:"address,omitempty"`

	Position       string `json:"position,omitempty"`
	Department     string `json:"department,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	JoinDate       string `json:"join_date,omitempty"`
	Status         string `json:"status,omitempty"`

	BaseSalary int64  `json:"base_salary"`
	SalaryType string `json:"salary_type,omitempty"`
	ShiftName  string `json:"shift_name,omitempty"`
	ShiftStart string `json:"shift_start,omitempty"`
	ShiftEnd   string `json:"shift_end,omitempty"`

	AnnualLeaveDays int `json:"annual_leave_days"`
	SickLeaveDays   int `json:"sick_leave_days"`
}

// InputFromEmployee copies the editable fields of e.
func InputFromEmployee(e Employee) EmployeeInput {
	return EmployeeInput{
		CompanyID:       e.CompanyID,
		Code:            e.Code,
		FullName:        e.FullName,
		Email:           e.Email,
		Phone:           e.Phone,
		Gender:          e.Gender,
		BirthDate:       e.BirthDate,
		Address:         e.Address,
		Position:        e.Position,
		Department:      e.Department,
		EmploymentType:  e.EmploymentType,
		JoinDate:        e.JoinDate,
		Status:          e.Status,
		BaseSalary:      e.BaseSalary,
		SalaryType:      e.SalaryType,
		ShiftName:       e.ShiftName,
		ShiftStart:      e.ShiftStart,
		ShiftEnd:        e.ShiftEnd,
		AnnualLeaveDays: e.AnnualLeaveDays,
		SickLeaveDays:   e.SickLeaveDays,
	}
}

// ListFilter narrows an employee listing.
type ListFilter struct {
	CompanyID *int64
	Search    string
	Page      int
	Limit     int
}

// EmployeePage is one page of a listing.
type EmployeePage struct {
	Employees []Employee
	Total     int
	Page      int
	Limit     int
}
