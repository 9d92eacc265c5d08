package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Salary bounds in the salary's own currency.
var (
	MinSalary = decimal.NewFromInt(10000)
	MaxSalary = decimal.NewFromInt(1000000)
)

// EmployeeParams carries everything needed to construct an Employee. A zero
// HireDate defaults to today.
type EmployeeParams struct {
	ID         string
	Name       string
	Email      string
	Role       EmployeeRole
	Salary     Money
	HireDate   time.Time
	Phone      string
	Department string
	ManagerID  string
}

// Employee is a staff member with a role-based permission model, a
// de-duplicated task list and a performance rating in [0, 5].
type Employee struct {
	Entity
	name              string
	email             string
	role              EmployeeRole
	salary            Money
	hireDate          time.Time
	phone             string
	department        string
	managerID         string
	tasks             []string
	performanceRating decimal.Decimal
}

func NewEmployee(params EmployeeParams) (*Employee, error) {
	entity, err := newEntity(params.ID)
	if err != nil {
		return nil, err
	}
	hireDate := params.HireDate
	if hireDate.IsZero() {
		hireDate = time.Now()
	}
	e := &Employee{
		Entity:     entity,
		name:       params.Name,
		email:      params.Email,
		role:       params.Role,
		salary:     params.Salary,
		hireDate:   hireDate,
		phone:      params.Phone,
		department: params.Department,
		managerID:  params.ManagerID,
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// RehydrateEmployee reconstructs a persisted employee, restoring tasks,
// rating and timestamps.
func RehydrateEmployee(params EmployeeParams, tasks []string, rating decimal.Decimal,
	createdAt, updatedAt time.Time) (*Employee, error) {

	e, err := NewEmployee(params)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		e.AssignTask(task)
	}
	if err := e.SetPerformanceRating(rating); err != nil {
		return nil, err
	}
	e.restoreTimestamps(createdAt, updatedAt)
	return e, nil
}

func (e *Employee) validate() error {
	if len(e.name) < 2 {
		return newValidationError("employee name must be at least 2 characters")
	}
	if !strings.Contains(e.email, "@") {
		return newValidationError("invalid email address: %q", e.email)
	}
	if !e.role.Valid() {
		return newValidationError("unknown employee role: %q", e.role)
	}
	return validateSalary(e.salary)
}

func validateSalary(salary Money) error {
	if salary.Amount.LessThan(MinSalary) {
		return newValidationError("salary must be at least %s", MinSalary)
	}
	if salary.Amount.GreaterThan(MaxSalary) {
		return newValidationError("salary cannot exceed %s", MaxSalary)
	}
	return nil
}

func (e *Employee) Name() string                          { return e.name }
func (e *Employee) Email() string                         { return e.email }
func (e *Employee) Role() EmployeeRole                    { return e.role }
func (e *Employee) Salary() Money                         { return e.salary }
func (e *Employee) HireDate() time.Time                   { return e.hireDate }
func (e *Employee) Phone() string                         { return e.phone }
func (e *Employee) Department() string                    { return e.department }
func (e *Employee) ManagerID() string                     { return e.managerID }
func (e *Employee) PerformanceRating() decimal.Decimal    { return e.performanceRating }

func (e *Employee) Rename(name string) error {
	if len(name) < 2 {
		return newValidationError("employee name must be at least 2 characters")
	}
	e.name = name
	e.touch()
	return nil
}

func (e *Employee) SetEmail(email string) error {
	if !strings.Contains(email, "@") {
		return newValidationError("invalid email address: %q", email)
	}
	e.email = email
	e.touch()
	return nil
}

// Promote changes the role; permissions follow the role automatically.
func (e *Employee) Promote(role EmployeeRole) error {
	if !role.Valid() {
		return newValidationError("unknown employee role: %q", role)
	}
	e.role = role
	e.touch()
	return nil
}

func (e *Employee) SetSalary(salary Money) error {
	if err := validateSalary(salary); err != nil {
		return err
	}
	e.salary = salary
	e.touch()
	return nil
}

func (e *Employee) SetPhone(phone string) {
	e.phone = phone
	e.touch()
}

func (e *Employee) SetDepartment(department string) {
	e.department = department
	e.touch()
}

func (e *Employee) SetManagerID(managerID string) {
	e.managerID = managerID
	e.touch()
}

// SetPerformanceRating sets the rating, which must lie in [0, 5].
func (e *Employee) SetPerformanceRating(rating decimal.Decimal) error {
	if rating.IsNegative() || rating.GreaterThan(decimal.NewFromInt(5)) {
		return newValidationError("performance rating must be between 0 and 5")
	}
	e.performanceRating = rating
	e.touch()
	return nil
}

// YearsOfService counts full years since the hire date; an anniversary not
// yet reached this year decrements by one.
func (e *Employee) YearsOfService() int {
	now := time.Now()
	years := now.Year() - e.hireDate.Year()
	anniversary := time.Date(now.Year(), e.hireDate.Month(), e.hireDate.Day(), 0, 0, 0, 0, now.Location())
	if now.Before(anniversary) {
		years--
	}
	return years
}

// AssignTask adds a task; assigning an existing task is a no-op.
func (e *Employee) AssignTask(task string) {
	for _, existing := range e.tasks {
		if existing == task {
			return
		}
	}
	e.tasks = append(e.tasks, task)
	e.touch()
}

// RemoveTask deletes a task; false when it was not assigned.
func (e *Employee) RemoveTask(task string) bool {
	for i, existing := range e.tasks {
		if existing == task {
			e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
			e.touch()
			return true
		}
	}
	return false
}

// Tasks returns a copy of the assigned task list.
func (e *Employee) Tasks() []string {
	out := make([]string, len(e.tasks))
	copy(out, e.tasks)
	return out
}

func (e *Employee) HasPermission(permission string) bool {
	return e.role.HasPermission(permission)
}

// CanManage implements the management hierarchy rule. The rule that Manager
// and Admin cannot manage an Accountant is an explicit business decision
// and is not derivable from the permission sets.
func (e *Employee) CanManage(other *Employee) bool {
	if other == nil {
		return false
	}
	switch e.role {
	case RoleManager, RoleAdmin:
		return other.role != RoleAccountant
	case RoleSupervisor:
		switch other.role {
		case RoleManager, RoleAdmin, RoleAccountant:
			return false
		}
		return true
	}
	return false
}

// Bonus is salary × percentage × (1 + rating/10); the percentage must lie
// in [0, 1].
func (e *Employee) Bonus(percentage decimal.Decimal) (Money, error) {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(1)) {
		return Money{}, newValidationError("bonus percentage must be between 0 and 1")
	}
	base := e.salary.Amount.Mul(percentage)
	multiplier := decimal.NewFromInt(1).Add(e.performanceRating.Div(decimal.NewFromInt(10)))
	return e.salary.derive(base.Mul(multiplier)), nil
}

// Info returns the presentation mapping for the employee.
func (e *Employee) Info() map[string]interface{} {
	return map[string]interface{}{
		"id":                 e.ID(),
		"name":               e.name,
		"email":              e.email,
		"role":               string(e.role),
		"salary":             e.salary.String(),
		"hire_date":          e.hireDate.Format("2006-01-02"),
		"years_of_service":   e.YearsOfService(),
		"phone":              e.phone,
		"department":         e.department,
		"manager_id":         e.managerID,
		"task_count":         len(e.tasks),
		"performance_rating": e.performanceRating.String(),
		"permissions":        e.role.Permissions(),
		"created_at":         e.CreatedAt().Format(time.RFC3339),
		"updated_at":         e.UpdatedAt().Format(time.RFC3339),
	}
}

func (e *Employee) String() string {
	return fmt.Sprintf("Employee: %s (%s) - Dept: %s", e.name, e.role, e.department)
}
