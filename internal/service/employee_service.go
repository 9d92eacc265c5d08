package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warehouse-service/internal/domain"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmployeeService handles staff business logic.
type EmployeeService struct {
	repo   domain.EmployeeRepository
	logger *zap.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(repo domain.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo, logger: util.GetLogger()}
}

// HireEmployeeRequest represents a request to hire an employee
type HireEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Salary     string `json:"salary" binding:"required"`
	Currency   string `json:"currency,omitempty"`
	HireDate   string `json:"hire_date,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	ManagerID  string `json:"manager_id,omitempty"`
}

// HireEmployee validates the request and persists the new employee.
func (s *EmployeeService) HireEmployee(ctx context.Context, req *HireEmployeeRequest) (*domain.Employee, error) {
	ctx, span := util.StartSpan(ctx, "EmployeeService.HireEmployee")
	defer span.End()

	role, err := domain.ParseEmployeeRole(req.Role)
	if err != nil {
		return nil, err
	}
	salary, err := parseDecimal(req.Salary, "salary")
	if err != nil {
		return nil, err
	}

	var hireDate time.Time
	if req.HireDate != "" {
		hireDate, err = time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, fmt.Errorf("invalid hire_date %q: %w", req.HireDate, err)
		}
	}

	if req.ManagerID != "" {
		manager, err := s.repo.GetByID(ctx, req.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager == nil {
			return nil, domain.NewNotFoundError("employee", req.ManagerID)
		}
	}

	employee, err := domain.NewEmployee(domain.EmployeeParams{
		ID:         newEmployeeID(),
		Name:       req.Name,
		Email:      req.Email,
		Role:       role,
		Salary:     domain.NewMoney(salary, req.Currency),
		HireDate:   hireDate,
		Phone:      req.Phone,
		Department: req.Department,
		ManagerID:  req.ManagerID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}

	util.EmployeesHiredTotal.Inc()
	s.logger.Info("employee hired",
		zap.String("employee_id", employee.ID()),
		zap.String("role", string(employee.Role())))
	return employee, nil
}

func newEmployeeID() string {
	return "EMP-" + strings.ToUpper(uuid.NewString()[:6])
}

// GetEmployee returns the employee or a NotFoundError.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.NewNotFoundError("employee", id)
	}
	return employee, nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.GetAll(ctx)
}

func (s *EmployeeService) GetByRole(ctx context.Context, role string) ([]*domain.Employee, error) {
	parsed, err := domain.ParseEmployeeRole(role)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByRole(ctx, parsed)
}

func (s *EmployeeService) GetByDepartment(ctx context.Context, department string) ([]*domain.Employee, error) {
	return s.repo.GetByDepartment(ctx, department)
}

func (s *EmployeeService) GetManagers(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.GetManagers(ctx)
}

// Promote changes the employee's role and persists it.
func (s *EmployeeService) Promote(ctx context.Context, id, role string) (*domain.Employee, error) {
	parsed, err := domain.ParseEmployeeRole(role)
	if err != nil {
		return nil, err
	}
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := employee.Promote(parsed); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	s.logger.Info("employee promoted",
		zap.String("employee_id", id), zap.String("role", string(parsed)))
	return employee, nil
}

// SetSalary updates the salary within the allowed bounds.
func (s *EmployeeService) SetSalary(ctx context.Context, id, salary string) (*domain.Employee, error) {
	amount, err := parseDecimal(salary, "salary")
	if err != nil {
		return nil, err
	}
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := employee.SetSalary(domain.NewMoney(amount, employee.Salary().Currency)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return employee, nil
}

// AssignTask adds a task to the employee's list.
func (s *EmployeeService) AssignTask(ctx context.Context, id, task string) (*domain.Employee, error) {
	if task == "" {
		return nil, fmt.Errorf("task cannot be empty")
	}
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	employee.AssignTask(task)
	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return employee, nil
}

// RemoveTask drops a task; a NotFoundError reports an unassigned task.
func (s *EmployeeService) RemoveTask(ctx context.Context, id, task string) (*domain.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if !employee.RemoveTask(task) {
		return nil, domain.NewNotFoundError("task", task)
	}
	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return employee, nil
}

// SetPerformanceRating records a rating in [0, 5].
func (s *EmployeeService) SetPerformanceRating(ctx context.Context, id string, rating decimal.Decimal) (*domain.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := employee.SetPerformanceRating(rating); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return employee, nil
}

// Bonus computes the performance-weighted bonus for a percentage in [0, 1].
func (s *EmployeeService) Bonus(ctx context.Context, id string, percentage decimal.Decimal) (domain.Money, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return domain.Money{}, err
	}
	return employee.Bonus(percentage)
}

// CanManage reports whether one employee may manage another.
func (s *EmployeeService) CanManage(ctx context.Context, managerID, reportID string) (bool, error) {
	manager, err := s.GetEmployee(ctx, managerID)
	if err != nil {
		return false, err
	}
	report, err := s.GetEmployee(ctx, reportID)
	if err != nil {
		return false, err
	}
	return manager.CanManage(report), nil
}

// TerminateEmployee removes the employee record.
func (s *EmployeeService) TerminateEmployee(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NewNotFoundError("employee", id)
	}
	s.logger.Info("employee terminated", zap.String("employee_id", id))
	return nil
}

// Payroll summarizes headcount and salary totals by department.
func (s *EmployeeService) Payroll(ctx context.Context) (map[string]interface{}, error) {
	employees, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	total := domain.ZeroMoney(domain.DefaultCurrency)
	byDepartment := make(map[string]int)
	byRole := make(map[string]int)
	for i, employee := range employees {
		if i == 0 {
			total = domain.ZeroMoney(employee.Salary().Currency)
		}
		sum, err := total.Add(employee.Salary())
		if err != nil {
			return nil, err
		}
		total = sum
		byDepartment[employee.Department()]++
		byRole[string(employee.Role())]++
	}

	return map[string]interface{}{
		"headcount":     len(employees),
		"total_salary":  total.String(),
		"by_department": byDepartment,
		"by_role":       byRole,
	}, nil
}
