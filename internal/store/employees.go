package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"warehouse-service/internal/domain"

	"github.com/shopspring/decimal"
)

// EmployeeRepo persists employees in SQLite. Tasks travel as a JSON array.
type EmployeeRepo struct {
	store *Store
}

func NewEmployeeRepo(store *Store) *EmployeeRepo {
	return &EmployeeRepo{store: store}
}

type employeeRow struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	Email             string `db:"email"`
	Role              string `db:"role"`
	Salary            string `db:"salary"`
	Currency          string `db:"currency"`
	HireDate          string `db:"hire_date"`
	Phone             string `db:"phone"`
	Department        string `db:"department"`
	ManagerID         string `db:"manager_id"`
	Tasks             string `db:"tasks"`
	PerformanceRating string `db:"performance_rating"`
	CreatedAt         string `db:"created_at"`
	UpdatedAt         string `db:"updated_at"`
}

func employeeToRow(e *domain.Employee) (employeeRow, error) {
	tasks, err := json.Marshal(e.Tasks())
	if err != nil {
		return employeeRow{}, err
	}
	return employeeRow{
		ID:                e.ID(),
		Name:              e.Name(),
		Email:             e.Email(),
		Role:              string(e.Role()),
		Salary:            e.Salary().Amount.String(),
		Currency:          e.Salary().Currency,
		HireDate:          e.HireDate().Format(time.RFC3339Nano),
		Phone:             e.Phone(),
		Department:        e.Department(),
		ManagerID:         e.ManagerID(),
		Tasks:             string(tasks),
		PerformanceRating: e.PerformanceRating().String(),
		CreatedAt:         e.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:         e.UpdatedAt().Format(time.RFC3339Nano),
	}, nil
}

func rowToEmployee(row employeeRow) (*domain.Employee, error) {
	salary, err := decimal.NewFromString(row.Salary)
	if err != nil {
		return nil, fmt.Errorf("employee %s: bad salary: %w", row.ID, err)
	}
	rating, err := decimal.NewFromString(row.PerformanceRating)
	if err != nil {
		return nil, fmt.Errorf("employee %s: bad performance rating: %w", row.ID, err)
	}
	hireDate, err := time.Parse(time.RFC3339Nano, row.HireDate)
	if err != nil {
		return nil, fmt.Errorf("employee %s: bad hire date: %w", row.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("employee %s: bad created_at: %w", row.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("employee %s: bad updated_at: %w", row.ID, err)
	}

	var tasks []string
	if err := json.Unmarshal([]byte(row.Tasks), &tasks); err != nil {
		return nil, fmt.Errorf("employee %s: bad tasks: %w", row.ID, err)
	}

	return domain.RehydrateEmployee(domain.EmployeeParams{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Role:       domain.EmployeeRole(row.Role),
		Salary:     domain.NewMoney(salary, row.Currency),
		HireDate:   hireDate,
		Phone:      row.Phone,
		Department: row.Department,
		ManagerID:  row.ManagerID,
	}, tasks, rating, createdAt, updatedAt)
}

// Save inserts or replaces the employee row.
func (r *EmployeeRepo) Save(ctx context.Context, employee *domain.Employee) error {
	row, err := employeeToRow(employee)
	if err != nil {
		return err
	}
	_, err = r.store.db.NamedExecContext(ctx, `
		INSERT INTO employees (id, name, email, role, salary, currency, hire_date,
			phone, department, manager_id, tasks, performance_rating, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :salary, :currency, :hire_date,
			:phone, :department, :manager_id, :tasks, :performance_rating, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			salary = excluded.salary,
			currency = excluded.currency,
			hire_date = excluded.hire_date,
			phone = excluded.phone,
			department = excluded.department,
			manager_id = excluded.manager_id,
			tasks = excluded.tasks,
			performance_rating = excluded.performance_rating,
			updated_at = excluded.updated_at`, row)
	return err
}

// GetByID returns the employee, or nil when absent.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	var row employeeRow
	err := r.store.db.GetContext(ctx, &row, "SELECT * FROM employees WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToEmployee(row)
}

func (r *EmployeeRepo) GetAll(ctx context.Context) ([]*domain.Employee, error) {
	return r.selectEmployees(ctx, "SELECT * FROM employees ORDER BY name")
}

// Delete removes the employee; false when they were not stored.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.store.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *EmployeeRepo) GetByRole(ctx context.Context, role domain.EmployeeRole) ([]*domain.Employee, error) {
	return r.selectEmployees(ctx,
		"SELECT * FROM employees WHERE role = ? ORDER BY name", string(role))
}

func (r *EmployeeRepo) GetByDepartment(ctx context.Context, department string) ([]*domain.Employee, error) {
	return r.selectEmployees(ctx,
		"SELECT * FROM employees WHERE department = ? ORDER BY name", department)
}

// GetManagers returns employees in roles that can manage others.
func (r *EmployeeRepo) GetManagers(ctx context.Context) ([]*domain.Employee, error) {
	return r.selectEmployees(ctx,
		"SELECT * FROM employees WHERE role IN (?, ?, ?) ORDER BY name",
		string(domain.RoleManager), string(domain.RoleSupervisor), string(domain.RoleAdmin))
}

func (r *EmployeeRepo) selectEmployees(ctx context.Context, query string, args ...interface{}) ([]*domain.Employee, error) {
	var rows []employeeRow
	if err := r.store.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	employees := make([]*domain.Employee, 0, len(rows))
	for _, row := range rows {
		e, err := rowToEmployee(row)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, nil
}
