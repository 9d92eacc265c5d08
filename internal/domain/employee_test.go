package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmployee(t *testing.T, role EmployeeRole) *Employee {
	t.Helper()
	e, err := NewEmployee(EmployeeParams{
		ID:     "emp-" + string(role),
		Name:   "Bob Jones",
		Email:  "bob@example.com",
		Role:   role,
		Salary: usd("50000"),
	})
	require.NoError(t, err)
	return e
}

func TestNewEmployeeValidation(t *testing.T) {
	base := EmployeeParams{
		ID: "emp-1", Name: "Bob Jones", Email: "bob@example.com",
		Role: RoleManager, Salary: usd("50000"),
	}

	tests := []struct {
		name   string
		mutate func(*EmployeeParams)
	}{
		{"short name", func(p *EmployeeParams) { p.Name = "B" }},
		{"bad email", func(p *EmployeeParams) { p.Email = "bob.example.com" }},
		{"salary too low", func(p *EmployeeParams) { p.Salary = usd("9999") }},
		{"salary too high", func(p *EmployeeParams) { p.Salary = usd("1000001") }},
		{"bad role", func(p *EmployeeParams) { p.Role = "Janitor" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)
			_, err := NewEmployee(params)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestEmployeeBonusScenario(t *testing.T) {
	e := testEmployee(t, RoleManager)
	require.NoError(t, e.SetPerformanceRating(decimal.RequireFromString("4.5")))

	bonus, err := e.Bonus(decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	assert.True(t, bonus.Equal(usd("7250")), "50000*0.1*(1+4.5/10), got %s", bonus)
}

func TestEmployeeBonusBounds(t *testing.T) {
	e := testEmployee(t, RoleManager)
	_, err := e.Bonus(decimal.RequireFromString("1.5"))
	assert.Error(t, err)
	_, err = e.Bonus(decimal.RequireFromString("-0.1"))
	assert.Error(t, err)
}

func TestEmployeeRatingBounds(t *testing.T) {
	e := testEmployee(t, RoleManager)
	assert.Error(t, e.SetPerformanceRating(decimal.RequireFromString("5.1")))
	assert.Error(t, e.SetPerformanceRating(decimal.RequireFromString("-1")))
	assert.NoError(t, e.SetPerformanceRating(decimal.NewFromInt(5)))
}

func TestEmployeeYearsOfService(t *testing.T) {
	now := time.Now()

	e, err := NewEmployee(EmployeeParams{
		ID: "emp-1", Name: "Bob Jones", Email: "bob@example.com",
		Role: RoleManager, Salary: usd("50000"),
		HireDate: now.AddDate(-3, 0, -1), // anniversary already passed
	})
	require.NoError(t, err)
	assert.Equal(t, 3, e.YearsOfService())

	e2, err := NewEmployee(EmployeeParams{
		ID: "emp-2", Name: "Dana Reed", Email: "dana@example.com",
		Role: RoleManager, Salary: usd("50000"),
		HireDate: now.AddDate(-3, 0, 7), // anniversary still ahead this year
	})
	require.NoError(t, err)
	assert.Equal(t, 2, e2.YearsOfService())
}

func TestEmployeeTaskDeduplication(t *testing.T) {
	e := testEmployee(t, RoleWarehouseWorker)

	e.AssignTask("count shelves")
	e.AssignTask("count shelves")
	e.AssignTask("load truck")
	assert.Equal(t, []string{"count shelves", "load truck"}, e.Tasks())

	assert.True(t, e.RemoveTask("count shelves"))
	assert.False(t, e.RemoveTask("count shelves"))
	assert.Equal(t, []string{"load truck"}, e.Tasks())
}

func TestEmployeePermissions(t *testing.T) {
	manager := testEmployee(t, RoleManager)
	worker := testEmployee(t, RoleWarehouseWorker)

	assert.True(t, manager.HasPermission("approve_orders"))
	assert.False(t, worker.HasPermission("approve_orders"))
	assert.True(t, worker.HasPermission("manage_inventory"))
}

func TestEmployeeCanManage(t *testing.T) {
	manager := testEmployee(t, RoleManager)
	admin := testEmployee(t, RoleAdmin)
	supervisor := testEmployee(t, RoleSupervisor)
	accountant := testEmployee(t, RoleAccountant)
	worker := testEmployee(t, RoleWarehouseWorker)
	sales := testEmployee(t, RoleSalesRep)

	// Manager/Admin manage anyone except the accountant.
	assert.True(t, manager.CanManage(worker))
	assert.True(t, manager.CanManage(supervisor))
	assert.True(t, admin.CanManage(manager))
	assert.False(t, manager.CanManage(accountant))
	assert.False(t, admin.CanManage(accountant))

	// Supervisor manages everyone below manager level except the accountant.
	assert.True(t, supervisor.CanManage(worker))
	assert.True(t, supervisor.CanManage(sales))
	assert.False(t, supervisor.CanManage(manager))
	assert.False(t, supervisor.CanManage(admin))
	assert.False(t, supervisor.CanManage(accountant))

	// Everyone else manages no one.
	assert.False(t, worker.CanManage(sales))
	assert.False(t, accountant.CanManage(worker))
	assert.False(t, manager.CanManage(nil))
}

func TestEmployeeSalaryMutation(t *testing.T) {
	e := testEmployee(t, RoleManager)
	assert.Error(t, e.SetSalary(usd("5000")))
	assert.True(t, e.Salary().Equal(usd("50000")), "failed mutation leaves salary unchanged")
	require.NoError(t, e.SetSalary(usd("60000")))
	assert.True(t, e.Salary().Equal(usd("60000")))
}

func TestRehydrateEmployee(t *testing.T) {
	createdAt := time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC)
	e, err := RehydrateEmployee(EmployeeParams{
		ID: "emp-1", Name: "Bob Jones", Email: "bob@example.com",
		Role: RoleSupervisor, Salary: usd("55000"),
		HireDate: createdAt,
	}, []string{"a", "b"}, decimal.RequireFromString("3.5"), createdAt, createdAt)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, e.Tasks())
	assert.True(t, e.PerformanceRating().Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, createdAt, e.CreatedAt())
}
