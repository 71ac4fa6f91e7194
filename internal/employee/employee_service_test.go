package employee_test

import (
	"context"
	"errors"
	"testing"

	"github.com/irisida/leave-management/internal/employee"
	employeeerrors "github.com/irisida/leave-management/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn     func(ctx context.Context, emp *employee.Employee) error
	findAllFn    func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn   func(ctx context.Context, id string) (*employee.Employee, error)
	findByRoleFn func(ctx context.Context, role string) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, emp)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByRole(ctx context.Context, role string) ([]employee.Employee, error) {
	if f.findByRoleFn != nil {
		return f.findByRoleFn(ctx, role)
	}
	return nil, nil
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, gotID string) (*employee.Employee, error) {
				assert.Equal(t, id.String(), gotID)
				return &employee.Employee{
					ID:       id,
					FullName: "Jordan Doe",
					Email:    "jordan@example.com",
					Role:     employee.RoleEmployee,
					IsActive: true,
				}, nil
			},
		}

		svc := employee.NewService(repo)
		resp, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Jordan Doe", resp.FullName)
		assert.True(t, resp.IsActive)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		svc := employee.NewService(&fakeEmployeeRepository{})
		_, err := svc.GetByID(ctx, "nope")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := employee.NewService(&fakeEmployeeRepository{})
		_, err := svc.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_GetByRole(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findByRoleFn: func(ctx context.Context, role string) ([]employee.Employee, error) {
				assert.Equal(t, employee.RoleEmployee, role)
				return []employee.Employee{
					{ID: uuid.New(), FullName: "A", Role: employee.RoleEmployee},
					{ID: uuid.New(), FullName: "B", Role: employee.RoleEmployee},
				}, nil
			},
		}

		svc := employee.NewService(repo)
		resp, err := svc.GetByRole(ctx, employee.RoleEmployee)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("negative unknown role", func(t *testing.T) {
		svc := employee.NewService(&fakeEmployeeRepository{})
		_, err := svc.GetByRole(ctx, "SUPERVISOR")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidRole)
	})
}

func TestEmployeeService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("negative repo error", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findAllFn: func(ctx context.Context) ([]employee.Employee, error) {
				return nil, errors.New("db error")
			},
		}

		svc := employee.NewService(repo)
		_, err := svc.GetAll(ctx)

		assert.Error(t, err)
	})
}
