package leavetype_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/irisida/leave-management/internal/leavetype"
	leavetypeerrors "github.com/irisida/leave-management/internal/leavetype/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveTypeRepository struct {
	withTxFn         func(tx *sql.Tx) leavetype.Repository
	createFn         func(ctx context.Context, lt *leavetype.LeaveType) error
	findAllFn        func(ctx context.Context) ([]leavetype.LeaveType, error)
	findByIDFn       func(ctx context.Context, id string) (*leavetype.LeaveType, error)
	updateFn         func(ctx context.Context, lt *leavetype.LeaveType) error
	deleteFn         func(ctx context.Context, id string) error
	hasAllocationsFn func(ctx context.Context, id string) (bool, error)
}

func (f *fakeLeaveTypeRepository) WithTx(tx *sql.Tx) leavetype.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) HasAllocations(ctx context.Context, id string) (bool, error) {
	if f.hasAllocationsFn != nil {
		return f.hasAllocationsFn(ctx, id)
	}
	return false, nil
}

type leaveTypeServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leavetype.Service
	repo    *fakeLeaveTypeRepository
}

func setupLeaveTypeServiceTest(t *testing.T) *leaveTypeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveTypeRepository{}
	svc := leavetype.NewService(db, repo)

	return &leaveTypeServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveTypeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success trims the name", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			assert.Equal(t, "Annual", lt.Name)
			assert.Equal(t, 25, lt.DefaultDays)
			return nil
		}

		resp, err := deps.service.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:        "  Annual  ",
			DefaultDays: 25,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Annual", resp.Name)
		assert.Equal(t, 25, resp.DefaultDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate name", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			return errors.New(`pq: duplicate key value violates unique constraint "idx_leave_types_name"`)
		}

		_, err := deps.service.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:        "Annual",
			DefaultDays: 25,
		})

		assert.ErrorIs(t, err, leavetypeerrors.ErrDuplicateName)
	})
}

func TestLeaveTypeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id, Name: "Annual", DefaultDays: 20}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			assert.Equal(t, "Annual Leave", lt.Name)
			assert.Equal(t, 25, lt.DefaultDays)
			return nil
		}

		resp, err := deps.service.Update(ctx, id.String(), leavetype.UpdateLeaveTypeRequest{
			Name:        "Annual Leave",
			DefaultDays: 25,
		})

		assert.NoError(t, err)
		assert.Equal(t, 25, resp.DefaultDays)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, uuid.New().String(), leavetype.UpdateLeaveTypeRequest{
			Name:        "Annual",
			DefaultDays: 25,
		})

		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Update(ctx, "nope", leavetype.UpdateLeaveTypeRequest{})

		assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidLeaveTypeID)
	})
}

func TestLeaveTypeService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id, Name: "Annual"}, nil
		}

		var deleted string
		deps.repo.deleteFn = func(ctx context.Context, gotID string) error {
			deleted = gotID
			return nil
		}

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative type holds allocations", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id, Name: "Annual"}, nil
		}
		deps.repo.hasAllocationsFn = func(ctx context.Context, gotID string) (bool, error) {
			return true, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, gotID string) error {
			t.Fatal("delete must not run for a type in use")
			return nil
		}

		err := deps.service.Delete(ctx, id.String())

		assert.ErrorIs(t, err, leavetypeerrors.ErrTypeInUse)
	})
}

func TestLeaveTypeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})
}
