package leavetypeerrors

import (
	"net/http"

	"github.com/irisida/leave-management/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"a leave type with this name already exists",
		http.StatusConflict,
	)
	ErrTypeInUse = apperror.New(
		apperror.CodeConflict,
		"leave type has allocations and cannot be deleted",
		http.StatusConflict,
	)
)
