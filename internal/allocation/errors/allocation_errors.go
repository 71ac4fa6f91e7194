package allocationerrors

import (
	"net/http"

	"github.com/irisida/leave-management/internal/shared/apperror"
)

var (
	ErrAllocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"no allocation exists for this employee and leave type in the current period",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
)
