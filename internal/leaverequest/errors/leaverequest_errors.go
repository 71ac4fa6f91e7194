package leaverequesterrors

import (
	"net/http"

	"github.com/irisida/leave-management/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
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
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"the end date cannot be before the start date",
		http.StatusBadRequest,
	)
	ErrInsufficientAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"insufficient allocation exists to process the request",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyActioned = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been approved or rejected",
		http.StatusBadRequest,
	)
	ErrTerminalState = apperror.New(
		apperror.CodeInvalidState,
		"leave request is in a terminal state and cannot be changed",
		http.StatusBadRequest,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee or an administrator can cancel this request",
		http.StatusForbidden,
	)
)
