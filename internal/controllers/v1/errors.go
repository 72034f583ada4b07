package v1

import (
	"errors"
	"net/http"

	"github.com/college-budget/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate HTTP status for a ledger error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrPermissionDenied) {
		return http.StatusForbidden
	}

	switch {
	case errors.Is(err, models.ErrDuplicateAllocation),
		errors.Is(err, models.ErrDuplicateBillNumber),
		errors.Is(err, models.ErrIllegalStateTransition),
		errors.Is(err, models.ErrConcurrentBudgetExceeded),
		errors.Is(err, models.ErrAllocationReferenced),
		errors.Is(err, models.ErrBudgetExceeded),
		errors.Is(err, models.ErrThresholdExceeded),
		errors.Is(err, models.ErrFinancialYearClosed),
		errors.Is(err, models.ErrNotResubmittable):
		return http.StatusConflict
	}

	// Validation errors, unparseable bodies and everything else the
	// client can fix
	return http.StatusBadRequest
}
