package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/goal"
	"github.com/remitwise-ledger/internal/domain/policy"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/domain/split"
)

// respondDomainError translates ledger errors into the HTTP taxonomy:
// validation failures map to 400, ownership failures to 403, unknown
// identifiers to 404, lifecycle misuse (settling a paid bill, paying an
// inactive policy, re-initializing the split) to 409. Anything else is a
// 500 and gets logged.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	var billNotFound bill.ErrBillNotFound
	var goalNotFound goal.ErrGoalNotFound
	var policyNotFound policy.ErrPolicyNotFound

	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		RespondForbidden(c, err.Error())

	case errors.As(err, &billNotFound),
		errors.As(err, &goalNotFound),
		errors.As(err, &policyNotFound):
		RespondNotFound(c, err.Error())

	case errors.Is(err, split.ErrNotInitialized):
		RespondNotFound(c, err.Error())

	case errors.Is(err, bill.ErrAlreadyPaid),
		errors.Is(err, policy.ErrPolicyInactive),
		errors.Is(err, split.ErrAlreadyInitialized):
		RespondConflict(c, err.Error())

	case errors.Is(err, bill.ErrInvalidAmount),
		errors.Is(err, bill.ErrInvalidFrequency),
		errors.Is(err, bill.ErrEmptyName),
		errors.Is(err, bill.ErrBatchTooLarge),
		errors.Is(err, split.ErrInvalidAmount),
		errors.Is(err, split.ErrAmountTooLarge),
		errors.Is(err, split.ErrInvalidPercentages),
		errors.Is(err, goal.ErrInvalidAmount),
		errors.Is(err, goal.ErrEmptyName),
		errors.Is(err, policy.ErrInvalidAmount),
		errors.Is(err, policy.ErrEmptyName):
		RespondBadRequest(c, err.Error())

	default:
		logger.Error("Unhandled service error", "error", err)
		RespondInternalError(c)
	}
}
