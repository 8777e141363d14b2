package ledger

import (
	"github.com/shopspring/decimal"

	apperrors "presupuesto/internal/errors"
)

// CheckLimit approves or rejects a proposed expense amount against a
// category limit. It rejects when currentSpent + proposed > limit; landing
// exactly on the limit passes. Comparisons are exact decimal arithmetic.
//
// The sign of the proposal is not this check's concern: input validation
// rejects non-positive amounts before the limit check runs. A limit of
// zero permits no expenses.
//
// currentSpent must come from a snapshot of the category's expenses read
// in the same transaction that will commit the write; the caller is
// responsible for serializing writers on the category so two concurrent
// proposals cannot both validate against the same stale total.
func CheckLimit(limit, currentSpent, proposed decimal.Decimal) error {
	if currentSpent.Add(proposed).GreaterThan(limit) {
		return apperrors.LimitExceeded(limit, currentSpent, proposed)
	}
	return nil
}
