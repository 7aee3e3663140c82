package services

import (
	"github.com/ArowuTest/lotto-backend/internal/apperror"
	"github.com/shopspring/decimal"
)

// MaxAmount is the exclusive bound on any money value, matching the
// decimal(14,2) columns of the relational store
var MaxAmount = decimal.New(1, 12)

// validateAmount rejects values with more than two decimal places or an
// absolute value of MaxAmount or more
func validateAmount(name string, d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return apperror.Validation("%s must have at most 2 decimal places", name)
	}
	if d.Abs().GreaterThanOrEqual(MaxAmount) {
		return apperror.Validation("%s must be below %s", name, MaxAmount.String())
	}
	return nil
}
