package models

import (
	"github.com/college-budget/backend/internal/config"
	"github.com/shopspring/decimal"
)

// OverspendDecision is the outcome of checking a requested amount
// against an allocation's remaining budget.
type OverspendDecision int

const (
	OverspendDecisionAllow OverspendDecision = iota
	OverspendDecisionWarn
	OverspendDecisionBlock
)

// CheckOverspend evaluates the overspend policy for a requested amount.
//
// It is called twice for every expenditure: once at submission as an
// informational gate for the submitter, and once at approval as the
// authoritative gate, since the remaining budget may have changed in
// between. The approval-time atomic increment re-enforces the result of
// the approval-time check against concurrent writers.
func CheckOverspend(allocation Allocation, requested decimal.Decimal, policy config.OverspendPolicy) OverspendDecision {
	if requested.LessThanOrEqual(allocation.Remaining()) {
		return OverspendDecisionAllow
	}

	switch policy {
	case config.OverspendWarn:
		return OverspendDecisionWarn
	case config.OverspendAllow:
		return OverspendDecisionAllow
	default:
		return OverspendDecisionBlock
	}
}
