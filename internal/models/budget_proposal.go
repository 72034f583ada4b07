package models

import (
	"errors"
	"strings"

	"github.com/college-budget/backend/internal/auth"
	"github.com/college-budget/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
)

// BudgetProposal is a department's request for next year's budget. On
// approval its items are promoted into allocation ledger lines.
type BudgetProposal struct {
	DefaultModel
	FinancialYear types.FinancialYear `json:"financialYear" example:"2026-2027"`
	Department    Department          `json:"-"`
	DepartmentID  uuid.UUID           `json:"departmentId"`
	Title         string              `json:"title" example:"CSE annual budget 2026-2027"`
	Justification string              `json:"justification"`
	Status        ProposalStatus      `json:"status" example:"pending"`
	SubmittedByID uuid.UUID           `json:"submittedById"`
	SubmittedBy   string              `json:"submittedBy"`
	DecidedByID   *uuid.UUID          `json:"decidedById"`
	DecidedBy     string              `json:"decidedBy,omitempty"`
	DecisionNote  string              `json:"decisionNote,omitempty"`
	Items         []ProposalItem      `gorm:"foreignKey:ProposalID" json:"items,omitempty"`
}

func (p *BudgetProposal) BeforeSave(_ *gorm.DB) error {
	if p.Status == "" {
		p.Status = ProposalPending
	}

	p.Title = strings.TrimSpace(p.Title)
	p.Justification = strings.TrimSpace(p.Justification)

	return nil
}

// ProposalItem is one requested amount under a budget head.
type ProposalItem struct {
	DefaultModel
	ProposalID   uuid.UUID       `gorm:"uniqueIndex:proposal_item_head" json:"proposalId"`
	BudgetHead   BudgetHead      `json:"-"`
	BudgetHeadID uuid.UUID       `gorm:"uniqueIndex:proposal_item_head" json:"budgetHeadId"`
	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8)" json:"amount" example:"250000"`
	Remarks      string          `json:"remarks"`
}

func (i *ProposalItem) BeforeSave(_ *gorm.DB) error {
	if i.Amount.IsNegative() {
		return ErrAllocationAmountNegative
	}

	return nil
}

// BudgetProposalEditable represents all user configurable parameters of
// a new proposal.
type BudgetProposalEditable struct {
	FinancialYear types.FinancialYear    `json:"financialYear" example:"2026-2027"`
	DepartmentID  uuid.UUID              `json:"departmentId"`
	Title         string                 `json:"title" example:"CSE annual budget 2026-2027"`
	Justification string                 `json:"justification"`
	Items         []ProposalItemEditable `json:"items"`
}

type ProposalItemEditable struct {
	BudgetHeadID uuid.UUID       `json:"budgetHeadId"`
	Amount       decimal.Decimal `json:"amount" example:"250000"`
	Remarks      string          `json:"remarks"`
}

// CreateProposal submits a budget proposal with its items.
func CreateProposal(editable BudgetProposalEditable, actor auth.Actor) (BudgetProposal, error) {
	if !actor.CanSubmitExpenditure(editable.DepartmentID) {
		return BudgetProposal{}, ErrPermissionDenied
	}

	proposal := BudgetProposal{
		FinancialYear: editable.FinancialYear,
		DepartmentID:  editable.DepartmentID,
		Title:         editable.Title,
		Justification: editable.Justification,
		Status:        ProposalPending,
		SubmittedByID: actor.UserID,
		SubmittedBy:   actor.Name,
	}

	for _, item := range editable.Items {
		proposal.Items = append(proposal.Items, ProposalItem{
			BudgetHeadID: item.BudgetHeadID,
			Amount:       item.Amount,
			Remarks:      item.Remarks,
		})
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&Department{}, editable.DepartmentID).Error; err != nil {
			return err
		}

		return tx.Create(&proposal).Error
	})
	if err != nil {
		return BudgetProposal{}, err
	}

	return proposal, nil
}

// PromotionResult reports what promoting an approved proposal did.
// Promotion is idempotent: items whose ledger line already exists are
// skipped, never overwritten. A failing item is reported and does not
// undo lines already promoted.
type PromotionResult struct {
	Created []Allocation       `json:"created"`
	Skipped []uuid.UUID        `json:"skipped"`
	Failed  []PromotionFailure `json:"failed,omitempty"`
}

// PromotionFailure names a line item that could not be promoted.
type PromotionFailure struct {
	BudgetHeadID uuid.UUID `json:"budgetHeadId"`
	Error        string    `json:"error"`
}

// ApproveProposal approves a pending proposal and promotes its items
// into the allocation ledger. Existing ledger lines for the same year,
// department and budget head are left untouched.
func ApproveProposal(id uuid.UUID, note string, actor auth.Actor) (BudgetProposal, PromotionResult, error) {
	if !actor.CanApproveProposal() {
		return BudgetProposal{}, PromotionResult{}, ErrPermissionDenied
	}

	var proposal BudgetProposal
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&proposal, "id = ?", id).Error; err != nil {
			return err
		}

		if err := checkFinancialYearOpen(tx, proposal.FinancialYear); err != nil {
			return err
		}

		decidedBy := actor.UserID
		proposal.Status = ProposalApproved
		proposal.DecidedByID = &decidedBy
		proposal.DecidedBy = actor.Name
		proposal.DecisionNote = strings.TrimSpace(note)

		// The approval is conditional on the proposal still being
		// pending, concurrent deciders leave exactly one winner
		res := tx.Model(&proposal).
			Where("status = ?", ProposalPending).
			Select("Status", "DecidedByID", "DecidedBy", "DecisionNote").
			Updates(&proposal)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrIllegalStateTransition
		}

		return nil
	})
	if err != nil {
		return BudgetProposal{}, PromotionResult{}, err
	}

	// Each item is promoted in its own transaction: one failing line
	// must not undo lines already promoted, nor the approval itself.
	var result PromotionResult
	for _, item := range proposal.Items {
		allocation, skipped, err := promoteProposalItem(proposal, item, actor)
		switch {
		case err != nil:
			result.Failed = append(result.Failed, PromotionFailure{BudgetHeadID: item.BudgetHeadID, Error: err.Error()})
		case skipped:
			result.Skipped = append(result.Skipped, item.BudgetHeadID)
		default:
			result.Created = append(result.Created, allocation)
		}
	}

	return proposal, result, nil
}

func promoteProposalItem(proposal BudgetProposal, item ProposalItem, actor auth.Actor) (Allocation, bool, error) {
	var allocation Allocation
	var skipped bool

	err := DB.Transaction(func(tx *gorm.DB) error {
		var existing Allocation
		err := tx.Where(&Allocation{
			FinancialYear: proposal.FinancialYear,
			DepartmentID:  proposal.DepartmentID,
			BudgetHeadID:  item.BudgetHeadID,
		}).First(&existing).Error
		if err == nil {
			skipped = true
			return nil
		}
		if !errors.Is(err, ErrResourceNotFound) {
			return err
		}

		sourceID := proposal.ID
		allocation = Allocation{
			FinancialYear:    proposal.FinancialYear,
			DepartmentID:     proposal.DepartmentID,
			BudgetHeadID:     item.BudgetHeadID,
			AllocatedAmount:  item.Amount,
			SpentAmount:      decimal.Zero,
			SourceProposalID: &sourceID,
			Remarks:          item.Remarks,
		}

		if err := tx.Create(&allocation).Error; err != nil {
			return err
		}

		return recordVersion(tx, allocation, ChangeCreated, versionSnapshot{}, snapshotOf(allocation), "promoted from proposal "+proposal.Title, actor)
	})

	return allocation, skipped, err
}

// RejectProposal turns a pending proposal down. Remarks are mandatory.
func RejectProposal(id uuid.UUID, note string, actor auth.Actor) (BudgetProposal, error) {
	if !actor.CanApproveProposal() {
		return BudgetProposal{}, ErrPermissionDenied
	}

	if strings.TrimSpace(note) == "" {
		return BudgetProposal{}, ErrRemarksRequired
	}

	var proposal BudgetProposal
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&proposal, "id = ?", id).Error; err != nil {
			return err
		}

		if proposal.Status != ProposalPending {
			return ErrIllegalStateTransition
		}

		decidedBy := actor.UserID
		proposal.Status = ProposalRejected
		proposal.DecidedByID = &decidedBy
		proposal.DecidedBy = actor.Name
		proposal.DecisionNote = strings.TrimSpace(note)

		return tx.Save(&proposal).Error
	})
	if err != nil {
		return BudgetProposal{}, err
	}

	return proposal, nil
}
