// Package rules holds the eligibility and lifecycle rules of advance requests.
// Every function is pure: callers load state, apply a rule and persist the result.
package rules

import (
	"time"

	"antecipa/internal/model"
	"antecipa/pkg/apperror"

	"github.com/google/uuid"
)

// AdvanceWindow is how far in the future an installment must fall due to be advanced.
const AdvanceWindow = 30 * 24 * time.Hour

// Decision is the approver's verdict on a pending request.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// Transition is a guarded installment status change.
type Transition struct {
	From model.InstallmentStatus
	To   model.InstallmentStatus
}

// IsInstallmentEligible reports whether the installment may be selected for an advance.
// The window is strict: exactly 30 days before due date is not eligible.
func IsInstallmentEligible(inst model.Installment, now time.Time) bool {
	return inst.Status == model.InstallmentDue && inst.DueDate.Sub(now) > AdvanceWindow
}

// HasOutstandingRequest reports whether any installment is waiting on an approver.
func HasOutstandingRequest(installments []model.Installment) bool {
	for _, inst := range installments {
		if inst.Status == model.InstallmentAwaitingApproval {
			return true
		}
	}
	return false
}

// EligibleInstallments returns the eligible installments, preserving input order.
func EligibleInstallments(installments []model.Installment, now time.Time) []model.Installment {
	var eligible []model.Installment
	for _, inst := range installments {
		if IsInstallmentEligible(inst, now) {
			eligible = append(eligible, inst)
		}
	}
	return eligible
}

// SelectInstallments narrows a client's selection to the eligible installments of the contract.
// Unknown, duplicate and ineligible ids are dropped. An empty selection picks every eligible
// installment when autoSelect is set and is rejected otherwise.
func SelectInstallments(installments []model.Installment, selected []uuid.UUID, now time.Time, autoSelect bool) ([]model.Installment, error) {
	if len(selected) == 0 {
		if !autoSelect {
			return nil, apperror.Validation("at least one installment must be selected")
		}
		eligible := EligibleInstallments(installments, now)
		if len(eligible) == 0 {
			return nil, apperror.Validation("no eligible installment selected")
		}
		return eligible, nil
	}

	wanted := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		wanted[id] = struct{}{}
	}

	var picked []model.Installment
	for _, inst := range installments {
		if _, ok := wanted[inst.ID]; !ok {
			continue
		}
		if IsInstallmentEligible(inst, now) {
			picked = append(picked, inst)
		}
	}
	if len(picked) == 0 {
		return nil, apperror.Validation("no eligible installment selected")
	}
	return picked, nil
}

// NewAdvanceRequest builds a PENDING request with one item per installment,
// snapshotting each installment's current amount.
func NewAdvanceRequest(clientID, contractID uuid.UUID, selected []model.Installment, note string, now time.Time) model.AdvanceRequest {
	items := make([]model.AdvanceRequestItem, 0, len(selected))
	for _, inst := range selected {
		items = append(items, model.AdvanceRequestItem{
			InstallmentID:  inst.ID,
			AmountSnapshot: inst.Amount,
		})
	}
	return model.AdvanceRequest{
		ClientID:   clientID,
		ContractID: contractID,
		Status:     model.AdvancePending,
		Note:       note,
		Items:      items,
		CreatedAt:  now,
	}
}

// RequestTransition is the installment change that accompanies a new request.
func RequestTransition() Transition {
	return Transition{From: model.InstallmentDue, To: model.InstallmentAwaitingApproval}
}

// DecisionTransition is the installment change applied when a request is decided.
func DecisionTransition(d Decision) Transition {
	if d == DecisionApprove {
		return Transition{From: model.InstallmentAwaitingApproval, To: model.InstallmentAdvanced}
	}
	return Transition{From: model.InstallmentAwaitingApproval, To: model.InstallmentDue}
}

// Decide moves a PENDING request to APPROVED or REJECTED and returns the installment transition
// its items must undergo. Deciding an already decided request is a conflict and changes nothing.
func Decide(req *model.AdvanceRequest, d Decision, deciderID uuid.UUID, reason string, now time.Time) (Transition, error) {
	if req.Status != model.AdvancePending {
		return Transition{}, apperror.Conflict("advance request %s is already %s", req.ID, req.Status)
	}

	if d != DecisionApprove && d != DecisionReject {
		return Transition{}, apperror.Validation("unknown decision %q", d)
	}

	decidedAt := now
	req.DecidedAt = &decidedAt
	req.DecidedBy = &deciderID
	if d == DecisionApprove {
		req.Status = model.AdvanceApproved
		req.ApprovedAt = &decidedAt
	} else {
		req.Status = model.AdvanceRejected
		req.RejectionReason = reason
	}
	return DecisionTransition(d), nil
}

// ApplyTransition sets the target status on the installments listed in ids that currently sit in
// the transition's source status and returns how many changed.
func ApplyTransition(installments []model.Installment, ids []uuid.UUID, t Transition) int {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	changed := 0
	for i := range installments {
		if _, ok := set[installments[i].ID]; !ok {
			continue
		}
		if installments[i].Status == t.From {
			installments[i].Status = t.To
			changed++
		}
	}
	return changed
}

// DeriveContractStatus recomputes the contract status from its installments.
// A contract settles once every installment is paid or advanced. Otherwise the prior status is
// kept, except that a SETTLED contract with open installments falls back to PENDING.
// A contract without installments never settles.
func DeriveContractStatus(current model.ContractStatus, installments []model.Installment) model.ContractStatus {
	if len(installments) > 0 {
		settled := true
		for _, inst := range installments {
			if !inst.Status.Settled() {
				settled = false
				break
			}
		}
		if settled {
			return model.ContractSettled
		}
	}
	if current == model.ContractSettled || current == "" {
		return model.ContractPending
	}
	return current
}
