package model

import (
	"fmt"
	"strings"
)

// Role is the acting identity's role.
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleApprover Role = "APPROVER"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleApprover
}

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractPending  ContractStatus = "PENDING"
	ContractApproved ContractStatus = "APPROVED"
	ContractRejected ContractStatus = "REJECTED"
	ContractSettled  ContractStatus = "SETTLED"
)

// InstallmentStatus is the lifecycle state of a single installment.
type InstallmentStatus string

const (
	InstallmentDue              InstallmentStatus = "DUE"
	InstallmentAwaitingApproval InstallmentStatus = "AWAITING_APPROVAL"
	InstallmentPaid             InstallmentStatus = "PAID"
	InstallmentAdvanced         InstallmentStatus = "ADVANCED"
)

// Settled reports whether the installment no longer needs payment.
func (s InstallmentStatus) Settled() bool {
	return s == InstallmentPaid || s == InstallmentAdvanced
}

// AdvanceRequestStatus is the lifecycle state of an advance request.
type AdvanceRequestStatus string

const (
	AdvancePending  AdvanceRequestStatus = "PENDING"
	AdvanceApproved AdvanceRequestStatus = "APPROVED"
	AdvanceRejected AdvanceRequestStatus = "REJECTED"
)

// legacy numeric codes still sent by older front-end builds
var advanceStatusCodes = map[string]AdvanceRequestStatus{
	"0": AdvancePending,
	"1": AdvanceApproved,
	"2": AdvanceRejected,
}

// ParseAdvanceRequestStatus converts an API value (name in any case, or legacy numeric code) to a status.
func ParseAdvanceRequestStatus(raw string) (AdvanceRequestStatus, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if s, ok := advanceStatusCodes[v]; ok {
		return s, nil
	}
	switch s := AdvanceRequestStatus(v); s {
	case AdvancePending, AdvanceApproved, AdvanceRejected:
		return s, nil
	}
	return "", fmt.Errorf("unknown advance request status %q", raw)
}

// ParseInstallmentStatus converts an API value to an installment status.
func ParseInstallmentStatus(raw string) (InstallmentStatus, error) {
	switch s := InstallmentStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case InstallmentDue, InstallmentAwaitingApproval, InstallmentPaid, InstallmentAdvanced:
		return s, nil
	}
	return "", fmt.Errorf("unknown installment status %q", raw)
}
