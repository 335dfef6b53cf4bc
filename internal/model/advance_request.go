package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdvanceRequest is a client's request to settle early one or more installments of a contract.
// Apart from the decision fields it is an immutable audit record.
type AdvanceRequest struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"client_id"`
	Client          *Client              `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ContractID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"contract_id"`
	Contract        *Contract            `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Status          AdvanceRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Note            string               `gorm:"type:text" json:"note"`
	ApprovedAt      *time.Time           `json:"approved_at"`
	DecidedAt       *time.Time           `json:"decided_at"`
	DecidedBy       *uuid.UUID           `gorm:"type:uuid" json:"decided_by"`
	RejectionReason string               `gorm:"type:text" json:"rejection_reason"`
	Items           []AdvanceRequestItem `gorm:"foreignKey:AdvanceRequestID" json:"items"`
	CreatedAt       time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// AdvanceRequestItem pins one installment to a request together with its amount at request time.
type AdvanceRequestItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdvanceRequestID uuid.UUID       `gorm:"type:uuid;not null;index" json:"advance_request_id"`
	InstallmentID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"installment_id"`
	Installment      *Installment    `gorm:"foreignKey:InstallmentID" json:"installment,omitempty"`
	AmountSnapshot   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount_snapshot"`
}

// InstallmentIDs returns the ids of the installments the request covers.
func (r *AdvanceRequest) InstallmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.InstallmentID)
	}
	return ids
}

// Total sums the item snapshots.
func (r *AdvanceRequest) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.AmountSnapshot)
	}
	return total
}
