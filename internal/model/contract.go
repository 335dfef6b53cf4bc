package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract is a loan agreement split into numbered installments.
type Contract struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code             string         `gorm:"type:varchar(60);uniqueIndex;not null" json:"code"`
	ClientID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Client           *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Status           ContractStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	InstallmentCount int            `gorm:"not null" json:"installment_count"`
	LatestDueDate    time.Time      `json:"latest_due_date"`
	Installments     []Installment  `gorm:"foreignKey:ContractID" json:"installments,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Installment is one scheduled payment of a contract. Number is unique within the contract.
type Installment struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContractID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:ux_installment_contract_number" json:"contract_id"`
	Number     int               `gorm:"not null;uniqueIndex:ux_installment_contract_number" json:"number"`
	Amount     decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"amount"`
	DueDate    time.Time         `gorm:"not null;index" json:"due_date"`
	Status     InstallmentStatus `gorm:"type:varchar(30);not null;default:'DUE';index" json:"status"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
