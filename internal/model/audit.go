package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateAdvanceRequest  = "CREATE_ADVANCE_REQUEST"
	ActionApproveAdvanceRequest = "APPROVE_ADVANCE_REQUEST"
	ActionRejectAdvanceRequest  = "REJECT_ADVANCE_REQUEST"
	ActionSettleContract        = "SETTLE_CONTRACT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
