package model

import (
	"time"

	"github.com/google/uuid"
)

// User holds login credentials. Client users link to their Client record; approvers have none.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	Role      Role       `gorm:"type:varchar(20);not null" json:"role"`
	ClientID  *uuid.UUID `gorm:"type:uuid;index" json:"client_id,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Client is the borrower owning contracts
type Client struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(200);not null" json:"name"`
	Email     string     `gorm:"type:varchar(200);uniqueIndex;not null" json:"email"`
	Contracts []Contract `gorm:"foreignKey:ClientID" json:"contracts,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
