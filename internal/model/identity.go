package model

import "github.com/google/uuid"

// Identity is the authenticated caller, passed explicitly into every service call.
// ClientID is set only for RoleClient.
type Identity struct {
	UserID   uuid.UUID
	Role     Role
	ClientID *uuid.UUID
}

func (i Identity) IsApprover() bool {
	return i.Role == RoleApprover
}

func (i Identity) IsClient() bool {
	return i.Role == RoleClient && i.ClientID != nil
}

// Owns reports whether the identity is the client with the given id.
func (i Identity) Owns(clientID uuid.UUID) bool {
	return i.IsClient() && *i.ClientID == clientID
}
