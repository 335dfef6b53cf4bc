package service

import (
	"context"
	"fmt"
	"time"

	"antecipa/internal/model"
	"antecipa/internal/repository"
	"antecipa/pkg/apperror"
	"antecipa/pkg/pagination"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserEmail  string `json:"user_email"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	ListAuditLogs(ctx context.Context, identity model.Identity, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// ListAuditLogs returns the newest entries first. Approvers only.
func (s *auditService) ListAuditLogs(ctx context.Context, identity model.Identity, page, limit int) ([]AuditLogResponse, int64, error) {
	if !identity.IsApprover() {
		return nil, 0, apperror.Forbidden("only approvers can read the audit trail")
	}
	p, err := pagination.New(page, limit)
	if err != nil {
		return nil, 0, apperror.Validation("%v", err)
	}

	logs, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		email := "System"
		userID := ""
		if l.User != nil {
			email = l.User.Email
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			UserEmail:  email,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}

	return res, total, nil
}
