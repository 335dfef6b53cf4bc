package repository

import (
	"context"
	"time"

	"antecipa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdvanceRequestFilter narrows a request listing. Zero values mean "no constraint".
type AdvanceRequestFilter struct {
	ClientID *uuid.UUID
	Status   model.AdvanceRequestStatus
	From     *time.Time
	To       *time.Time
	Offset   int
	Limit    int
}

type AdvanceRequestRepository interface {
	// Create inserts the request together with its items.
	Create(ctx context.Context, req *model.AdvanceRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AdvanceRequest, error)
	// FindByIDForUpdate locks the request row for the rest of the surrounding transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AdvanceRequest, error)
	List(ctx context.Context, filter AdvanceRequestFilter) ([]model.AdvanceRequest, int64, error)
	// SaveDecision persists status and decision fields only.
	SaveDecision(ctx context.Context, req *model.AdvanceRequest) error
}

type advanceRequestRepository struct {
	db *gorm.DB
}

func NewAdvanceRequestRepository(db *gorm.DB) AdvanceRequestRepository {
	return &advanceRequestRepository{db: db}
}

func (r *advanceRequestRepository) Create(ctx context.Context, req *model.AdvanceRequest) error {
	return translate(GetDB(ctx, r.db).Create(req).Error)
}

func (r *advanceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AdvanceRequest, error) {
	var req model.AdvanceRequest
	if err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("Contract").
		Preload("Items.Installment").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *advanceRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AdvanceRequest, error) {
	db := GetDB(ctx, r.db)
	var req model.AdvanceRequest
	if err := forUpdate(ctx, db).First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Where("advance_request_id = ?", id).Find(&req.Items).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *advanceRequestRepository) List(ctx context.Context, filter AdvanceRequestFilter) ([]model.AdvanceRequest, int64, error) {
	var requests []model.AdvanceRequest
	var total int64

	db := GetDB(ctx, r.db)
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.ClientID != nil {
			q = q.Where("client_id = ?", *filter.ClientID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.From != nil {
			q = q.Where("created_at >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("created_at <= ?", *filter.To)
		}
		return q
	}

	if err := db.Model(&model.AdvanceRequest{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.AdvanceRequest{}, 0, nil
	}

	if err := db.Scopes(scope).
		Preload("Client").
		Preload("Contract").
		Preload("Items.Installment").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *advanceRequestRepository) SaveDecision(ctx context.Context, req *model.AdvanceRequest) error {
	res := GetDB(ctx, r.db).
		Model(&model.AdvanceRequest{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"status":           req.Status,
			"approved_at":      req.ApprovedAt,
			"decided_at":       req.DecidedAt,
			"decided_by":       req.DecidedBy,
			"rejection_reason": req.RejectionReason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
