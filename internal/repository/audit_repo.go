package repository

import (
	"context"

	"antecipa/internal/model"
	"antecipa/pkg/pagination"

	"gorm.io/gorm"
)

// AuditRepository stores the append-only trail of advance request decisions.
type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	// List pages through the trail newest first, with the acting user preloaded.
	List(ctx context.Context, page pagination.Params) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Log joins the caller's transaction when there is one, so the entry commits or rolls back with the change it records.
func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return translate(GetDB(ctx, r.db).Create(entry).Error)
}

func (r *auditRepository) List(ctx context.Context, page pagination.Params) ([]model.AuditLog, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 || int64(page.Offset) >= total {
		return []model.AuditLog{}, total, nil
	}

	entries := make([]model.AuditLog, 0, page.Limit)
	err := db.Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
