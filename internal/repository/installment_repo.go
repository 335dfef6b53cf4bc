package repository

import (
	"context"

	"antecipa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstallmentRepository interface {
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]model.Installment, error)
	// Transition moves the given installments from one status to another and returns how many
	// rows changed. Rows not in the source status are left alone.
	Transition(ctx context.Context, ids []uuid.UUID, from, to model.InstallmentStatus) (int64, error)
}

type installmentRepository struct {
	db *gorm.DB
}

func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]model.Installment, error) {
	var installments []model.Installment
	if err := GetDB(ctx, r.db).
		Where("contract_id = ?", contractID).
		Order("number ASC").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

func (r *installmentRepository) Transition(ctx context.Context, ids []uuid.UUID, from, to model.InstallmentStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := GetDB(ctx, r.db).
		Model(&model.Installment{}).
		Where("id IN ? AND status = ?", ids, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
