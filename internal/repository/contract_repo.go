package repository

import (
	"context"

	"antecipa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractRepository loads contracts together with their installments ordered by number.
type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	// FindByIDForUpdate locks the contract row for the rest of the surrounding transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Contract, error)
	ListAll(ctx context.Context) ([]model.Contract, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContractStatus) error
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func orderedInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("installments.number ASC")
}

func (r *contractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return translate(GetDB(ctx, r.db).Create(contract).Error)
}

func (r *contractRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	if err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("Installments", orderedInstallments).
		First(&contract, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	db := GetDB(ctx, r.db)
	var contract model.Contract
	if err := forUpdate(ctx, db).First(&contract, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Where("contract_id = ?", id).Order("number ASC").Find(&contract.Installments).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Contract, error) {
	var contracts []model.Contract
	if err := GetDB(ctx, r.db).
		Preload("Client").
		Where("client_id = ?", clientID).
		Order("code ASC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *contractRepository) ListAll(ctx context.Context) ([]model.Contract, error) {
	var contracts []model.Contract
	if err := GetDB(ctx, r.db).Preload("Client").Order("code ASC").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *contractRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Contract{}).Where("client_id = ?", clientID).Count(&count).Error
	return count, err
}

func (r *contractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContractStatus) error {
	res := GetDB(ctx, r.db).Model(&model.Contract{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
