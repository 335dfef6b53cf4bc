package repository

import (
	"context"
	"fmt"
	"time"

	"antecipa/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	TotalsByStatus(ctx context.Context, start, end time.Time) ([]model.StatusTotal, error)
	TopClients(ctx context.Context, status model.AdvanceRequestStatus, start, end time.Time, limit int) ([]model.ClientRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) TotalsByStatus(ctx context.Context, start, end time.Time) ([]model.StatusTotal, error) {
	var totals []model.StatusTotal
	if err := GetDB(ctx, r.db).Table("advance_requests").
		Select("advance_requests.status as status, COUNT(DISTINCT advance_requests.id) as requests, COALESCE(SUM(advance_request_items.amount_snapshot), 0) as amount").
		Joins("LEFT JOIN advance_request_items ON advance_request_items.advance_request_id = advance_requests.id").
		Where("advance_requests.created_at >= ? AND advance_requests.created_at <= ?", start, end).
		Group("advance_requests.status").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to query status totals: %w", err)
	}
	return totals, nil
}

func (r *statisticsRepository) TopClients(ctx context.Context, status model.AdvanceRequestStatus, start, end time.Time, limit int) ([]model.ClientRanking, error) {
	var rankings []model.ClientRanking
	if err := GetDB(ctx, r.db).Table("advance_requests").
		Select("clients.id as client_id, clients.name as client_name, COUNT(DISTINCT advance_requests.id) as requests, SUM(advance_request_items.amount_snapshot) as total_amount").
		Joins("JOIN clients ON clients.id = advance_requests.client_id").
		Joins("JOIN advance_request_items ON advance_request_items.advance_request_id = advance_requests.id").
		Where("advance_requests.status = ? AND advance_requests.created_at >= ? AND advance_requests.created_at <= ?", status, start, end).
		Group("clients.id, clients.name").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top clients: %w", err)
	}
	return rankings, nil
}
