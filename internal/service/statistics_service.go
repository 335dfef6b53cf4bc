package service

import (
	"context"
	"time"

	"antecipa/internal/model"
	"antecipa/internal/repository"
	"antecipa/pkg/apperror"

	"github.com/shopspring/decimal"
)

const topClientsLimit = 5

type StatisticsService interface {
	GetStatistics(ctx context.Context, identity model.Identity, startDate, endDate time.Time) (model.StatisticsResponse, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics reports request counts and amounts per status, plus the clients with the
// largest approved advances, for requests created inside the range.
func (s *statisticsService) GetStatistics(ctx context.Context, identity model.Identity, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	if !identity.IsApprover() {
		return model.StatisticsResponse{}, apperror.Forbidden("only approvers can read statistics")
	}
	if startDate.After(endDate) {
		return model.StatisticsResponse{}, apperror.Validation("start_date must not be after end_date")
	}

	totals, err := s.repo.TotalsByStatus(ctx, startDate, endDate)
	if err != nil {
		return model.StatisticsResponse{}, err
	}
	top, err := s.repo.TopClients(ctx, model.AdvanceApproved, startDate, endDate, topClientsLimit)
	if err != nil {
		return model.StatisticsResponse{}, err
	}
	if top == nil {
		top = []model.ClientRanking{}
	}

	// every status is reported, zero when absent
	found := make(map[model.AdvanceRequestStatus]model.StatusTotal, len(totals))
	for _, t := range totals {
		found[t.Status] = t
	}
	byStatus := make([]model.StatusTotal, 0, 3)
	for _, st := range []model.AdvanceRequestStatus{model.AdvancePending, model.AdvanceApproved, model.AdvanceRejected} {
		t, ok := found[st]
		if !ok {
			t = model.StatusTotal{Status: st, Amount: decimal.Zero}
		}
		byStatus = append(byStatus, t)
	}

	return model.StatisticsResponse{
		ByStatus:           byStatus,
		TopClients:         top,
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
	}, nil
}
