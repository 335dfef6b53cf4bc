package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"antecipa/internal/model"
	"antecipa/internal/repository"
	"antecipa/internal/rules"
	"antecipa/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InstallmentResponse struct {
	ID       string          `json:"id"`
	Number   int             `json:"number"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  string          `json:"due_date"`
	Status   string          `json:"status"`
	Eligible bool            `json:"eligible"`
}

type ContractResponse struct {
	ID               string `json:"id"`
	Code             string `json:"code"`
	ClientID         string `json:"client_id"`
	ClientName       string `json:"client_name,omitempty"`
	Status           string `json:"status"`
	InstallmentCount int    `json:"installment_count"`
	LatestDueDate    string `json:"latest_due_date"`
}

type ContractDetailResponse struct {
	ContractResponse
	HasOutstandingRequest bool                  `json:"has_outstanding_request"`
	EligibleTotal         decimal.Decimal       `json:"eligible_total"`
	Installments          []InstallmentResponse `json:"installments"`
}

type ContractService interface {
	ListContracts(ctx context.Context, identity model.Identity) ([]ContractResponse, error)
	GetContract(ctx context.Context, identity model.Identity, id string) (*ContractDetailResponse, error)
}

type contractService struct {
	repo repository.ContractRepository
	now  func() time.Time
}

func NewContractService(repo repository.ContractRepository, clock func() time.Time) ContractService {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &contractService{repo: repo, now: clock}
}

// ListContracts returns the caller's contracts, or every contract for approvers.
func (s *contractService) ListContracts(ctx context.Context, identity model.Identity) ([]ContractResponse, error) {
	var (
		contracts []model.Contract
		err       error
	)
	switch {
	case identity.IsApprover():
		contracts, err = s.repo.ListAll(ctx)
	case identity.IsClient():
		contracts, err = s.repo.ListByClient(ctx, *identity.ClientID)
	default:
		return nil, apperror.Forbidden("role %q cannot read contracts", identity.Role)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contracts: %w", err)
	}

	res := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		res = append(res, mapContract(&contracts[i]))
	}
	return res, nil
}

// GetContract returns the contract with its installments in number order and their eligibility as of now.
func (s *contractService) GetContract(ctx context.Context, identity model.Identity, id string) (*ContractDetailResponse, error) {
	if !identity.IsClient() && !identity.IsApprover() {
		return nil, apperror.Forbidden("role %q cannot read contracts", identity.Role)
	}
	contractID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, apperror.NotFound("contract %s not found", id)
	}

	contract, err := s.repo.FindByID(ctx, contractID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !identity.IsApprover() && !identity.Owns(contract.ClientID)) {
		return nil, apperror.NotFound("contract %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	now := s.now()
	detail := &ContractDetailResponse{
		ContractResponse:      mapContract(contract),
		HasOutstandingRequest: rules.HasOutstandingRequest(contract.Installments),
		EligibleTotal:         decimal.Zero,
		Installments:          make([]InstallmentResponse, 0, len(contract.Installments)),
	}
	for _, inst := range contract.Installments {
		eligible := rules.IsInstallmentEligible(inst, now)
		if eligible {
			detail.EligibleTotal = detail.EligibleTotal.Add(inst.Amount)
		}
		detail.Installments = append(detail.Installments, InstallmentResponse{
			ID:       inst.ID.String(),
			Number:   inst.Number,
			Amount:   inst.Amount,
			DueDate:  inst.DueDate.Format(time.RFC3339),
			Status:   string(inst.Status),
			Eligible: eligible,
		})
	}
	return detail, nil
}

func mapContract(c *model.Contract) ContractResponse {
	res := ContractResponse{
		ID:               c.ID.String(),
		Code:             c.Code,
		ClientID:         c.ClientID.String(),
		Status:           string(c.Status),
		InstallmentCount: c.InstallmentCount,
		LatestDueDate:    c.LatestDueDate.Format(time.RFC3339),
	}
	if c.Client != nil {
		res.ClientName = c.Client.Name
	}
	return res
}
