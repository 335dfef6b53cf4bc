package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"antecipa/internal/metrics"
	"antecipa/internal/model"
	"antecipa/internal/repository"
	"antecipa/internal/rules"
	"antecipa/internal/websocket"
	"antecipa/pkg/apperror"
	"antecipa/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// --- DTOs ---

type CreateAdvanceRequestDTO struct {
	ContractID     string   `json:"contract_id" binding:"required"`
	InstallmentIDs []string `json:"installment_ids"`
	Note           string   `json:"note" binding:"max=500"`
}

type DecisionDTO struct {
	IDs    []string `json:"ids"`
	Reason string   `json:"reason" binding:"max=500"`
}

type AdvanceRequestFilter struct {
	Status model.AdvanceRequestStatus // empty for all
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

type AdvanceRequestItemResponse struct {
	InstallmentID     string          `json:"installment_id"`
	Number            int             `json:"number,omitempty"`
	DueDate           *string         `json:"due_date,omitempty"`
	InstallmentStatus string          `json:"installment_status,omitempty"`
	AmountSnapshot    decimal.Decimal `json:"amount_snapshot"`
}

type AdvanceRequestResponse struct {
	ID              string                       `json:"id"`
	ClientID        string                       `json:"client_id"`
	ClientName      string                       `json:"client_name,omitempty"`
	ContractID      string                       `json:"contract_id"`
	ContractCode    string                       `json:"contract_code,omitempty"`
	Status          string                       `json:"status"`
	Note            string                       `json:"note"`
	Total           decimal.Decimal              `json:"total"`
	CreatedAt       string                       `json:"created_at"`
	ApprovedAt      *string                      `json:"approved_at"`
	DecidedAt       *string                      `json:"decided_at"`
	DecidedBy       *string                      `json:"decided_by"`
	RejectionReason string                       `json:"rejection_reason,omitempty"`
	Items           []AdvanceRequestItemResponse `json:"items"`
}

// Per-id outcomes of a bulk decision.
const (
	OutcomeApplied    = "applied"
	OutcomeNotFound   = "not_found"
	OutcomeNotPending = "not_pending"
	OutcomeError      = "error"
)

type DecisionResult struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

type BatchDecisionResponse struct {
	Decision string           `json:"decision"`
	Applied  int              `json:"applied"`
	Results  []DecisionResult `json:"results"`
}

// --- Interface ---

type AdvanceRequestService interface {
	Create(ctx context.Context, identity model.Identity, req CreateAdvanceRequestDTO) (AdvanceRequestResponse, error)
	Get(ctx context.Context, identity model.Identity, id string) (AdvanceRequestResponse, error)
	List(ctx context.Context, identity model.Identity, filter AdvanceRequestFilter) ([]AdvanceRequestResponse, int64, error)
	Approve(ctx context.Context, identity model.Identity, ids []string) (BatchDecisionResponse, error)
	Reject(ctx context.Context, identity model.Identity, ids []string, reason string) (BatchDecisionResponse, error)
}

// EventPublisher receives advance request events after commit.
type EventPublisher interface {
	Publish(evt websocket.Event)
}

// AdvanceRequestDeps wires the service. Publisher, Metrics and Clock are optional.
type AdvanceRequestDeps struct {
	TxManager    repository.TransactionManager
	Contracts    repository.ContractRepository
	Installments repository.InstallmentRepository
	Requests     repository.AdvanceRequestRepository
	Audit        repository.AuditRepository
	Publisher    EventPublisher
	Metrics      *metrics.Recorder
	Logger       *logrus.Logger
	// AutoSelect picks every eligible installment when the client sends no selection.
	AutoSelect bool
	Clock      func() time.Time
}

type advanceRequestService struct {
	txm          repository.TransactionManager
	contracts    repository.ContractRepository
	installments repository.InstallmentRepository
	requests     repository.AdvanceRequestRepository
	audit        repository.AuditRepository
	publisher    EventPublisher
	metrics      *metrics.Recorder
	log          *logrus.Logger
	autoSelect   bool
	now          func() time.Time
}

var errInstallmentsChanged = errors.New("installments changed concurrently")

func NewAdvanceRequestService(deps AdvanceRequestDeps) AdvanceRequestService {
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &advanceRequestService{
		txm:          deps.TxManager,
		contracts:    deps.Contracts,
		installments: deps.Installments,
		requests:     deps.Requests,
		audit:        deps.Audit,
		publisher:    deps.Publisher,
		metrics:      deps.Metrics,
		log:          log,
		autoSelect:   deps.AutoSelect,
		now:          clock,
	}
}

// --- Implementation ---

func (s *advanceRequestService) Create(ctx context.Context, identity model.Identity, req CreateAdvanceRequestDTO) (AdvanceRequestResponse, error) {
	resp, err := s.create(ctx, identity, req)
	if err != nil {
		s.metrics.CreateFailed(string(apperror.KindOf(err)))
		return AdvanceRequestResponse{}, err
	}
	s.metrics.RequestCreated()
	return resp, nil
}

func (s *advanceRequestService) create(ctx context.Context, identity model.Identity, req CreateAdvanceRequestDTO) (AdvanceRequestResponse, error) {
	if !identity.IsClient() {
		return AdvanceRequestResponse{}, apperror.Forbidden("only clients can request advances")
	}

	contractID, err := uuid.Parse(strings.TrimSpace(req.ContractID))
	if err != nil {
		return AdvanceRequestResponse{}, apperror.Validation("invalid contract_id %q", req.ContractID)
	}
	selected, err := parseUUIDs(req.InstallmentIDs)
	if err != nil {
		return AdvanceRequestResponse{}, apperror.Validation("invalid installment_ids: %v", err)
	}

	now := s.now()
	var created model.AdvanceRequest
	var contractCode string

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		contract, err := s.contracts.FindByIDForUpdate(txCtx, contractID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && !identity.Owns(contract.ClientID)) {
			return apperror.NotFound("contract %s not found", contractID)
		}
		if err != nil {
			return fmt.Errorf("failed to load contract: %w", err)
		}
		contractCode = contract.Code

		if rules.HasOutstandingRequest(contract.Installments) {
			return apperror.Conflict("contract %s already has an advance request awaiting approval", contract.Code)
		}

		picked, err := rules.SelectInstallments(contract.Installments, selected, now, s.autoSelect)
		if err != nil {
			return err
		}

		created = rules.NewAdvanceRequest(contract.ClientID, contract.ID, picked, strings.TrimSpace(req.Note), now)
		if err := s.requests.Create(txCtx, &created); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Conflict("contract %s already has an advance request awaiting approval", contract.Code)
			}
			return fmt.Errorf("failed to create advance request: %w", err)
		}

		ids := created.InstallmentIDs()
		transition := rules.RequestTransition()
		if err := s.transition(txCtx, ids, transition); err != nil {
			return err
		}
		rules.ApplyTransition(contract.Installments, ids, transition)

		if err := s.syncContractStatus(txCtx, identity, contract); err != nil {
			return err
		}

		return s.writeAudit(txCtx, identity, model.ActionCreateAdvanceRequest, created.ID, contract.Code, map[string]interface{}{
			"contract_id":  contract.ID.String(),
			"installments": len(ids),
			"total":        created.Total().StringFixed(2),
		})
	})
	if err != nil {
		return AdvanceRequestResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":   created.ID,
		"contract":     contractCode,
		"client_id":    created.ClientID,
		"installments": len(created.Items),
	}).Info("advance request created")
	s.publish(websocket.EventAdvanceRequestCreated, created)

	return s.load(ctx, created.ID)
}

func (s *advanceRequestService) Get(ctx context.Context, identity model.Identity, id string) (AdvanceRequestResponse, error) {
	if !identity.IsClient() && !identity.IsApprover() {
		return AdvanceRequestResponse{}, apperror.Forbidden("role %q cannot read advance requests", identity.Role)
	}
	requestID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return AdvanceRequestResponse{}, apperror.NotFound("advance request %s not found", id)
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !identity.IsApprover() && !identity.Owns(req.ClientID)) {
		return AdvanceRequestResponse{}, apperror.NotFound("advance request %s not found", id)
	}
	if err != nil {
		return AdvanceRequestResponse{}, fmt.Errorf("failed to load advance request: %w", err)
	}
	return toAdvanceRequestResponse(*req), nil
}

func (s *advanceRequestService) List(ctx context.Context, identity model.Identity, filter AdvanceRequestFilter) ([]AdvanceRequestResponse, int64, error) {
	if !identity.IsClient() && !identity.IsApprover() {
		return nil, 0, apperror.Forbidden("role %q cannot read advance requests", identity.Role)
	}

	page, err := pagination.New(filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, apperror.Validation("%v", err)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, apperror.Validation("from must not be after to")
	}

	repoFilter := repository.AdvanceRequestFilter{
		Status: filter.Status,
		From:   filter.From,
		To:     filter.To,
		Offset: page.Offset,
		Limit:  page.Limit,
	}
	if identity.IsClient() {
		repoFilter.ClientID = identity.ClientID
	}

	requests, total, err := s.requests.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch advance requests: %w", err)
	}

	result := make([]AdvanceRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toAdvanceRequestResponse(r))
	}
	return result, total, nil
}

func (s *advanceRequestService) Approve(ctx context.Context, identity model.Identity, ids []string) (BatchDecisionResponse, error) {
	return s.decideBatch(ctx, identity, ids, rules.DecisionApprove, "")
}

func (s *advanceRequestService) Reject(ctx context.Context, identity model.Identity, ids []string, reason string) (BatchDecisionResponse, error) {
	return s.decideBatch(ctx, identity, ids, rules.DecisionReject, strings.TrimSpace(reason))
}

// decideBatch handles every id in its own transaction: one request's items move together,
// while the batch as a whole may partially succeed.
func (s *advanceRequestService) decideBatch(ctx context.Context, identity model.Identity, ids []string, decision rules.Decision, reason string) (BatchDecisionResponse, error) {
	if !identity.IsApprover() {
		return BatchDecisionResponse{}, apperror.Forbidden("only approvers can decide advance requests")
	}
	if len(ids) == 0 {
		return BatchDecisionResponse{}, apperror.Validation("ids must not be empty")
	}

	resp := BatchDecisionResponse{Decision: string(decision), Results: make([]DecisionResult, 0, len(ids))}
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		key := strings.ToLower(strings.TrimSpace(raw))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		result := s.decideOne(ctx, identity, raw, decision, reason)
		s.metrics.Decision(string(decision), result.Outcome)
		if result.Outcome == OutcomeApplied {
			resp.Applied++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp, nil
}

func (s *advanceRequestService) decideOne(ctx context.Context, identity model.Identity, raw string, decision rules.Decision, reason string) DecisionResult {
	requestID, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return DecisionResult{ID: raw, Outcome: OutcomeNotFound, Message: "invalid id"}
	}

	now := s.now()
	var decided model.AdvanceRequest
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.FindByIDForUpdate(txCtx, requestID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("advance request %s not found", requestID)
		}
		if err != nil {
			return fmt.Errorf("failed to load advance request: %w", err)
		}

		transition, err := rules.Decide(req, decision, identity.UserID, reason, now)
		if err != nil {
			return err
		}
		if err := s.requests.SaveDecision(txCtx, req); err != nil {
			return fmt.Errorf("failed to update advance request: %w", err)
		}

		contract, err := s.contracts.FindByIDForUpdate(txCtx, req.ContractID)
		if err != nil {
			return fmt.Errorf("failed to load contract %s: %w", req.ContractID, err)
		}

		ids := req.InstallmentIDs()
		if err := s.transition(txCtx, ids, transition); err != nil {
			return err
		}
		rules.ApplyTransition(contract.Installments, ids, transition)

		if err := s.syncContractStatus(txCtx, identity, contract); err != nil {
			return err
		}

		action := model.ActionApproveAdvanceRequest
		if decision == rules.DecisionReject {
			action = model.ActionRejectAdvanceRequest
		}
		details := map[string]interface{}{
			"contract_id":  contract.ID.String(),
			"installments": len(ids),
		}
		if reason != "" {
			details["reason"] = reason
		}
		if err := s.writeAudit(txCtx, identity, action, req.ID, contract.Code, details); err != nil {
			return err
		}

		decided = *req
		return nil
	})

	switch {
	case err == nil:
		s.log.WithFields(logrus.Fields{
			"request_id": decided.ID,
			"decision":   decision,
			"approver":   identity.UserID,
		}).Info("advance request decided")
		evt := websocket.EventAdvanceRequestApproved
		if decision == rules.DecisionReject {
			evt = websocket.EventAdvanceRequestRejected
		}
		s.publish(evt, decided)
		return DecisionResult{ID: requestID.String(), Outcome: OutcomeApplied, Status: string(decided.Status)}
	case errors.Is(err, apperror.ErrNotFound):
		return DecisionResult{ID: requestID.String(), Outcome: OutcomeNotFound, Message: err.Error()}
	case errors.Is(err, apperror.ErrConflict):
		return DecisionResult{ID: requestID.String(), Outcome: OutcomeNotPending, Message: err.Error()}
	default:
		s.log.WithError(err).WithField("request_id", requestID).Error("advance request decision failed")
		return DecisionResult{ID: requestID.String(), Outcome: OutcomeError, Message: "internal error"}
	}
}

// transition moves exactly the given installments or fails, rolling the transaction back.
func (s *advanceRequestService) transition(ctx context.Context, ids []uuid.UUID, t rules.Transition) error {
	changed, err := s.installments.Transition(ctx, ids, t.From, t.To)
	if err != nil {
		return fmt.Errorf("failed to update installments: %w", err)
	}
	if int(changed) != len(ids) {
		return fmt.Errorf("%w: %s -> %s changed %d of %d", errInstallmentsChanged, t.From, t.To, changed, len(ids))
	}
	return nil
}

func (s *advanceRequestService) syncContractStatus(ctx context.Context, identity model.Identity, contract *model.Contract) error {
	next := rules.DeriveContractStatus(contract.Status, contract.Installments)
	if next == contract.Status {
		return nil
	}
	if err := s.contracts.UpdateStatus(ctx, contract.ID, next); err != nil {
		return fmt.Errorf("failed to update contract status: %w", err)
	}
	prev := contract.Status
	contract.Status = next
	if next != model.ContractSettled {
		return nil
	}
	return s.writeAudit(ctx, identity, model.ActionSettleContract, contract.ID, contract.Code, map[string]interface{}{
		"previous_status": prev,
	})
}

func (s *advanceRequestService) writeAudit(ctx context.Context, identity model.Identity, action string, entityID uuid.UUID, entityName string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	userID := identity.UserID
	entry := model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID.String(),
		EntityName: entityName,
		Details:    string(payload),
		CreatedAt:  s.now(),
	}
	if err := s.audit.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *advanceRequestService) publish(eventType string, req model.AdvanceRequest) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(websocket.Event{
		Type:       eventType,
		RequestID:  req.ID.String(),
		ContractID: req.ContractID.String(),
		ClientID:   req.ClientID.String(),
		Status:     string(req.Status),
		At:         s.now(),
	})
}

func (s *advanceRequestService) load(ctx context.Context, id uuid.UUID) (AdvanceRequestResponse, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return AdvanceRequestResponse{}, fmt.Errorf("failed to reload advance request: %w", err)
	}
	return toAdvanceRequestResponse(*req), nil
}

// --- Helpers ---

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid id", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toAdvanceRequestResponse(r model.AdvanceRequest) AdvanceRequestResponse {
	resp := AdvanceRequestResponse{
		ID:              r.ID.String(),
		ClientID:        r.ClientID.String(),
		ContractID:      r.ContractID.String(),
		Status:          string(r.Status),
		Note:            r.Note,
		Total:           r.Total(),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		ApprovedAt:      formatTime(r.ApprovedAt),
		DecidedAt:       formatTime(r.DecidedAt),
		RejectionReason: r.RejectionReason,
		Items:           make([]AdvanceRequestItemResponse, 0, len(r.Items)),
	}
	if r.Client != nil {
		resp.ClientName = r.Client.Name
	}
	if r.Contract != nil {
		resp.ContractCode = r.Contract.Code
	}
	if r.DecidedBy != nil {
		s := r.DecidedBy.String()
		resp.DecidedBy = &s
	}

	for _, item := range r.Items {
		ir := AdvanceRequestItemResponse{
			InstallmentID:  item.InstallmentID.String(),
			AmountSnapshot: item.AmountSnapshot,
		}
		if item.Installment != nil {
			ir.Number = item.Installment.Number
			ir.DueDate = formatTime(&item.Installment.DueDate)
			ir.InstallmentStatus = string(item.Installment.Status)
		}
		resp.Items = append(resp.Items, ir)
	}
	sort.SliceStable(resp.Items, func(i, j int) bool {
		return resp.Items[i].Number < resp.Items[j].Number
	})
	return resp
}
