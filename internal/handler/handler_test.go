package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"antecipa/internal/logger"
	"antecipa/internal/middleware"
	"antecipa/internal/model"
	"antecipa/internal/service"
	"antecipa/pkg/apperror"
	"antecipa/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	clientID       = uuid.New()
	clientIdentity = model.Identity{UserID: uuid.New(), Role: model.RoleClient, ClientID: &clientID}
	approverID     = model.Identity{UserID: uuid.New(), Role: model.RoleApprover}
)

type stubParser struct{}

func (stubParser) ParseToken(token string) (model.Identity, error) {
	switch token {
	case "client":
		return clientIdentity, nil
	case "approver":
		return approverID, nil
	}
	return model.Identity{}, errors.New("bad token")
}

type stubAdvanceService struct {
	createErr  error
	lastCreate service.CreateAdvanceRequestDTO
	lastFilter service.AdvanceRequestFilter
	lastIDs    []string
	lastReason string
	identity   model.Identity
}

func (s *stubAdvanceService) Create(ctx context.Context, identity model.Identity, req service.CreateAdvanceRequestDTO) (service.AdvanceRequestResponse, error) {
	s.identity = identity
	s.lastCreate = req
	if s.createErr != nil {
		return service.AdvanceRequestResponse{}, s.createErr
	}
	return service.AdvanceRequestResponse{ID: "r1", Status: string(model.AdvancePending)}, nil
}

func (s *stubAdvanceService) Get(ctx context.Context, identity model.Identity, id string) (service.AdvanceRequestResponse, error) {
	if id != "r1" {
		return service.AdvanceRequestResponse{}, apperror.NotFound("advance request %s not found", id)
	}
	return service.AdvanceRequestResponse{ID: id}, nil
}

func (s *stubAdvanceService) List(ctx context.Context, identity model.Identity, filter service.AdvanceRequestFilter) ([]service.AdvanceRequestResponse, int64, error) {
	s.lastFilter = filter
	return []service.AdvanceRequestResponse{{ID: "r1"}}, 1, nil
}

func (s *stubAdvanceService) Approve(ctx context.Context, identity model.Identity, ids []string) (service.BatchDecisionResponse, error) {
	s.lastIDs = ids
	return service.BatchDecisionResponse{Decision: "APPROVE", Applied: len(ids)}, nil
}

func (s *stubAdvanceService) Reject(ctx context.Context, identity model.Identity, ids []string, reason string) (service.BatchDecisionResponse, error) {
	s.lastIDs = ids
	s.lastReason = reason
	return service.BatchDecisionResponse{Decision: "REJECT", Applied: len(ids)}, nil
}

func newAdvanceRouter(svc service.AdvanceRequestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdvanceRequestHandler(svc, logger.Discard()).RegisterRoutes(&r.RouterGroup, middleware.Authenticate(stubParser{}))
	return r
}

func do(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateAdvanceRequest(t *testing.T) {
	svc := &stubAdvanceService{}
	r := newAdvanceRouter(svc)

	w := do(r, http.MethodPost, "/advance-requests", "client", gin.H{"contract_id": "c1", "installment_ids": []string{"i1"}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "c1", svc.lastCreate.ContractID)
	assert.Equal(t, clientIdentity, svc.identity)

	w = do(r, http.MethodPost, "/advance-requests", "approver", gin.H{"contract_id": "c1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/advance-requests", "", gin.H{"contract_id": "c1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/advance-requests", "client", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAdvanceRequest_ErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		want int
		kind string
	}{
		{apperror.NotFound("contract x not found"), http.StatusNotFound, "NOT_FOUND"},
		{apperror.Conflict("already pending"), http.StatusConflict, "CONFLICT"},
		{apperror.Validation("no eligible installment selected"), http.StatusBadRequest, "VALIDATION"},
		{apperror.Forbidden("nope"), http.StatusForbidden, "FORBIDDEN"},
		{errors.New("db down"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := newAdvanceRouter(&stubAdvanceService{createErr: tt.err})
			w := do(r, http.MethodPost, "/advance-requests", "client", gin.H{"contract_id": "c1"})
			assert.Equal(t, tt.want, w.Code)

			resp := decode(t, w)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.kind, resp.Kind)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error, "db down")
			}
		})
	}
}

func TestListAdvanceRequests_Filters(t *testing.T) {
	svc := &stubAdvanceService{}
	r := newAdvanceRouter(svc)

	w := do(r, http.MethodGet, "/advance-requests?status=0&from=2025-01-01&to=2025-01-31&page=2&limit=5", "approver", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.AdvancePending, svc.lastFilter.Status)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.Equal(t, 5, svc.lastFilter.Limit)
	require.NotNil(t, svc.lastFilter.From)
	require.NotNil(t, svc.lastFilter.To)
	assert.Equal(t, "2025-01-01T00:00:00Z", svc.lastFilter.From.Format("2006-01-02T15:04:05Z07:00"))
	assert.Equal(t, 31, svc.lastFilter.To.Day())
	assert.Equal(t, 23, svc.lastFilter.To.Hour())

	resp := decode(t, w)
	page, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, page["total"])
	assert.EqualValues(t, 2, page["page"])

	for _, q := range []string{"status=DONE", "from=yesterday", "page=abc"} {
		w = do(r, http.MethodGet, "/advance-requests?"+q, "client", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestGetAdvanceRequest(t *testing.T) {
	r := newAdvanceRouter(&stubAdvanceService{})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/advance-requests/r1", "client", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/advance-requests/r2", "client", nil).Code)
}

func TestDecisions(t *testing.T) {
	svc := &stubAdvanceService{}
	r := newAdvanceRouter(svc)

	w := do(r, http.MethodPost, "/advance-requests/approve", "approver", gin.H{"ids": []string{"a", "b"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a", "b"}, svc.lastIDs)

	w = do(r, http.MethodPost, "/advance-requests/reject", "approver", gin.H{"ids": []string{"a"}, "reason": "late"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "late", svc.lastReason)

	w = do(r, http.MethodPost, "/advance-requests/approve", "client", gin.H{"ids": []string{"a"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type stubContractService struct{}

func (stubContractService) ListContracts(ctx context.Context, identity model.Identity) ([]service.ContractResponse, error) {
	return []service.ContractResponse{{Code: "A1"}}, nil
}

func (stubContractService) GetContract(ctx context.Context, identity model.Identity, id string) (*service.ContractDetailResponse, error) {
	return &service.ContractDetailResponse{
		ContractResponse: service.ContractResponse{ID: id},
		Installments: []service.InstallmentResponse{
			{Number: 1, Status: string(model.InstallmentPaid)},
			{Number: 2, Status: string(model.InstallmentDue)},
		},
	}, nil
}

type stubClientService struct{}

func (stubClientService) ListClients(ctx context.Context, identity model.Identity) ([]service.ClientResponse, error) {
	return []service.ClientResponse{{Name: "Ana"}}, nil
}

func TestContractRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewContractHandler(stubContractService{}, stubClientService{}, logger.Discard()).
		RegisterRoutes(&r.RouterGroup, middleware.Authenticate(stubParser{}))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/contracts", "client", nil).Code)

	w := do(r, http.MethodGet, "/contracts/c1?status=due", "client", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data service.ContractDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Installments, 1)
	assert.Equal(t, 2, body.Data.Installments[0].Number)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/contracts/c1?status=late", "client", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/clients", "client", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/clients", "approver", nil).Code)
}

type stubUserService struct{}

func (stubUserService) Login(ctx context.Context, req service.LoginUserRequest) (*service.TokenResponse, error) {
	if req.Password != "secret" {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	return &service.TokenResponse{Token: "tok", ExpiresAt: "2099-01-01T00:00:00Z"}, nil
}

func (stubUserService) Me(ctx context.Context, identity model.Identity) (*service.UserResponse, error) {
	return &service.UserResponse{ID: identity.UserID, Role: string(identity.Role)}, nil
}

func TestLoginSetsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewUserHandler(stubUserService{}, logger.Discard()).RegisterRoutes(&r.RouterGroup, middleware.Authenticate(stubParser{}))

	w := do(r, http.MethodPost, "/auth/login", "", gin.H{"email": "ana@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	w = do(r, http.MethodPost, "/auth/login", "", gin.H{"email": "ana@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", gin.H{"email": "not-an-email", "password": "secret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/me", "approver", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), approverID.UserID.String())
}

type stubStatisticsService struct {
	start, end time.Time
}

func (s *stubStatisticsService) GetStatistics(ctx context.Context, identity model.Identity, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	s.start, s.end = startDate, endDate
	return model.StatisticsResponse{TimeRangeStartDate: startDate, TimeRangeEndDate: endDate}, nil
}

func TestStatisticsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubStatisticsService{}
	r := gin.New()
	NewStatisticsHandler(svc, logger.Discard()).RegisterRoutes(&r.RouterGroup, middleware.Authenticate(stubParser{}))

	w := do(r, http.MethodGet, "/statistics?start_date=2025-01-01&end_date=2025-01-31", "approver", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), svc.start)
	assert.Equal(t, 31, svc.end.Day())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/statistics?start_date=jan", "approver", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/statistics", "client", nil).Code)
}
