package handler

import (
	"fmt"
	"net/http"
	"time"

	"antecipa/internal/middleware"
	"antecipa/internal/model"
	"antecipa/internal/service"
	"antecipa/pkg/pagination"
	"antecipa/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdvanceRequestHandler struct {
	service service.AdvanceRequestService
	log     *logrus.Logger
}

func NewAdvanceRequestHandler(svc service.AdvanceRequestService, log *logrus.Logger) *AdvanceRequestHandler {
	return &AdvanceRequestHandler{service: svc, log: log}
}

func (h *AdvanceRequestHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	requests := router.Group("/advance-requests", authn)
	{
		requests.POST("", middleware.RequireRole(model.RoleClient), h.Create)
		requests.GET("", h.List)
		requests.GET("/:id", h.Get)
		requests.POST("/approve", middleware.RequireRole(model.RoleApprover), h.Approve)
		requests.POST("/reject", middleware.RequireRole(model.RoleApprover), h.Reject)
	}
}

// Create godoc
// @Summary      Request an advance
// @Description  Creates a PENDING advance request for eligible installments of one of the caller's contracts.
// @Description  An empty installment_ids list selects every eligible installment when auto selection is enabled.
// @Tags         advance-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateAdvanceRequestDTO  true  "Advance request"
// @Success      201      {object}  response.Response{data=service.AdvanceRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /advance-requests [post]
func (h *AdvanceRequestHandler) Create(c *gin.Context) {
	var req service.CreateAdvanceRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	created, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// List godoc
// @Summary      List advance requests
// @Description  Newest first. Clients only see their own requests.
// @Tags         advance-requests
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "PENDING, APPROVED, REJECTED (or 0, 1, 2)"
// @Param        from    query     string  false  "Created at or after (RFC3339 or YYYY-MM-DD)"
// @Param        to      query     string  false  "Created at or before (RFC3339 or YYYY-MM-DD, whole day)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20, max 100)"
// @Success      200     {object}  response.Response{data=response.Page{items=[]service.AdvanceRequestResponse}}
// @Failure      400     {object}  response.Response
// @Router       /advance-requests [get]
func (h *AdvanceRequestHandler) List(c *gin.Context) {
	page, limit, err := pagination.FromQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	filter := service.AdvanceRequestFilter{Page: page, Limit: limit}
	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseAdvanceRequestStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.Status = status
	}
	if filter.From, err = parseDateParam(c.Query("from"), false); err != nil {
		badRequest(c, err.Error())
		return
	}
	if filter.To, err = parseDateParam(c.Query("to"), true); err != nil {
		badRequest(c, err.Error())
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	requests, total, err := h.service.List(c.Request.Context(), identity, filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Page{
		Items: requests,
		Total: total,
		Page:  page,
		Limit: min(limit, pagination.MaxLimit),
	}))
}

// Get godoc
// @Summary      Get advance request
// @Tags         advance-requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Advance request ID"
// @Success      200  {object}  response.Response{data=service.AdvanceRequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /advance-requests/{id} [get]
func (h *AdvanceRequestHandler) Get(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	req, err := h.service.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Approve godoc
// @Summary      Approve advance requests
// @Description  Approves each listed request independently and reports a per-id outcome (applied, not_found, not_pending).
// @Tags         advance-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DecisionDTO  true  "Request ids"
// @Success      200      {object}  response.Response{data=service.BatchDecisionResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /advance-requests/approve [post]
func (h *AdvanceRequestHandler) Approve(c *gin.Context) {
	var req service.DecisionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	res, err := h.service.Approve(c.Request.Context(), identity, req.IDs)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Reject godoc
// @Summary      Reject advance requests
// @Description  Rejects each listed request independently; its installments return to DUE.
// @Tags         advance-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DecisionDTO  true  "Request ids and optional reason"
// @Success      200      {object}  response.Response{data=service.BatchDecisionResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /advance-requests/reject [post]
func (h *AdvanceRequestHandler) Reject(c *gin.Context) {
	var req service.DecisionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	res, err := h.service.Reject(c.Request.Context(), identity, req.IDs, req.Reason)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// parseDateParam accepts RFC3339 or a plain date. A plain date used as an upper bound
// covers the whole day.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use RFC3339 or YYYY-MM-DD", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
