package handler

import (
	"net/http"

	"antecipa/internal/middleware"
	"antecipa/internal/model"
	"antecipa/internal/service"
	"antecipa/pkg/pagination"
	"antecipa/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuditHandler struct {
	auditService service.AuditService
	log          *logrus.Logger
}

func NewAuditHandler(auditService service.AuditService, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, log: log}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	router.GET("/audit-logs", authn, middleware.RequireRole(model.RoleApprover), h.GetAuditLogs)
}

// GetAuditLogs godoc
// @Summary      Get audit logs
// @Description  Paginated audit trail of advance request activity, newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20, max 100)"
// @Success      200    {object}  response.Response{data=response.Page{items=[]service.AuditLogResponse}}
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	page, limit, err := pagination.FromQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	logs, total, err := h.auditService.ListAuditLogs(c.Request.Context(), identity, page, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Page{
		Items: logs,
		Total: total,
		Page:  page,
		Limit: min(limit, pagination.MaxLimit),
	}))
}
