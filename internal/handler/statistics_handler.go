package handler

import (
	"net/http"
	"time"

	"antecipa/internal/middleware"
	"antecipa/internal/model"
	"antecipa/internal/service"
	"antecipa/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	log               *logrus.Logger
}

func NewStatisticsHandler(statisticsService service.StatisticsService, log *logrus.Logger) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, log: log}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	router.GET("/statistics", authn, middleware.RequireRole(model.RoleApprover), h.GetStatistics)
}

// @Summary      Get Dashboard Statistics
// @Description  Advance request counts and amounts per status and the top clients by approved amount
// @Tags         statistics
// @Produce      json
// @Param        start_date query string false "Start Date (RFC3339 or YYYY-MM-DD, default first day of the month)"
// @Param        end_date   query string false "End Date (RFC3339 or YYYY-MM-DD, default now)"
// @Success      200 {object} response.Response{data=model.StatisticsResponse}
// @Failure      400 {object} response.Response "Invalid date format"
// @Failure      403 {object} response.Response
// @Security     BearerAuth
// @Router       /statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	now := time.Now().UTC()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endDate := now

	if parsed, err := parseDateParam(c.Query("start_date"), false); err != nil {
		badRequest(c, err.Error())
		return
	} else if parsed != nil {
		startDate = *parsed
	}
	if parsed, err := parseDateParam(c.Query("end_date"), true); err != nil {
		badRequest(c, err.Error())
		return
	} else if parsed != nil {
		endDate = *parsed
	}

	identity, _ := middleware.IdentityFrom(c)
	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), identity, startDate, endDate)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
