package handler

import (
	"net/http"

	"antecipa/internal/middleware"
	"antecipa/internal/model"
	"antecipa/internal/service"
	"antecipa/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ContractHandler struct {
	contractService service.ContractService
	clientService   service.ClientService
	log             *logrus.Logger
}

func NewContractHandler(contractService service.ContractService, clientService service.ClientService, log *logrus.Logger) *ContractHandler {
	return &ContractHandler{contractService: contractService, clientService: clientService, log: log}
}

func (h *ContractHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	contracts := router.Group("/contracts", authn)
	{
		contracts.GET("", h.ListContracts)
		contracts.GET("/:id", h.GetContract)
	}
	router.GET("/clients", authn, middleware.RequireRole(model.RoleApprover), h.ListClients)
}

// ListContracts godoc
// @Summary      List contracts
// @Description  Clients see their own contracts, approvers see all of them
// @Tags         contracts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.ContractResponse}
// @Failure      401  {object}  response.Response
// @Router       /contracts [get]
func (h *ContractHandler) ListContracts(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	contracts, err := h.contractService.ListContracts(c.Request.Context(), identity)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, contracts))
}

// GetContract godoc
// @Summary      Get contract
// @Description  Contract with its installments in number order and their advance eligibility
// @Tags         contracts
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true   "Contract ID"
// @Param        status  query     string  false  "Only installments in this status (DUE, AWAITING_APPROVAL, PAID, ADVANCED)"
// @Success      200     {object}  response.Response{data=service.ContractDetailResponse}
// @Failure      404     {object}  response.Response
// @Router       /contracts/{id} [get]
func (h *ContractHandler) GetContract(c *gin.Context) {
	var status model.InstallmentStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := model.ParseInstallmentStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		status = parsed
	}

	identity, _ := middleware.IdentityFrom(c)
	detail, err := h.contractService.GetContract(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if status != "" {
		filtered := detail.Installments[:0]
		for _, inst := range detail.Installments {
			if inst.Status == string(status) {
				filtered = append(filtered, inst)
			}
		}
		detail.Installments = filtered
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// ListClients godoc
// @Summary      List clients
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.ClientResponse}
// @Failure      403  {object}  response.Response
// @Router       /clients [get]
func (h *ContractHandler) ListClients(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	clients, err := h.clientService.ListClients(c.Request.Context(), identity)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, clients))
}
