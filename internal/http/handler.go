package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/marketplace-ledger/internal/http/middleware"
	"github.com/nurpe/marketplace-ledger/internal/model"
	"github.com/nurpe/marketplace-ledger/internal/service"
)

type Handler struct {
	access    *service.AccessService
	transfers *service.TransferService
	reports   *service.ReportService
	log       zerolog.Logger
}

func NewHandler(access *service.AccessService, transfers *service.TransferService, reports *service.ReportService, log zerolog.Logger) *Handler {
	return &Handler{access: access, transfers: transfers, reports: reports, log: log}
}

func (h *Handler) Register(router *gin.Engine, profileMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(profileMiddleware)
	protected.GET("/contracts/:id", h.getContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/jobs/unpaid", h.listUnpaidJobs)
	protected.POST("/jobs/:job_id/pay", h.payJob)
	protected.POST("/balances/deposit/:user_id", h.deposit)

	admin := router.Group("/admin")
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-clients", h.bestClients)
	admin.GET("/best-clients/export", h.exportBestClients)
}

type contractResponse struct {
	ID           uuid.UUID            `json:"id"`
	ClientID     uuid.UUID            `json:"client_id"`
	ContractorID uuid.UUID            `json:"contractor_id"`
	Terms        string               `json:"terms"`
	Status       model.ContractStatus `json:"status"`
}

type jobResponse struct {
	ID          uuid.UUID       `json:"id"`
	ContractID  uuid.UUID       `json:"contract_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

type clientTotalResponse struct {
	ID         uuid.UUID         `json:"id"`
	FullName   string            `json:"full_name"`
	Profession string            `json:"profession"`
	Type       model.ProfileType `json:"type"`
	Paid       decimal.Decimal   `json:"paid"`
	Balance    decimal.Decimal   `json:"balance"`
}

func (h *Handler) getContract(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	contractID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	contract, err := h.access.GetContract(c.Request.Context(), contractID, profile.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

func (h *Handler) listContracts(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	contracts, err := h.access.ListContracts(c.Request.Context(), profile.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := make([]contractResponse, 0, len(contracts))
	for _, contract := range contracts {
		result = append(result, toContractResponse(contract))
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	jobs, err := h.access.ListUnpaidJobs(c.Request.Context(), profile.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		result = append(result, jobResponse{
			ID:          job.ID,
			ContractID:  job.ContractID,
			Description: job.Description,
			Price:       job.Price,
			Paid:        job.Paid,
			PaidAt:      job.PaidAt,
		})
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) payJob(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	jobID, err := uuid.Parse(strings.TrimSpace(c.Param("job_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	if err := h.transfers.PayJob(c.Request.Context(), jobID, profile.ID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *Handler) deposit(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	targetID, err := uuid.Parse(strings.TrimSpace(c.Param("user_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.transfers.Deposit(c.Request.Context(), targetID, profile.ID, req.Amount); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) bestProfession(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	profession, err := h.reports.BestProfession(c.Request.Context(), start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profession": profession})
}

func (h *Handler) bestClients(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	clients, err := h.reports.BestClients(c.Request.Context(), start, end, parseLimit(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := make([]clientTotalResponse, 0, len(clients))
	for _, client := range clients {
		result = append(result, clientTotalResponse{
			ID:         client.ID,
			FullName:   client.FullName(),
			Profession: client.Profession,
			Type:       client.Type,
			Paid:       client.Total,
			Balance:    client.Balance,
		})
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) exportBestClients(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.reports.ExportBestClients(c.Request.Context(), start, end, parseLimit(c), format)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrJobNotEligible), errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrDepositLimitExceeded),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toContractResponse(contract model.Contract) contractResponse {
	return contractResponse{
		ID:           contract.ID,
		ClientID:     contract.ClientID,
		ContractorID: contract.ContractorID,
		Terms:        contract.Terms,
		Status:       contract.Status,
	}
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := parseDate(queryValue(c, "start", "startDate"))
	if err != nil {
		return time.Time{}, time.Time{}, service.ErrInvalidRange
	}
	end, err := parseDate(queryValue(c, "end", "endDate"))
	if err != nil {
		return time.Time{}, time.Time{}, service.ErrInvalidRange
	}
	return start, end, nil
}

func parseLimit(c *gin.Context) int {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

func queryValue(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(c.Query(key)); value != "" {
			return value
		}
	}
	return ""
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, service.ErrInvalidRange
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidRange
}
