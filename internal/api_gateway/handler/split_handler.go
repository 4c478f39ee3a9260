package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/remitwise-ledger/internal/api_gateway/middleware"
	"github.com/remitwise-ledger/internal/api_gateway/service"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/domain/split"
)

// SplitHandler handles HTTP requests for the split configuration
type SplitHandler struct {
	splitService service.SplitService
	logger       *slog.Logger
}

// NewSplitHandler creates a new split handler
func NewSplitHandler(logger *slog.Logger, splitService service.SplitService) *SplitHandler {
	return &SplitHandler{
		splitService: splitService,
		logger:       logger,
	}
}

// Initialize sets the four percentages for the first time
func (h *SplitHandler) Initialize(c *gin.Context) {
	var req SplitConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Owner == "" {
		RespondBadRequest(c, "Owner is required on initialization")
		return
	}

	acting := middleware.GetActingPrincipal(c)
	cfg, err := h.splitService.Initialize(c.Request.Context(), acting, shared.Principal(req.Owner), req.SpendingPercent, req.SavingsPercent, req.BillsPercent, req.InsurancePercent)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapConfigToResponse(cfg))
}

// Update atomically replaces the four percentages
func (h *SplitHandler) Update(c *gin.Context) {
	var req SplitConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acting := middleware.GetActingPrincipal(c)
	cfg, err := h.splitService.Update(c.Request.Context(), acting, req.SpendingPercent, req.SavingsPercent, req.BillsPercent, req.InsurancePercent)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapConfigToResponse(cfg))
}

// Get returns the current configuration
func (h *SplitHandler) Get(c *gin.Context) {
	cfg, err := h.splitService.Get(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapConfigToResponse(cfg))
}

// Calculate partitions an amount into the four configured shares
func (h *SplitHandler) Calculate(c *gin.Context) {
	var req CalculateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shares, err := h.splitService.Calculate(c.Request.Context(), req.TotalAmount)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	resp := CalculateSplitResponse{
		Allocations: make([]AllocationResponse, 0, 4),
		Total:       shares.Total(),
	}
	for _, a := range shares.Allocations() {
		resp.Allocations = append(resp.Allocations, AllocationResponse{
			Category: a.Category,
			Amount:   a.Amount,
		})
	}

	RespondOK(c, resp)
}

// mapConfigToResponse maps the split configuration to its response DTO
func mapConfigToResponse(cfg *split.Config) SplitConfigResponse {
	return SplitConfigResponse{
		Owner:            cfg.Owner.String(),
		SpendingPercent:  cfg.SpendingPercent,
		SavingsPercent:   cfg.SavingsPercent,
		BillsPercent:     cfg.BillsPercent,
		InsurancePercent: cfg.InsurancePercent,
		UpdatedAt:        cfg.UpdatedAt,
	}
}
