package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/remitwise-ledger/internal/api_gateway/middleware"
	"github.com/remitwise-ledger/internal/api_gateway/service"
	"github.com/remitwise-ledger/internal/domain/policy"
	"github.com/remitwise-ledger/internal/domain/shared"
)

// PolicyHandler handles HTTP requests for insurance policies
type PolicyHandler struct {
	policyService service.PolicyService
	logger        *slog.Logger
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(logger *slog.Logger, policyService service.PolicyService) *PolicyHandler {
	return &PolicyHandler{
		policyService: policyService,
		logger:        logger,
	}
}

// Create opens a new insurance policy for the acting principal
func (h *PolicyHandler) Create(c *gin.Context) {
	var req CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acting := middleware.GetActingPrincipal(c)
	p, err := h.policyService.CreatePolicy(c.Request.Context(), acting, shared.Principal(req.Owner), req.Name, req.CoverageType, req.MonthlyPremium, req.CoverageAmount)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapPolicyToResponse(p))
}

// PayPremium records a premium payment against a policy
func (h *PolicyHandler) PayPremium(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	acting := middleware.GetActingPrincipal(c)
	p, err := h.policyService.PayPremium(c.Request.Context(), acting, id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapPolicyToResponse(p))
}

// Deactivate turns a policy off permanently
func (h *PolicyHandler) Deactivate(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	acting := middleware.GetActingPrincipal(c)
	p, err := h.policyService.Deactivate(c.Request.Context(), acting, id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapPolicyToResponse(p))
}

// GetByID retrieves a policy by its identifier
func (h *PolicyHandler) GetByID(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	p, err := h.policyService.GetPolicy(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapPolicyToResponse(p))
}

// ActiveByOwner returns the owner's active policies
func (h *PolicyHandler) ActiveByOwner(c *gin.Context) {
	owner := shared.Principal(c.Param("owner"))

	policies, err := h.policyService.ActiveByOwner(c.Request.Context(), owner)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	resp := PolicyListResponse{Policies: make([]PolicyResponse, 0, len(policies))}
	for _, p := range policies {
		resp.Policies = append(resp.Policies, mapPolicyToResponse(p))
	}

	RespondOK(c, resp)
}

// TotalMonthlyPremium sums the owner's active premiums
func (h *PolicyHandler) TotalMonthlyPremium(c *gin.Context) {
	owner := shared.Principal(c.Param("owner"))

	total, err := h.policyService.TotalMonthlyPremium(c.Request.Context(), owner)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, TotalResponse{Total: total})
}

// mapPolicyToResponse maps a policy entity to a policy response DTO
func mapPolicyToResponse(p *policy.Policy) PolicyResponse {
	return PolicyResponse{
		ID:              p.ID,
		Owner:           p.Owner.String(),
		Name:            p.Name,
		CoverageType:    p.CoverageType,
		MonthlyPremium:  p.MonthlyPremium,
		CoverageAmount:  p.CoverageAmount,
		Active:          p.Active,
		NextPaymentDate: p.NextPaymentDate,
		CreatedAt:       p.CreatedAt,
	}
}
