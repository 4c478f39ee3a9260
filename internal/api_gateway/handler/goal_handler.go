package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/remitwise-ledger/internal/api_gateway/middleware"
	"github.com/remitwise-ledger/internal/api_gateway/service"
	"github.com/remitwise-ledger/internal/domain/goal"
	"github.com/remitwise-ledger/internal/domain/shared"
)

// GoalHandler handles HTTP requests for savings goals
type GoalHandler struct {
	goalService service.GoalService
	logger      *slog.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(logger *slog.Logger, goalService service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		logger:      logger,
	}
}

// Create opens a new savings goal for the acting principal
func (h *GoalHandler) Create(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acting := middleware.GetActingPrincipal(c)
	g, err := h.goalService.CreateGoal(c.Request.Context(), acting, shared.Principal(req.Owner), req.Name, req.TargetAmount, req.TargetDate)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapGoalToResponse(g))
}

// Deposit adds funds toward a goal
func (h *GoalHandler) Deposit(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acting := middleware.GetActingPrincipal(c)
	g, err := h.goalService.Deposit(c.Request.Context(), acting, id, req.Amount)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapGoalToResponse(g))
}

// GetByID retrieves a goal by its identifier
func (h *GoalHandler) GetByID(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	g, err := h.goalService.GetGoal(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapGoalToResponse(g))
}

// ListByOwner returns the owner's goals
func (h *GoalHandler) ListByOwner(c *gin.Context) {
	owner := shared.Principal(c.Param("owner"))

	goals, err := h.goalService.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	resp := GoalListResponse{Goals: make([]GoalResponse, 0, len(goals))}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, mapGoalToResponse(g))
	}

	RespondOK(c, resp)
}

// mapGoalToResponse maps a goal entity to a goal response DTO
func mapGoalToResponse(g *goal.Goal) GoalResponse {
	return GoalResponse{
		ID:            g.ID,
		Owner:         g.Owner.String(),
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		TargetDate:    g.TargetDate,
		Locked:        g.Locked,
		Completed:     g.Completed(),
		CreatedAt:     g.CreatedAt,
	}
}
