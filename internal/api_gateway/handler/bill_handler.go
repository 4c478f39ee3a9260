package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/remitwise-ledger/internal/api_gateway/middleware"
	"github.com/remitwise-ledger/internal/api_gateway/service"
	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/shared"
)

// BillHandler handles HTTP requests for obligation operations
type BillHandler struct {
	billService service.BillService
	logger      *slog.Logger
}

// NewBillHandler creates a new bill handler
func NewBillHandler(logger *slog.Logger, billService service.BillService) *BillHandler {
	return &BillHandler{
		billService: billService,
		logger:      logger,
	}
}

// parseRecordID parses a path identifier. Record identifiers are positive
// integers assigned by the store.
func parseRecordID(c *gin.Context) (int64, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(c, "Invalid record ID")
		return 0, false
	}
	return id, true
}

// Create records a new obligation for the acting principal
func (h *BillHandler) Create(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acting := middleware.GetActingPrincipal(c)
	b, err := h.billService.CreateBill(c.Request.Context(), acting, shared.Principal(req.Owner), req.Name, req.Amount, req.DueDate, req.Recurring, req.FrequencyDays)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapBillToResponse(b))
}

// Settle marks a bill paid; recurring bills spawn their next occurrence
func (h *BillHandler) Settle(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	acting := middleware.GetActingPrincipal(c)
	b, successorID, err := h.billService.SettleBill(c.Request.Context(), acting, id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, SettleBillResponse{
		Bill:        mapBillToResponse(b),
		SuccessorID: successorID,
	})
}

// SettleBatch settles several bills in one all-or-nothing call
func (h *BillHandler) SettleBatch(c *gin.Context) {
	var req BatchSettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acting := middleware.GetActingPrincipal(c)
	settled, err := h.billService.SettleBills(c.Request.Context(), acting, req.BillIDs)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapBillsToListResponse(settled))
}

// Cancel removes a bill outright
func (h *BillHandler) Cancel(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	if err := h.billService.CancelBill(c.Request.Context(), id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondNoContent(c)
}

// GetByID retrieves a bill by its identifier
func (h *BillHandler) GetByID(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	b, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapBillToResponse(b))
}

// List returns every bill across owners
func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.billService.ListBills(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapBillsToListResponse(bills))
}

// UnpaidByOwner returns the owner's open bills
func (h *BillHandler) UnpaidByOwner(c *gin.Context) {
	owner := shared.Principal(c.Param("owner"))

	bills, err := h.billService.UnpaidByOwner(c.Request.Context(), owner)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapBillsToListResponse(bills))
}

// TotalUnpaidByOwner sums the owner's open bill amounts
func (h *BillHandler) TotalUnpaidByOwner(c *gin.Context) {
	owner := shared.Principal(c.Param("owner"))

	total, err := h.billService.TotalUnpaidByOwner(c.Request.Context(), owner)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, TotalResponse{Total: total})
}

// Overdue returns open bills strictly past their due date
func (h *BillHandler) Overdue(c *gin.Context) {
	bills, err := h.billService.Overdue(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapBillsToListResponse(bills))
}

// Stats returns the active-count and unpaid-total snapshot
func (h *BillHandler) Stats(c *gin.Context) {
	stats, err := h.billService.Stats(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, stats)
}

// mapBillToResponse maps a bill entity to a bill response DTO
func mapBillToResponse(b *bill.Bill) BillResponse {
	return BillResponse{
		ID:            b.ID,
		Owner:         b.Owner.String(),
		Name:          b.Name,
		Amount:        b.Amount,
		DueDate:       b.DueDate,
		Recurring:     b.Recurring,
		FrequencyDays: b.FrequencyDays,
		Paid:          b.Paid,
		CreatedAt:     b.CreatedAt,
		PaidAt:        b.PaidAt,
	}
}

func mapBillsToListResponse(bills []*bill.Bill) BillListResponse {
	resp := BillListResponse{Bills: make([]BillResponse, 0, len(bills))}
	for _, b := range bills {
		resp.Bills = append(resp.Bills, mapBillToResponse(b))
	}
	return resp
}
