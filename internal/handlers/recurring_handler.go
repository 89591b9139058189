package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgettracker/internal/domain"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/services"
)

// RecurringHandler handles recurring templates and the materialization trigger.
type RecurringHandler struct {
	recurringService services.RecurringServicer
	auditService     services.AuditServicer
	clock            domain.Clock
}

// NewRecurringHandler creates a new RecurringHandler. A nil clock means the
// system clock; it decides the default month of the trigger.
func NewRecurringHandler(recurringService services.RecurringServicer, auditService services.AuditServicer, clock domain.Clock) *RecurringHandler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &RecurringHandler{recurringService: recurringService, auditService: auditService, clock: clock}
}

// RecurringRequest is the payload for a new template. Without end_date the
// template repeats indefinitely.
type RecurringRequest struct {
	CategoryID  uint            `json:"category_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Frequency   string          `json:"frequency" binding:"frequency"`
	StartDate   string          `json:"start_date" binding:"required"`
	EndDate     string          `json:"end_date"`
}

func (r RecurringRequest) input() (services.RecurringInput, error) {
	txType, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		return services.RecurringInput{}, err
	}
	frequency, err := domain.ParseFrequency(r.Frequency)
	if err != nil {
		return services.RecurringInput{}, err
	}
	start, err := parseDate(r.StartDate)
	if err != nil {
		return services.RecurringInput{}, err
	}
	var end *time.Time
	if r.EndDate != "" {
		e, err := parseDate(r.EndDate)
		if err != nil {
			return services.RecurringInput{}, err
		}
		end = &e
	}
	return services.RecurringInput{
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Type:        txType,
		Description: r.Description,
		Frequency:   frequency,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// CreateRecurring creates a template
// @Summary     Create a recurring template
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecurringRequest true "Template details"
// @Success     201 {object} models.RecurringTransaction "Template created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     422 {object} ErrorResponse "Business rule violation"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	template, err := h.recurringService.CreateRecurring(ctx, userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "CREATE_RECURRING", "recurring_transaction", template.ID, c.ClientIP(),
		map[string]interface{}{"amount": in.Amount.String(), "frequency": in.Frequency, "category_id": in.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"recurring_transaction": template})
}

// GetRecurring lists templates
// @Summary     List recurring templates
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.RecurringTransaction] "Paginated templates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recurring [get]
func (h *RecurringHandler) GetRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.recurringService.GetRecurring(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecurringByID returns one template
// @Summary     Get a recurring template
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Template ID"
// @Success     200 {object} models.RecurringTransaction "Template"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /recurring/{id} [get]
func (h *RecurringHandler) GetRecurringByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	template, err := h.recurringService.GetRecurringByID(c.Request.Context(), userID, recurringID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_transaction": template})
}

// DeactivateRecurring stops a template
// @Summary     Deactivate a recurring template
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Template ID"
// @Success     200 {object} models.RecurringTransaction "Template"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /recurring/{id}/deactivate [post]
func (h *RecurringHandler) DeactivateRecurring(c *gin.Context) {
	h.toggle(c, "DEACTIVATE_RECURRING", h.recurringService.DeactivateRecurring)
}

// ReactivateRecurring resumes a template
// @Summary     Reactivate a recurring template
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Template ID"
// @Success     200 {object} models.RecurringTransaction "Template"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /recurring/{id}/reactivate [post]
func (h *RecurringHandler) ReactivateRecurring(c *gin.Context) {
	h.toggle(c, "REACTIVATE_RECURRING", h.recurringService.ReactivateRecurring)
}

func (h *RecurringHandler) toggle(c *gin.Context, action string, apply func(ctx context.Context, userID, recurringID uint) (*models.RecurringTransaction, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	template, err := apply(ctx, userID, recurringID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, action, "recurring_transaction", recurringID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"recurring_transaction": template})
}

// DeleteRecurring removes a template
// @Summary     Delete a recurring template
// @Description Already generated transactions are kept as manual transactions
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Template ID"
// @Success     204 "Template deleted"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.recurringService.DeleteRecurring(ctx, userID, recurringID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "DELETE_RECURRING", "recurring_transaction", recurringID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// ProcessMonth materializes due templates
// @Summary     Process recurring templates
// @Description Generate the month's transactions for every active template. Safe to repeat.
// @Tags        internal
// @Produce     json
// @Security    ApiKeyAuth
// @Param       month query string false "Month (yyyy-MM), defaults to the current month"
// @Success     200 {object} services.ProcessResult "Run summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/recurring/process [post]
func (h *RecurringHandler) ProcessMonth(c *gin.Context) {
	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	month := domain.MonthOf(h.clock.Now())
	if q.Month != "" {
		month = domain.MonthKey(q.Month)
	}

	result, err := h.recurringService.ProcessMonth(c.Request.Context(), month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("recurring trigger completed",
		"month", month,
		"created", result.Created,
		"client_ip", c.ClientIP(),
	)
	c.JSON(http.StatusOK, result)
}
