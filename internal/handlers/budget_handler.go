package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgettracker/internal/domain"
	"budgettracker/internal/pagination"
	"budgettracker/internal/services"
)

// BudgetHandler handles monthly summaries and budget limits.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
	clock         domain.Clock
}

// NewBudgetHandler creates a new BudgetHandler. A nil clock means the
// system clock; it decides the default month.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer, clock domain.Clock) *BudgetHandler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &BudgetHandler{budgetService: budgetService, auditService: auditService, clock: clock}
}

// MonthQuery selects a month; empty means the current one.
type MonthQuery struct {
	Month string `form:"month" binding:"omitempty,month_key"`
}

// BudgetLimitRequest sets the spending limit of a category for a month.
type BudgetLimitRequest struct {
	CategoryID uint            `json:"category_id" binding:"required"`
	Month      string          `json:"month" binding:"required"`
	Limit      decimal.Decimal `json:"limit"`
}

func (h *BudgetHandler) month(q MonthQuery) domain.MonthKey {
	if q.Month == "" {
		return domain.MonthOf(h.clock.Now())
	}
	return domain.MonthKey(q.Month)
}

// GetMonthlySummary aggregates a month
// @Summary     Monthly summary
// @Description Totals, savings rate and per-category breakdown with budget usage
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (yyyy-MM), defaults to the current month"
// @Success     200 {object} domain.MonthlySummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/summary [get]
func (h *BudgetHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	summary, err := h.budgetService.GetMonthlySummary(c.Request.Context(), userID, h.month(q))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SetBudgetLimit creates or updates a limit
// @Summary     Set a budget limit
// @Description Create the limit for (category, month) or replace its amount
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetLimitRequest true "Limit"
// @Success     200 {object} models.BudgetLimit "Limit updated"
// @Success     201 {object} models.BudgetLimit "Limit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     422 {object} ErrorResponse "Invalid month or amount"
// @Router      /budget/limits [put]
func (h *BudgetHandler) SetBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	limit, created, err := h.budgetService.SetBudgetLimit(ctx, userID, req.CategoryID, req.Month, req.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "SET_BUDGET_LIMIT", "budget_limit", limit.ID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID, "month": req.Month, "limit": req.Limit.String()})

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"budget_limit": limit})
}

// GetBudgetLimits lists a month's limits
// @Summary     List budget limits
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       month     query string false "Month (yyyy-MM), defaults to the current month"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BudgetLimit] "Paginated limits"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget/limits [get]
func (h *BudgetHandler) GetBudgetLimits(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.budgetService.GetBudgetLimits(c.Request.Context(), userID, h.month(q), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteBudgetLimit removes a limit
// @Summary     Delete a budget limit
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget limit ID"
// @Success     204 "Limit deleted"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Budget limit not found"
// @Router      /budget/limits/{id} [delete]
func (h *BudgetHandler) DeleteBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.budgetService.DeleteBudgetLimit(ctx, userID, limitID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, "DELETE_BUDGET_LIMIT", "budget_limit", limitID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
