package api

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// SummaryResponse holds the monthly income/expense/balance aggregate
type SummaryResponse struct {
	Income  float64 `json:"income" example:"5000.00"`
	Expense float64 `json:"expense" example:"1234.56"`
	Balance float64 `json:"balance" example:"3765.44"`
}

// SummaryHandler serves monthly aggregates
type SummaryHandler struct{}

// NewSummaryHandler creates a summary handler
func NewSummaryHandler() *SummaryHandler {
	return &SummaryHandler{}
}

func monthlySummary(userID uint, year, month int) (SummaryResponse, error) {
	var income, expense float64

	err := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND YEAR(transaction_date) = ? AND MONTH(transaction_date) = ?",
			userID, models.TypeIncome, year, month).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&income).Error
	if err != nil {
		return SummaryResponse{}, err
	}

	err = database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND YEAR(transaction_date) = ? AND MONTH(transaction_date) = ?",
			userID, models.TypeExpense, year, month).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&expense).Error
	if err != nil {
		return SummaryResponse{}, err
	}

	return SummaryResponse{
		Income:  income,
		Expense: expense,
		Balance: income - expense,
	}, nil
}

// Current returns the aggregate for the current calendar month
// @Summary Current-month summary
// @Description Income, expense and balance totals for the calling user in the current calendar month.
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SummaryResponse "aggregate"
// @Failure 401 {object} ErrorResponse "unauthenticated"
// @Router /api/transactions/summary [get]
func (h *SummaryHandler) Current(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	now := time.Now()
	summary, err := monthlySummary(userID, now.Year(), int(now.Month()))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to compute summary"))
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ForMonth returns the aggregate for an explicit year and month
// @Summary Monthly summary
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param year path int true "calendar year"
// @Param month path int true "month (1-12)"
// @Success 200 {object} SummaryResponse "aggregate"
// @Failure 400 {object} ErrorResponse "invalid year or month"
// @Router /api/transactions/summary/{year}/{month} [get]
func (h *SummaryHandler) ForMonth(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		BadRequest(c, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		BadRequest(c, "Month must be between 1 and 12")
		return
	}

	summary, err := monthlySummary(userID, year, month)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to compute summary"))
		return
	}

	c.JSON(http.StatusOK, summary)
}
