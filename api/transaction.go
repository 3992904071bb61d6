package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// TransactionHandler serves transaction CRUD and filtered listings
type TransactionHandler struct{}

// NewTransactionHandler creates a transaction handler
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// TransactionRequest is the create/update payload
type TransactionRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0" example:"42.50"`
	Description     string  `json:"description" binding:"required,min=2,max=255" example:"Weekly groceries"`
	TransactionDate string  `json:"transactionDate" binding:"required" example:"2024-01-15"`
	Type            string  `json:"type" binding:"required,oneof=INCOME EXPENSE" example:"EXPENSE"`
	CategoryID      uint    `json:"categoryId" binding:"required,gt=0" example:"5"`
	Notes           *string `json:"notes" binding:"omitempty,max=500" example:"Paid in cash"`
}

// CategoryView is the category shape embedded in transaction responses
type CategoryView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

// TransactionResponse is the API shape of a transaction: the joined
// category is embedded, never the bare foreign key alone.
type TransactionResponse struct {
	ID              uint         `json:"id"`
	Amount          float64      `json:"amount"`
	Description     string       `json:"description"`
	TransactionDate string       `json:"transactionDate"`
	Type            string       `json:"type"`
	Notes           *string      `json:"notes"`
	Category        CategoryView `json:"category"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Amount:          t.Amount,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.Format(dateLayout),
		Type:            t.Type,
		Notes:           t.Notes,
		Category: CategoryView{
			ID:    t.Category.ID,
			Name:  t.Category.Name,
			Type:  t.Category.Type,
			Color: t.Category.Color,
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTransactionResponses(ts []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for i := range ts {
		out = append(out, toTransactionResponse(&ts[i]))
	}
	return out
}

// hasTwoDecimalPlaces rejects amounts finer than currency precision
func hasTwoDecimalPlaces(amount float64) bool {
	scaled := amount * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

// validateTransactionInput runs the checks shared by create and update:
// currency precision, calendar date, and category visibility (owned or
// default). An unknown or foreign category id fails the same way.
func validateTransactionInput(c *gin.Context, userID uint, req *TransactionRequest) (time.Time, bool) {
	if !hasTwoDecimalPlaces(req.Amount) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "Amount", Message: "must have at most two decimal places"},
			},
		})
		return time.Time{}, false
	}

	txDate, err := time.ParseInLocation(dateLayout, req.TransactionDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "TransactionDate", Message: "must be a valid date in YYYY-MM-DD format"},
			},
		})
		return time.Time{}, false
	}

	var category models.Category
	if err := database.DB.
		Where("id = ? AND (user_id = ? OR is_default = ?)", req.CategoryID, userID, true).
		First(&category).Error; err != nil {
		BadRequest(c, "Invalid category")
		return time.Time{}, false
	}

	return txDate, true
}

// loadTransaction re-reads a row joined with its category fields
func loadTransaction(id, userID uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := database.DB.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// List returns the caller's transactions, newest first
// @Summary List transactions
// @Description Lists the caller's transactions ordered by transaction date then creation time, both descending. When both page and size are given, offset/limit pagination applies (1-based page); otherwise the full set is returned.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "1-based page number"
// @Param size query int false "page size"
// @Success 200 {array} TransactionResponse "transactions"
// @Failure 401 {object} ErrorResponse "unauthenticated"
// @Router /api/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Preload("Category").
		Where("user_id = ?", userID).
		Order("transaction_date DESC, created_at DESC")

	pageStr := c.Query("page")
	sizeStr := c.Query("size")
	if pageStr != "" && sizeStr != "" {
		page, errP := strconv.Atoi(pageStr)
		size, errS := strconv.Atoi(sizeStr)
		if errP != nil || errS != nil || page < 1 || size < 1 {
			BadRequest(c, "page and size must be positive integers")
			return
		}
		query = query.Offset((page - 1) * size).Limit(size)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to fetch transactions"))
		return
	}

	c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// Get returns one owned transaction
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} TransactionResponse "transaction"
// @Failure 404 {object} ErrorResponse "absent or not owned"
// @Router /api/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid transaction id")
		return
	}

	tx, err := loadTransaction(uint(id64), userID)
	if err != nil {
		NotFound(c, "Transaction not found")
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// Create stores a new transaction and returns the joined row
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "transaction payload"
// @Success 201 {object} TransactionResponse "created"
// @Failure 400 {object} ErrorResponse "validation failed or category not visible"
// @Router /api/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	txDate, ok := validateTransactionInput(c, userID, &req)
	if !ok {
		return
	}

	tx := models.Transaction{
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionDate: txDate,
		Type:            req.Type,
		CategoryID:      req.CategoryID,
		UserID:          userID,
		Notes:           req.Notes,
	}

	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create transaction"))
		return
	}

	created, err := loadTransaction(tx.ID, userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load created transaction"))
		return
	}

	c.JSON(http.StatusCreated, toTransactionResponse(created))
}

// Update replaces an owned transaction's fields
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Param request body TransactionRequest true "transaction payload"
// @Success 200 {object} TransactionResponse "updated"
// @Failure 400 {object} ErrorResponse "validation failed or category not visible"
// @Failure 404 {object} ErrorResponse "absent or not owned"
// @Router /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid transaction id")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id64), userID).First(&tx).Error; err != nil {
		NotFound(c, "Transaction not found")
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	txDate, ok := validateTransactionInput(c, userID, &req)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"amount":           req.Amount,
		"description":      req.Description,
		"transaction_date": txDate,
		"type":             req.Type,
		"category_id":      req.CategoryID,
		"notes":            req.Notes,
	}

	if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to update transaction"))
		return
	}

	updated, err := loadTransaction(tx.ID, userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load updated transaction"))
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(updated))
}

// Delete removes an owned transaction
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} map[string]string "deleted"
// @Failure 404 {object} ErrorResponse "absent or not owned"
// @Router /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid transaction id")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id64), userID).First(&tx).Error; err != nil {
		NotFound(c, "Transaction not found")
		return
	}

	if err := database.DB.Delete(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to delete transaction"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// ListByDateRange returns transactions inside an inclusive date window
// @Summary List transactions by date range
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param startDate query string true "start date (YYYY-MM-DD)"
// @Param endDate query string true "end date (YYYY-MM-DD)"
// @Success 200 {array} TransactionResponse "transactions"
// @Failure 400 {object} ErrorResponse "missing or malformed bounds"
// @Router /api/transactions/date-range [get]
func (h *TransactionHandler) ListByDateRange(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		BadRequest(c, "startDate and endDate are required")
		return
	}

	start, err := time.ParseInLocation(dateLayout, startStr, time.Local)
	if err != nil {
		BadRequest(c, "startDate must be a valid date in YYYY-MM-DD format")
		return
	}
	end, err := time.ParseInLocation(dateLayout, endStr, time.Local)
	if err != nil {
		BadRequest(c, "endDate must be a valid date in YYYY-MM-DD format")
		return
	}

	var transactions []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ? AND transaction_date >= ? AND transaction_date <= ?", userID, start, end).
		Order("transaction_date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to fetch transactions"))
		return
	}

	c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// ListByType returns the caller's transactions of one type
// @Summary List transactions by type
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type path string true "INCOME or EXPENSE"
// @Success 200 {array} TransactionResponse "transactions"
// @Failure 400 {object} ErrorResponse "invalid type"
// @Router /api/transactions/type/{type} [get]
func (h *TransactionHandler) ListByType(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	txType := c.Param("type")
	if !models.IsValidType(txType) {
		BadRequest(c, "Type must be INCOME or EXPENSE")
		return
	}

	var transactions []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ? AND type = ?", userID, txType).
		Order("transaction_date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to fetch transactions"))
		return
	}

	c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// ListByMonth returns the caller's transactions in one calendar month
// @Summary List transactions by month
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param year path int true "calendar year"
// @Param month path int true "month (1-12)"
// @Success 200 {array} TransactionResponse "transactions"
// @Failure 400 {object} ErrorResponse "invalid year or month"
// @Router /api/transactions/monthly/{year}/{month} [get]
func (h *TransactionHandler) ListByMonth(c *gin.Context) {
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

	var transactions []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ? AND YEAR(transaction_date) = ? AND MONTH(transaction_date) = ?", userID, year, month).
		Order("transaction_date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to fetch transactions"))
		return
	}

	c.JSON(http.StatusOK, toTransactionResponses(transactions))
}
