package api

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CategoryHandler serves category CRUD for the authenticated user
type CategoryHandler struct{}

// NewCategoryHandler creates a category handler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryRequest is the create/update payload
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100" example:"Groceries"`
	Description string `json:"description" binding:"omitempty,max=255" example:"Weekly shopping"`
	Type        string `json:"type" binding:"required,oneof=INCOME EXPENSE" example:"EXPENSE"`
	Color       string `json:"color" binding:"omitempty" example:"#FF6B6B"`
}

// List returns every category visible to the caller
// @Summary List categories
// @Description Returns the caller's categories together with the system defaults, ordered by name.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category "categories"
// @Failure 401 {object} ErrorResponse "unauthenticated"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var categories []models.Category
	if err := database.DB.
		Where("user_id = ? OR is_default = ?", userID, true).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to fetch categories"))
		return
	}

	c.JSON(http.StatusOK, categories)
}

// ListByType returns visible categories of one type
// @Summary List categories by type
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type path string true "INCOME or EXPENSE"
// @Success 200 {array} models.Category "categories"
// @Failure 400 {object} ErrorResponse "invalid type"
// @Router /api/categories/type/{type} [get]
func (h *CategoryHandler) ListByType(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	catType := strings.ToUpper(c.Param("type"))
	if !models.IsValidType(catType) {
		BadRequest(c, "Type must be INCOME or EXPENSE")
		return
	}

	var categories []models.Category
	if err := database.DB.
		Where("(user_id = ? OR is_default = ?) AND type = ?", userID, true, catType).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to fetch categories"))
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Create stores a new user-owned category
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "category payload"
// @Success 201 {object} models.Category "created"
// @Failure 400 {object} ErrorResponse "validation failed"
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	color := req.Color
	if color == "" {
		color = models.DefaultCategoryColor
	} else if !colorPattern.MatchString(color) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "Color", Message: "must be a 6-digit hex color such as #FF6B6B"},
			},
		})
		return
	}

	category := models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Type:        req.Type,
		Color:       color,
		UserID:      &userID,
		IsDefault:   false,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create category"))
		return
	}

	c.JSON(http.StatusCreated, category)
}

// findOwnedCategory loads a category and checks that the caller may mutate
// it. Default categories and other users' categories are off limits.
func findOwnedCategory(c *gin.Context, userID uint) (*models.Category, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid category id")
		return nil, false
	}

	var category models.Category
	if err := database.DB.First(&category, uint(id64)).Error; err != nil {
		NotFound(c, "Category not found")
		return nil, false
	}

	if category.IsDefault || category.UserID == nil || *category.UserID != userID {
		Forbidden(c, "Cannot modify this category")
		return nil, false
	}

	return &category, true
}

// Update modifies an owned, non-default category
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body CategoryRequest true "category payload"
// @Success 200 {object} models.Category "updated"
// @Failure 400 {object} ErrorResponse "validation failed"
// @Failure 403 {object} ErrorResponse "default or foreign category"
// @Failure 404 {object} ErrorResponse "unknown id"
// @Router /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	category, ok := findOwnedCategory(c, userID)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	// Omitted color keeps the stored value
	color := req.Color
	if color == "" {
		color = category.Color
	} else if !colorPattern.MatchString(color) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "Color", Message: "must be a 6-digit hex color such as #FF6B6B"},
			},
		})
		return
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"description": req.Description,
		"type":        req.Type,
		"color":       color,
	}

	if err := database.DB.Model(category).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to update category"))
		return
	}

	database.DB.First(category, category.ID)
	c.JSON(http.StatusOK, category)
}

// Delete removes an owned, non-default, unreferenced category
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} map[string]string "deleted"
// @Failure 400 {object} ErrorResponse "category still referenced"
// @Failure 403 {object} ErrorResponse "default or foreign category"
// @Failure 404 {object} ErrorResponse "unknown id"
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	category, ok := findOwnedCategory(c, userID)
	if !ok {
		return
	}

	var refs int64
	if err := database.DB.Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).
		Count(&refs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to check category references"))
		return
	}
	if refs > 0 {
		BadRequest(c, "Cannot delete category with existing transactions")
		return
	}

	if err := database.DB.Delete(category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to delete category"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
