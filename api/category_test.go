package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func categoryColumns() []string {
	return []string{"id", "name", "description", "type", "color", "user_id", "is_default", "created_at", "updated_at", "deleted_at"}
}

func categoryRow(rows *sqlmock.Rows, id uint, name, catType, color string, userID interface{}, isDefault bool) *sqlmock.Rows {
	return rows.AddRow(id, name, "", catType, color, userID, isDefault, time.Now(), time.Now(), nil)
}

func TestCategoryHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(categoryColumns())
	categoryRow(rows, 1, "Food & Dining", "EXPENSE", "#FF6B6B", nil, true)
	categoryRow(rows, 20, "Gym", "EXPENSE", "#45B7D1", uint(1), false)
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(uint(1), true).
		WillReturnRows(rows)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/categories", NewCategoryHandler().List)

	req := httptest.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Food & Dining", resp[0]["name"])
	assert.Equal(t, true, resp[0]["is_default"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_ListByType_Invalid(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/categories/type/:type", NewCategoryHandler().ListByType)

	req := httptest.NewRequest("GET", "/categories/type/SAVINGS", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "INCOME or EXPENSE")
}

func TestCategoryHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/categories", NewCategoryHandler().Create)

	// color omitted, falls back to the fixed default swatch
	body := `{"name":"Gym","type":"EXPENSE"}`
	req := httptest.NewRequest("POST", "/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Gym", resp["name"])
	assert.Equal(t, "#FF6B6B", resp["color"])
	assert.Equal(t, false, resp["is_default"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Create_InvalidColor(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/categories", NewCategoryHandler().Create)

	body := `{"name":"Gym","type":"EXPENSE","color":"red"}`
	req := httptest.NewRequest("POST", "/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "Color", resp.Details[0].Field)
}

func TestCategoryHandler_Update_DefaultForbidden(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(categoryColumns())
	categoryRow(rows, 1, "Food & Dining", "EXPENSE", "#FF6B6B", nil, true)
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(rows)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/categories/:id", NewCategoryHandler().Update)

	body := `{"name":"Renamed","type":"EXPENSE"}`
	req := httptest.NewRequest("PUT", "/categories/1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot modify this category")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Update_ForeignForbidden(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// owned by user 2, caller is user 1
	rows := sqlmock.NewRows(categoryColumns())
	categoryRow(rows, 30, "Their Category", "EXPENSE", "#AABBCC", uint(2), false)
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(rows)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/categories/:id", NewCategoryHandler().Update)

	body := `{"name":"Renamed","type":"EXPENSE"}`
	req := httptest.NewRequest("PUT", "/categories/30", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Update_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/categories/:id", NewCategoryHandler().Update)

	body := `{"name":"Renamed","type":"EXPENSE"}`
	req := httptest.NewRequest("PUT", "/categories/999", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Update(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(categoryColumns())
	categoryRow(rows, 20, "Gym", "EXPENSE", "#45B7D1", uint(1), false)
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// refreshed row, color kept because it was omitted
	refreshed := sqlmock.NewRows(categoryColumns())
	categoryRow(refreshed, 20, "Fitness", "EXPENSE", "#45B7D1", uint(1), false)
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(refreshed)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/categories/:id", NewCategoryHandler().Update)

	body := `{"name":"Fitness","type":"EXPENSE"}`
	req := httptest.NewRequest("PUT", "/categories/20", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Fitness", resp["name"])
	assert.Equal(t, "#45B7D1", resp["color"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Delete_Referenced(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(categoryColumns())
	categoryRow(rows, 20, "Gym", "EXPENSE", "#45B7D1", uint(1), false)
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(rows)

	mock.ExpectQuery("SELECT count.* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/categories/:id", NewCategoryHandler().Delete)

	req := httptest.NewRequest("DELETE", "/categories/20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "existing transactions")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(categoryColumns())
	categoryRow(rows, 20, "Gym", "EXPENSE", "#45B7D1", uint(1), false)
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(rows)

	mock.ExpectQuery("SELECT count.* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/categories/:id", NewCategoryHandler().Delete)

	req := httptest.NewRequest("DELETE", "/categories/20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
