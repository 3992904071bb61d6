package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSummaryRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	h := NewSummaryHandler()
	router.GET("/transactions/summary", h.Current)
	router.GET("/transactions/summary/:year/:month", h.ForMonth)
	return router
}

func expectMonthlySums(mock sqlmock.Sqlmock, userID uint, year, month int, income, expense float64) {
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WithArgs(userID, "INCOME", year, month).
		WillReturnRows(sqlmock.NewRows([]string{"COALESCE(SUM(amount), 0)"}).AddRow(income))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WithArgs(userID, "EXPENSE", year, month).
		WillReturnRows(sqlmock.NewRows([]string{"COALESCE(SUM(amount), 0)"}).AddRow(expense))
}

func TestSummaryHandler_ForMonth(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectMonthlySums(mock, 1, 2024, 1, 5000.00, 1234.56)

	router := newSummaryRouter(1)

	req := httptest.NewRequest("GET", "/transactions/summary/2024/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5000.00, resp.Income)
	assert.Equal(t, 1234.56, resp.Expense)
	assert.InDelta(t, 3765.44, resp.Balance, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryHandler_ForMonth_Empty(t *testing.T) {
	// a month with no rows yields zeros, not nulls
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectMonthlySums(mock, 1, 2023, 7, 0, 0)

	router := newSummaryRouter(1)

	req := httptest.NewRequest("GET", "/transactions/summary/2023/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"income":0,"expense":0,"balance":0}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryHandler_ForMonth_InvalidMonth(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := newSummaryRouter(1)

	req := httptest.NewRequest("GET", "/transactions/summary/2024/0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Month must be between 1 and 12")
}

func TestSummaryHandler_Current(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// the handler uses the wall clock, so match any year/month args
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(100.00))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(40.50))

	router := newSummaryRouter(1)

	req := httptest.NewRequest("GET", "/transactions/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 59.50, resp.Balance, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}
