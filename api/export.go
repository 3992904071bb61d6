package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler serves transaction exports
type ExportHandler struct{}

// NewExportHandler creates an export handler
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// queryExportRange parses the bounds and loads the caller's transactions
// in the inclusive window, joined with their categories.
func queryExportRange(c *gin.Context) ([]models.Transaction, string, string, bool) {
	userID := middleware.GetCurrentUserID(c)

	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		BadRequest(c, "startDate and endDate are required")
		return nil, "", "", false
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "startDate must be a valid date in YYYY-MM-DD format")
		return nil, "", "", false
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "endDate must be a valid date in YYYY-MM-DD format")
		return nil, "", "", false
	}

	var transactions []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ? AND transaction_date >= ? AND transaction_date <= ?", userID, start, end).
		Order("transaction_date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to fetch transactions"))
		return nil, "", "", false
	}

	return transactions, startStr, endStr, true
}

// ExportCSV exports a date range of transactions as a CSV attachment
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param startDate query string true "start date (YYYY-MM-DD)"
// @Param endDate query string true "end date (YYYY-MM-DD)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponse "missing or malformed bounds"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	transactions, startStr, endStr, ok := queryExportRange(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Date", "Type", "Amount", "Description", "Category", "Notes"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	for _, tx := range transactions {
		notes := ""
		if tx.Notes != nil {
			notes = *tx.Notes
		}
		row := []string{
			fmt.Sprintf("%d", tx.ID),
			tx.TransactionDate.Format("2006-01-02"),
			tx.Type,
			fmt.Sprintf("%.2f", tx.Amount),
			tx.Description,
			tx.Category.Name,
			notes,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", startStr, endStr)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON exports a date range of transactions as JSON with totals
// @Summary Export transactions as JSON
// @Tags export
// @Produce json
// @Security BearerAuth
// @Param startDate query string true "start date (YYYY-MM-DD)"
// @Param endDate query string true "end date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{} "export payload"
// @Failure 400 {object} ErrorResponse "missing or malformed bounds"
// @Router /api/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	transactions, startStr, endStr, ok := queryExportRange(c)
	if !ok {
		return
	}

	var totalIncome, totalExpense float64
	for _, tx := range transactions {
		if tx.Type == models.TypeIncome {
			totalIncome += tx.Amount
		} else {
			totalExpense += tx.Amount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"startDate":    startStr,
		"endDate":      endStr,
		"totalCount":   len(transactions),
		"totalIncome":  totalIncome,
		"totalExpense": totalExpense,
		"transactions": toTransactionResponses(transactions),
	})
}

// ExportExcel exports a date range of transactions as an xlsx workbook
// @Summary Export transactions as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param startDate query string true "start date (YYYY-MM-DD)"
// @Param endDate query string true "end date (YYYY-MM-DD)"
// @Success 200 {file} file "xlsx file"
// @Failure 400 {object} ErrorResponse "missing or malformed bounds"
// @Router /api/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	transactions, startStr, endStr, ok := queryExportRange(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 20)
	f.SetColWidth(sheetName, "G", "G", 30)

	headers := []string{"ID", "Date", "Type", "Amount", "Description", "Category", "Notes"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var balance float64
	for i, tx := range transactions {
		row := i + 2
		notes := ""
		if tx.Notes != nil {
			notes = *tx.Notes
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.TransactionDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tx.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tx.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tx.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), tx.Category.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), notes)

		if tx.Type == models.TypeIncome {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
	}

	summaryRow := len(transactions) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Balance")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), balance)
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("%d records", len(transactions)))

	filename := fmt.Sprintf("transactions_%s_%s.xlsx", startStr, endStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Failed to generate Excel file")
		return
	}
}
