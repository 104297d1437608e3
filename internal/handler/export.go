package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"budget-tracker/internal/ledger"
	"budget-tracker/internal/middleware"
	"budget-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Expenditures"

var exportHeaders = []string{"id", "amount", "date", "note"}

// ExportHandler downloads an account's expenditures as CSV or XLSX.
type ExportHandler struct {
	Ledger *ledger.Service
}

func NewExportHandler(svc *ledger.Service) *ExportHandler {
	return &ExportHandler{Ledger: svc}
}

// Export expects middleware.AccountLoader before it. ?format=csv (default)
// or ?format=xlsx.
func (h *ExportHandler) Export(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		util.Message(c, http.StatusNotFound, ledger.MsgUserNotFound)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		util.Message(c, http.StatusBadRequest, "Unsupported export format")
		return
	}

	items, err := h.Ledger.ListExpenditures(c.Request.Context(), account.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("expenditures_%d.%s", account.ID, format)
	if format == "xlsx" {
		h.writeXLSX(c, filename, items)
		return
	}
	h.writeCSV(c, filename, items)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (h *ExportHandler) writeCSV(c *gin.Context, filename string, items []ledger.Expenditure) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(exportHeaders)
	for _, e := range items {
		_ = writer.Write([]string{
			strconv.FormatUint(uint64(e.ID), 10),
			formatAmount(e.Amount),
			e.Date,
			e.Note,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = c.Error(err)
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, filename string, items []ledger.Expenditure) {
	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet instead of adding a second one
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		respondError(c, fmt.Errorf("rename sheet: %w", err))
		return
	}

	for i, name := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, name)
	}
	for idx, e := range items {
		row := idx + 2
		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), e.ID)
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), e.Amount)
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), e.Date)
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), e.Note)
	}

	f.SetColWidth(exportSheet, "A", "A", 8)
	f.SetColWidth(exportSheet, "B", "B", 12)
	f.SetColWidth(exportSheet, "C", "C", 12)
	f.SetColWidth(exportSheet, "D", "D", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		respondError(c, fmt.Errorf("write xlsx: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
