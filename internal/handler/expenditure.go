package handler

import (
	"net/http"

	"budget-tracker/internal/ledger"
	"budget-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// ExpenditureHandler serves the expenditure log endpoints.
type ExpenditureHandler struct {
	Ledger *ledger.Service
}

func NewExpenditureHandler(svc *ledger.Service) *ExpenditureHandler {
	return &ExpenditureHandler{Ledger: svc}
}

type addExpenditureReq struct {
	UserID *uint    `json:"user_id"`
	Amount *float64 `json:"amount"`
	Date   string   `json:"date"`
	Note   string   `json:"note"`
}

func (h *ExpenditureHandler) AddExpenditure(c *gin.Context) {
	var req addExpenditureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.UserID == nil || req.Amount == nil {
		util.Message(c, http.StatusBadRequest, "User ID and amount are required")
		return
	}

	if _, err := h.Ledger.AddExpenditure(c.Request.Context(), *req.UserID, *req.Amount, req.Date, req.Note); err != nil {
		respondError(c, err)
		return
	}

	util.Message(c, http.StatusCreated, "Expenditure added successfully")
}

// ListExpenditures never returns 404: an unknown user simply has no rows.
func (h *ExpenditureHandler) ListExpenditures(c *gin.Context) {
	id, err := util.ParseID(c.Param("user_id"))
	if err != nil {
		util.Message(c, http.StatusBadRequest, msgInvalidUserID)
		return
	}

	items, err := h.Ledger.ListExpenditures(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
