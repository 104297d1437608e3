package handler

import (
	"net/http"

	"budget-tracker/internal/ledger"
	"budget-tracker/internal/middleware"
	"budget-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// BudgetHandler serves the balance endpoints.
type BudgetHandler struct {
	Ledger *ledger.Service
}

func NewBudgetHandler(svc *ledger.Service) *BudgetHandler {
	return &BudgetHandler{Ledger: svc}
}

type setBudgetReq struct {
	UserID *uint    `json:"user_id"`
	Budget *float64 `json:"budget"`
}

func (h *BudgetHandler) SetBudget(c *gin.Context) {
	var req setBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.UserID == nil || req.Budget == nil {
		util.Message(c, http.StatusBadRequest, "User ID and budget are required")
		return
	}

	if err := h.Ledger.SetBudget(c.Request.Context(), *req.UserID, *req.Budget); err != nil {
		respondError(c, err)
		return
	}

	util.Message(c, http.StatusOK, "Budget updated successfully")
}

// GetUser returns {id, username, budget} for the account loaded by
// middleware.AccountLoader.
func (h *BudgetHandler) GetUser(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		util.Message(c, http.StatusNotFound, ledger.MsgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, account)
}
