package handler

import (
	"net/http"

	"budget-tracker/internal/ledger"
	"budget-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Ledger *ledger.Service
}

func NewAuthHandler(svc *ledger.Service) *AuthHandler {
	return &AuthHandler{Ledger: svc}
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ---------- register ----------

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsReq
	// an empty or unreadable body is the same as missing fields
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, ledger.MsgCredentialsRequired)
		return
	}

	id, err := h.Ledger.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	util.MessageWith(c, http.StatusCreated, "User registered successfully", util.Response{
		"user_id": id,
	})
}

// ---------- login ----------

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusUnauthorized, ledger.MsgInvalidCredentials)
		return
	}

	id, err := h.Ledger.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	util.MessageWith(c, http.StatusOK, "Login successful", util.Response{
		"user_id": id,
	})
}
