package handler

import (
	"errors"
	"net/http"

	"budget-tracker/internal/ledger"
	"budget-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgInvalidUserID = "Invalid user id"
	msgServerError   = "Internal server error"
)

// respondError maps a ledger error to its status code. Anything that is not
// a ledger error is recorded on the context and reported as a 500.
func respondError(c *gin.Context, err error) {
	var status int
	switch ledger.KindOf(err) {
	case ledger.KindValidation, ledger.KindConflict:
		status = http.StatusBadRequest
	case ledger.KindAuth:
		status = http.StatusUnauthorized
	case ledger.KindNotFound:
		status = http.StatusNotFound
	default:
		_ = c.Error(err)
		util.Message(c, http.StatusInternalServerError, msgServerError)
		return
	}

	var le *ledger.Error
	errors.As(err, &le)
	util.Message(c, status, le.Message)
}
