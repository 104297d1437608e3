package middleware

import (
	"errors"
	"net/http"

	"budget-tracker/internal/ledger"
	"budget-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

const currentAccountKey = "currentAccount"

// AccountLoader resolves the :user_id path parameter to an account and
// stores it in the context. Unknown ids are answered with 404.
func AccountLoader(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := util.ParseID(c.Param("user_id"))
		if err != nil {
			util.Abort(c, http.StatusBadRequest, "Invalid user id")
			return
		}

		account, err := svc.GetAccount(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				util.Abort(c, http.StatusNotFound, ledger.MsgUserNotFound)
			} else {
				_ = c.Error(err)
				util.Abort(c, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		c.Set(currentAccountKey, account)
		c.Next()
	}
}

// CurrentAccount returns the account loaded by AccountLoader.
func CurrentAccount(c *gin.Context) (*ledger.Account, bool) {
	v, ok := c.Get(currentAccountKey)
	if !ok {
		return nil, false
	}
	account, ok := v.(*ledger.Account)
	return account, ok && account != nil
}
