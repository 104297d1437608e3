package util

import (
	"github.com/gin-gonic/gin"
)

// Response is a loosely typed JSON object body.
type Response map[string]interface{}

// Message writes {"message": msg} with the given status.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"message": msg,
	})
}

// MessageWith writes {"message": msg} merged with extra fields.
func MessageWith(c *gin.Context, status int, msg string, extra Response) {
	body := gin.H{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// Abort writes {"message": msg} and stops the handler chain.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"message": msg,
	})
}
