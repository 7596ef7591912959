package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var ErrNoPermission = errors.New("you do not have permission")

// currentUserID pulls the authenticated user id placed on the context by
// the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
