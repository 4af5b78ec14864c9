package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// IdentityHeader carries the caller's user id on every business request.
const IdentityHeader = "X-User-ID"

const ownerKey = "owner_id"

// RequireIdentity rejects requests without an identity header. There is no
// account system; whoever presents a user id owns that id's data.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetHeader(IdentityHeader)
		if ownerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "missing " + IdentityHeader + " header",
			})
			return
		}
		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner id set by RequireIdentity.
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}

// respondError maps a domain error onto an HTTP status and a {message} body.
func respondError(c *gin.Context, err error) {
	message := "internal error"
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(domainErrors.HTTPStatus(err), gin.H{
		"message": message,
		"code":    string(domainErrors.Code(err)),
	})
}
