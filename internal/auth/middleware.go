package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/response"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/storage"
)

// Middleware validates the Authorization bearer token and loads the
// authenticated user into the context under "user". A user deleted
// after the token was issued is treated as unauthorized.
func Middleware(jwt *JWTManager, users storage.UserRepository, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			userID, err := jwt.Verify(token)
			if err == nil {
				user, err := users.GetUserByID(c.Request.Context(), userID)
				if err == nil {
					c.Set("user", user)
					c.Next()
					return
				}
				logger.Warnf("auth: token for unknown user %s", userID)
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized"))
	}
}

// CurrentUser pulls the user the middleware stored. Panics if the
// route was registered without the middleware, which is a wiring bug.
func CurrentUser(c *gin.Context) *internal.User {
	return c.MustGet("user").(*internal.User)
}
