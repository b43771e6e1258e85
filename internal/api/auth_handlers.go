package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/service"
)

func PostRegister(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateRegisterRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		token, err := service.Register(c.Request.Context(), app.Users(), app.JWT(), &req)
		if errors.Is(err, service.ErrEmailTaken) {
			HandleError(c, app.Logger(), err, 400, "Email already registered")
			return
		}
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to register user")
			return
		}
		HandleCreated(c, app.Logger(), token)
	}
}

func PostLogin(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateLoginRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		token, err := service.Login(c.Request.Context(), app.Users(), app.JWT(), &req)
		if errors.Is(err, service.ErrBadCredentials) {
			HandleError(c, app.Logger(), err, 401, "Incorrect email or password")
			return
		}
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to log in")
			return
		}
		HandleSuccess(c, app.Logger(), token, nil)
	}
}

// PostLogout exists for client symmetry: JWTs are discarded
// client-side, the server only acknowledges.
func PostLogout(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		app.Logger().Infof("auth: user %s logged out", user.Email)
		HandleSuccess(c, app.Logger(), nil, map[string]any{"message": "Successfully logged out"})
	}
}

func GetMe(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), auth.CurrentUser(c), nil)
	}
}
