package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/service"
)

type pillowLevelRequest struct {
	// Pointer so a JSON 0 survives the required check.
	Level *int `json:"level" binding:"required"`
}

func PostPillowLevel(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var req pillowLevelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON: level required")
			return
		}

		resp, err := service.SetPillowLevel(c.Request.Context(), app.Device(), app.Logger(), user, *req.Level)
		if errors.Is(err, service.ErrInvalidPillowLevel) {
			HandleError(c, app.Logger(), err, 400, "Invalid level")
			return
		}
		if err != nil {
			HandleDeviceError(c, app, err, "Failed to set pillow level")
			return
		}

		HandleSuccess(c, app.Logger(), resp, map[string]any{
			"level":     *req.Level,
			"timestamp": time.Now().UTC(),
		})
	}
}

func GetPillowLevels(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), service.PillowLevels(), nil)
	}
}
