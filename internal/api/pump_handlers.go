package api

import (
	"github.com/gin-gonic/gin"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/service"
)

// PostPumpTrigger runs the pump manually. A device failure here is a
// request failure, unlike the detection path.
func PostPumpTrigger(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var req service.PumpTriggerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON: duration required")
			return
		}
		if err := service.ValidatePumpTriggerRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		result, err := service.TriggerPump(c.Request.Context(), app.PumpLogs(), app.Device(), app.Logger(), user, req.Duration)
		if err != nil {
			HandleDeviceError(c, app, err, "Failed to trigger pump")
			return
		}
		HandleSuccess(c, app.Logger(), result, nil)
	}
}

func GetPumpLogs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		limit, offset := pagination(c)

		logs, err := app.PumpLogs().ListPumpLogs(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch pump logs")
			return
		}
		HandleSuccess(c, app.Logger(), logs, map[string]any{"limit": limit, "offset": offset})
	}
}

// GetPumpStatus proxies the device's status payload verbatim.
func GetPumpStatus(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := app.Device().PumpStatus(c.Request.Context())
		if err != nil {
			HandleDeviceError(c, app, err, "Failed to get pump status")
			return
		}
		HandleSuccess(c, app.Logger(), status, nil)
	}
}
