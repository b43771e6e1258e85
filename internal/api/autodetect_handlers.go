package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/service"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/session"
)

// PostAutoDetectStart enables auto-detection for the current user.
// Starting while already running overwrites the delay.
func PostAutoDetectStart(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		delay := session.DefaultDelayMinutes
		if v, err := strconv.Atoi(c.DefaultQuery("delay_minutes", "5")); err == nil && v > 0 {
			delay = v
		}

		state := app.Sessions().Start(user.ID, delay)
		app.Logger().Infof("auto-detect: enabled for user %s (delay %dm)", user.Email, state.DelayMinutes)
		HandleSuccess(c, app.Logger(), state, map[string]any{
			"message": "Auto detection enabled for " + user.Email,
		})
	}
}

func PostAutoDetectStop(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		state := app.Sessions().Stop(user.ID)
		app.Logger().Infof("auto-detect: disabled by user %s", user.Email)
		HandleSuccess(c, app.Logger(), state, map[string]any{
			"message": "Auto detection disabled",
		})
	}
}

func GetAutoDetectStatus(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		state := app.Sessions().Status(user.ID)
		HandleSuccess(c, app.Logger(), state, map[string]any{"user_id": user.ID})
	}
}

// PostSimulateDetection records a canned detection and attempts the
// pump, for exercising the full flow without audio or a microphone.
func PostSimulateDetection(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		result, err := service.SimulateDetection(
			c.Request.Context(),
			app.SnoreLogs(), app.PumpLogs(),
			app.Device(), app.Logger(), user,
		)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to simulate detection")
			return
		}
		HandleSuccess(c, app.Logger(), result, nil)
	}
}
