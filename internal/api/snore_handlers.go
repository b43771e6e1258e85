package api

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/service"
)

// PostDetect ingests an audio sample, runs the detector and reacts.
// The upload must carry an audio/* content type; anything else is
// rejected before any side effect.
func PostDetect(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		if !strings.HasPrefix(c.ContentType(), "audio/") {
			HandleError(c, app.Logger(), errors.New("content type must be audio/*"), 400, "Invalid file type")
			return
		}

		audio, err := io.ReadAll(c.Request.Body)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Failed to read audio payload")
			return
		}

		result, err := service.RunDetection(
			c.Request.Context(),
			app.SnoreLogs(), app.PumpLogs(),
			app.Detector(), app.Device(), app.Logger(),
			user, audio,
		)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to process detection")
			return
		}
		HandleSuccess(c, app.Logger(), result, nil)
	}
}

func GetSnoreLogs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		limit, offset := pagination(c)

		logs, err := app.SnoreLogs().ListSnoreLogs(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch snore logs")
			return
		}
		HandleSuccess(c, app.Logger(), logs, map[string]any{"limit": limit, "offset": offset})
	}
}

func GetSnoreStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		stats, err := app.SnoreLogs().SnoreStats(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to aggregate snore stats")
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
