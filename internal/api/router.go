package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
)

const apiVersion = "1.0.0"

// BuildRouter wires every route. Register and login are the only
// unauthenticated endpoints besides the liveness probes.
func BuildRouter(app *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware(app.Config().CORSOrigins))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Anti-Snoring Pillow API",
			"version": apiVersion,
			"status":  "running",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	authGroup := r.Group("/auth")
	authGroup.POST("/register", PostRegister(app))
	authGroup.POST("/login", PostLogin(app))

	protected := auth.Middleware(app.JWT(), app.Users(), app.Logger())
	authGroup.POST("/logout", protected, PostLogout(app))
	authGroup.GET("/me", protected, GetMe(app))

	snore := r.Group("/snore", protected)
	snore.POST("/detect", PostDetect(app))
	snore.GET("/logs", GetSnoreLogs(app))
	snore.GET("/stats", GetSnoreStats(app))

	pump := r.Group("/pump", protected)
	pump.POST("/trigger", PostPumpTrigger(app))
	pump.GET("/logs", GetPumpLogs(app))
	pump.GET("/status", GetPumpStatus(app))

	autoDetect := r.Group("/auto-detect", protected)
	autoDetect.POST("/start", PostAutoDetectStart(app))
	autoDetect.POST("/stop", PostAutoDetectStop(app))
	autoDetect.GET("/status", GetAutoDetectStatus(app))
	autoDetect.POST("/simulate-detection", PostSimulateDetection(app))

	pillow := r.Group("/pillow", protected)
	pillow.POST("/level", PostPillowLevel(app))
	pillow.GET("/levels", GetPillowLevels(app))

	return r
}
