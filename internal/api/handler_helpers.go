package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/device"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/response"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 401:
		resp = response.Unauthorized(msg)
	case 404:
		resp = response.NotFound(msg + ": " + err.Error())
	case 500:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

// HandleDeviceError logs the full failure server-side but keeps the
// client-visible detail generic outside debug mode.
func HandleDeviceError(c *gin.Context, app App, err error, msg string) {
	requestID := c.GetString("request_id")
	app.Logger().Errorf("[request_id=%s] %s: %v", requestID, msg, err)

	detail := msg
	var devErr *device.Error
	if app.Config().Debug && errors.As(err, &devErr) {
		detail = msg + ": " + devErr.Error()
	}
	c.JSON(500, response.InternalError(detail))
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Success", requestID)
	c.JSON(200, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Created", requestID)
	c.JSON(201, response.Success(data, nil))
}
