package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/notify"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data          interface{}            `json:"data,omitempty"`
	Error         *appErrors.Error       `json:"error,omitempty"`
	Notifications []notify.Notification  `json:"notifications,omitempty"`
	Meta          map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Outcome answers a provider/editor operation that reports success as a bool and explains
// itself through notifications. A failure takes its status from the first destructive
// notification's code, falling back to failStatus.
func Outcome(c *gin.Context, ok bool, data interface{}, notes []notify.Notification, failStatus int) {
	noStore(c)
	if ok {
		c.JSON(http.StatusOK, Envelope{Data: data, Notifications: notes})
		return
	}
	status, code, message := failStatus, codeFor(failStatus), "la operación no se pudo completar"
	for _, n := range notes {
		if n.Variant != notify.VariantDestructive {
			continue
		}
		message = n.Title
		if n.Description != "" {
			message = n.Description
		}
		if s, known := appErrors.StatusOf(n.Code); known {
			status, code = s, n.Code
		}
		break
	}
	c.JSON(status, Envelope{Data: data, Error: appErrors.New(code, status, message), Notifications: notes})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

func codeFor(status int) string {
	switch status {
	case http.StatusConflict:
		return appErrors.ErrConflict.Code
	case http.StatusBadRequest:
		return appErrors.ErrValidation.Code
	case http.StatusBadGateway:
		return appErrors.ErrUpstream.Code
	case http.StatusServiceUnavailable:
		return appErrors.ErrUnavailable.Code
	default:
		return appErrors.ErrInternal.Code
	}
}
