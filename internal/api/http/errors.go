package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser"
)

// notConnectedDetail is the detail text existing clients match on.
const notConnectedDetail = "Browser not connected"

// StatusFor maps a browser error kind to an HTTP status.
func StatusFor(err error) int {
	switch browser.KindOf(err) {
	case browser.KindNoActiveSession, browser.KindUnknownSite:
		return http.StatusBadRequest
	case browser.KindAlreadyConnected:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// detailFor returns the human readable error text for a response body.
func detailFor(err error) string {
	var be *browser.Error
	switch browser.KindOf(err) {
	case browser.KindNoActiveSession:
		return notConnectedDetail
	case browser.KindUnknownSite:
		if errors.As(err, &be) && be.Site != "" {
			return "Unsupported AI: " + be.Site
		}
	}
	return err.Error()
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	kind := browser.KindOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.String("kind", kind.String()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"detail": detailFor(err),
		"error":  kind.String(),
	})
}

func (h *Handlers) notConnected(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"detail": notConnectedDetail,
		"error":  browser.KindNoActiveSession.String(),
	})
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"detail": detail,
		"error":  "invalid_request",
	})
}
