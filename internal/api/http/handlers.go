package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/driver"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/session"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/site"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/shared/utils"
)

// Service identity reported by the root endpoint.
const (
	ServiceName    = "TerminAI MCP Server"
	ServiceVersion = "1.0.0"
)

// Session is the part of the session manager the handlers use.
type Session interface {
	Connect(ctx context.Context, debugPort int) (session.Info, error)
	IsConnected() bool
	Info() (session.Info, bool)
	Close()
}

// Asker runs page operations on the connected session.
type Asker interface {
	Ask(ctx context.Context, siteID, question string, opts driver.AskOptions) (driver.Answer, error)
	SwitchSite(ctx context.Context, siteID string) error
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	session        Session
	driver         Asker
	sites          *site.Registry
	logger         *zap.Logger
	debugPort      int
	connectTimeout time.Duration
	now            func() time.Time
}

// Options configures Handlers.
type Options struct {
	// DebugPort is used by /init when the caller gives none.
	DebugPort int
	// ConnectTimeout bounds /init. Zero means the request context only.
	ConnectTimeout time.Duration
	Logger         *zap.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(sess Session, asker Asker, sites *site.Registry, opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	port := opts.DebugPort
	if port == 0 {
		port = session.DefaultDebugPort
	}
	return &Handlers{
		session:        sess,
		driver:         asker,
		sites:          sites,
		logger:         logger,
		debugPort:      port,
		connectTimeout: opts.ConnectTimeout,
		now:            time.Now,
	}
}

// Root reports service identity.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"version": ServiceVersion,
		"status":  "running",
	})
}

// Health reports whether a browser session is live.
func (h *Handlers) Health(c *gin.Context) {
	status := "disconnected"
	if h.session.IsConnected() {
		status = "connected"
	}
	now := h.now()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"browser":   status,
		"timestamp": float64(now.UnixNano()) / float64(time.Second),
	})
}

type initRequest struct {
	DebugPort *int `form:"debug_port" json:"debug_port"`
}

// Init connects to the browser's DevTools port.
func (h *Handlers) Init(c *gin.Context) {
	var req initRequest
	if err := bind(c, &req); err != nil {
		badRequest(c, "invalid debug_port: "+err.Error())
		return
	}
	port := h.debugPort
	if req.DebugPort != nil {
		port = *req.DebugPort
	}

	ctx := c.Request.Context()
	if h.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.connectTimeout)
		defer cancel()
	}

	info, err := h.session.Connect(ctx, port)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Browser connected successfully",
		"session": info,
	})
}

type askRequest struct {
	AI       string `form:"ai" json:"ai"`
	Question string `form:"question" json:"question"`
	Format   string `form:"format" json:"format"`
}

// Ask puts a question to a chat site and returns its answer.
func (h *Handlers) Ask(c *gin.Context) {
	if !h.session.IsConnected() {
		h.notConnected(c)
		return
	}

	var req askRequest
	if err := bind(c, &req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := utils.ValidateQuestion(req.Question); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := utils.ValidateSiteID(req.AI, "ai", false); err != nil {
		badRequest(c, err.Error())
		return
	}

	var opts driver.AskOptions
	switch strings.ToLower(req.Format) {
	case "", "text":
	case "html":
		opts.HTML = true
	default:
		badRequest(c, "unsupported format: "+req.Format)
		return
	}

	siteID := h.siteID(req.AI)
	answer, err := h.driver.Ask(c.Request.Context(), siteID, req.Question, opts)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{
		"success": true,
		"answer":  answer.String(),
		"found":   answer.Found,
		"ai":      siteID,
	}
	if opts.HTML {
		resp["html"] = answer.HTML
	}
	c.JSON(http.StatusOK, resp)
}

// Sites lists the registered site ids.
func (h *Handlers) Sites(c *gin.Context) {
	sites := h.sites.Sites()
	details := make([]gin.H, 0, len(sites))
	for _, s := range sites {
		details = append(details, gin.H{"id": s.ID, "name": s.Name, "url": s.URL})
	}
	c.JSON(http.StatusOK, gin.H{
		"ais":     h.sites.IDs(),
		"default": h.sites.DefaultID(),
		"sites":   details,
	})
}

type switchRequest struct {
	AI string `form:"ai" json:"ai"`
}

// Switch navigates the page to a site without asking anything.
func (h *Handlers) Switch(c *gin.Context) {
	if !h.session.IsConnected() {
		h.notConnected(c)
		return
	}

	var req switchRequest
	if err := bind(c, &req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := utils.ValidateSiteID(req.AI, "ai", false); err != nil {
		badRequest(c, err.Error())
		return
	}

	siteID := h.siteID(req.AI)
	if err := h.driver.SwitchSite(c.Request.Context(), siteID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Switched to " + siteID,
	})
}

// Session describes the connected session.
func (h *Handlers) Session(c *gin.Context) {
	info, ok := h.session.Info()
	if !ok {
		h.notConnected(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"id":              info.ID,
		"endpoint":        info.Endpoint,
		"browser_version": info.BrowserVersion,
		"connected_at":    info.ConnectedAt,
		"page_url":        info.PageURL,
	})
}

// Close disconnects from the browser. Closing a closed session succeeds.
func (h *Handlers) Close(c *gin.Context) {
	h.session.Close()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Browser connection closed",
	})
}

func (h *Handlers) siteID(requested string) string {
	if requested == "" {
		return h.sites.DefaultID()
	}
	return requested
}
