package http

import "github.com/gin-gonic/gin"

// Register mounts every endpoint on r.
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/init", h.Init)
	r.POST("/ask", h.Ask)
	r.GET("/ais", h.Sites)
	r.POST("/switch", h.Switch)
	r.GET("/session", h.Session)
	r.POST("/close", h.Close)
}
