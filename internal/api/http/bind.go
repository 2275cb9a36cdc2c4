package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bind fills req from a JSON body, if one was sent, and then from the query
// string. Query parameters win over body fields.
func bind(c *gin.Context, req any) error {
	if c.Request.ContentLength != 0 && c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(req); err != nil {
			return err
		}
	}
	return c.ShouldBindQuery(req)
}
