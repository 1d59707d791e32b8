package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const clientCookie = "snapptale_client"

// clientID 返回浏览器的客户端 id，没有时签发一个新的
func clientID(c *gin.Context) string {
	if id, err := c.Cookie(clientCookie); err == nil && id != "" {
		return id
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(clientCookie, id, 0, "/", "", false, true)
	// 同一请求内后续读取也能拿到
	c.Request.AddCookie(&http.Cookie{Name: clientCookie, Value: id})
	return id
}
