package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/utils"
)

func GetUser(c *gin.Context) string {
	user := c.GetString(utils.UserContextName)
	if user == "" {
		user = utils.UserAnonymous
	}
	return user
}

func SetUser(c *gin.Context, user string) {
	c.Set(utils.UserContextName, user)
}

func bearerToken(c *gin.Context) string {
	auth := c.Request.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func JsonResponse(c *gin.Context, data interface{}, err error) {
	statusCode := 200
	message := "success"

	if err != nil {
		log.Errorf("%s %s, %v", c.Request.Method, c.Request.URL.Path, err)
		statusCode, message = whichError(err)
		c.JSON(statusCode, gin.H{
			"data":    nil,
			"message": message,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(statusCode, gin.H{
		"data":    data,
		"message": message,
	})
}
