package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/utils"
)

// OperatorMiddleware 从 Bearer token 中取操作员 id，解析失败按匿名处理，不拦截请求
func OperatorMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" && secret != "" {
			user, err := utils.ParseJWT(secret, token)
			if err != nil {
				log.Warnf("OperatorMiddleware, parse token, %v", err)
			} else {
				SetUser(c, user)
			}
		}
		c.Next()
	}
}

func LoginRequiredMiddleware(routes []*Route) gin.HandlerFunc {
	uniq2sso := map[string]bool{}
	for _, route := range routes {
		sso, nonsso := route.ToSso()
		for _, uniq := range sso {
			uniq2sso[uniq] = true
		}
		for _, uniq := range nonsso {
			uniq2sso[uniq] = false
		}
	}
	return func(c *gin.Context) {
		sso := uniq2sso[fmt.Sprintf("%s_%s", c.Request.URL.Path, c.Request.Method)]
		if sso && GetUser(c) == utils.UserAnonymous {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// RecordOperationMiddleware 带 tips 的路由记一条操作日志
func RecordOperationMiddleware(routes []*Route) gin.HandlerFunc {
	uniq2tips := map[string]string{}
	for _, route := range routes {
		if route.Tips == "" {
			continue
		}
		for _, method := range route.Methods {
			uniq2tips[fmt.Sprintf("%s_%s", route.Url, method)] = route.Tips
		}
	}
	return func(c *gin.Context) {
		tips, ok := uniq2tips[fmt.Sprintf("%s_%s", c.Request.URL.Path, c.Request.Method)]
		if !ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		log.WithFields(map[string]interface{}{
			"user":        GetUser(c),
			"path":        c.Request.URL.Path,
			"method":      c.Request.Method,
			"client_ip":   c.ClientIP(),
			"status_code": c.Writer.Status(),
			"duration":    time.Since(start).Milliseconds(),
			"tips":        tips,
		}).Info("operation")
	}
}

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("panic %v\n%s", r, utils.GetStack())
				JsonResponse(c, nil, fmt.Errorf("panic: %v", r))
				c.Abort()
			}
		}()
		c.Next()
	}
}

func bindError(err error) error {
	return errs.Invalid("bind request: %v", err)
}
