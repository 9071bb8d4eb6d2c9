package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/goodbye-jack/go-right/log"
)

type Route struct {
	Tips        string          // 路由说明，非空时记操作日志
	Sso         bool            // 是否需要登录
	Url         string          // 路由路径
	Methods     []string        // HTTP方法(GET,POST等)
	handlerFunc gin.HandlerFunc // 主处理函数
}

func NewRoute(url string, tips string, methods []string, sso bool, handlerFunc gin.HandlerFunc) *Route {
	if len(methods) == 0 {
		log.Fatal("NewRoute methods is empty")
	}
	return &Route{
		Tips:        tips,
		Sso:         sso,
		Url:         url,
		Methods:     methods,
		handlerFunc: handlerFunc,
	}
}

func (r *Route) ToSso() ([]string, []string) {
	var sso []string
	var nonsso []string
	for _, method := range r.Methods {
		uniq := fmt.Sprintf("%s_%s", r.Url, method)
		if r.Sso {
			sso = append(sso, uniq)
		} else {
			nonsso = append(nonsso, uniq)
		}
	}
	return sso, nonsso
}
