package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodbye-jack/go-right/log"
)

type HTTPServer struct {
	serviceName   string
	jwtSecret     string
	loginRequired bool
	routes        []*Route
	router        *gin.Engine
	prepared      bool
}

type ServerOption func(*HTTPServer)

// WithJWTSecret 签发操作员 token 的密钥
func WithJWTSecret(secret string) ServerOption {
	return func(s *HTTPServer) {
		s.jwtSecret = secret
	}
}

// WithLoginRequired 写接口要求非匿名操作员
func WithLoginRequired(required bool) ServerOption {
	return func(s *HTTPServer) {
		s.loginRequired = required
	}
}

func NewHTTPServer(serviceName string, opts ...ServerOption) *HTTPServer {
	s := &HTTPServer{
		serviceName: serviceName,
		routes: []*Route{
			NewRoute("/ping", "", []string{"GET"}, false, func(c *gin.Context) {
				c.String(http.StatusOK, "Pong")
			}),
		},
		router: gin.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Route sso 只在开启 login_required 时生效
func (s *HTTPServer) Route(path string, tips string, methods []string, sso bool, fn gin.HandlerFunc) {
	if len(methods) == 0 {
		methods = append(methods, "GET")
	}
	s.routes = append(s.routes, NewRoute(path, tips, methods, sso && s.loginRequired, fn))
}

func (s *HTTPServer) Prepare() {
	if s.prepared {
		return
	}
	s.prepared = true
	s.router.Use(
		RecoveryMiddleware(),
		OperatorMiddleware(s.jwtSecret),
		LoginRequiredMiddleware(s.routes),
		RecordOperationMiddleware(s.routes),
	)
	for _, route := range s.routes {
		for _, method := range route.Methods {
			s.router.Handle(method, route.Url, route.handlerFunc)
		}
	}
}

// Handler Prepare 之后的 gin 引擎，测试里直接用 httptest 驱动
func (s *HTTPServer) Handler() http.Handler {
	s.Prepare()
	return s.router
}

func (s *HTTPServer) Run(addr string) error {
	s.Prepare()
	log.Infof("server %v(%v) is running", s.serviceName, addr)
	return s.router.Run(addr)
}
