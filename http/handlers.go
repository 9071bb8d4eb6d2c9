package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/menu"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/org"
	"github.com/goodbye-jack/go-right/rbac"
	"github.com/goodbye-jack/go-right/right"
	"github.com/goodbye-jack/go-right/sequence"
)

// Services 路由依赖的核心组件，Enforcer 可以为空
type Services struct {
	Allocator *sequence.Allocator
	Writer    *right.Writer
	Resolver  *right.Resolver
	Tree      *menu.TreeBuilder
	Catalog   *menu.Catalog
	Org       *org.Service
	Enforcer  *rbac.Enforcer
}

func (svc *Services) forget(subject model.Subject) {
	if svc.Enforcer != nil {
		svc.Enforcer.Forget(subject)
	}
}

type saveRequest struct {
	RightType   model.SubjectType     `json:"rightType" binding:"required"`
	AuthID      int64                 `json:"authId" binding:"required"`
	AuthRight   []model.CapabilityRef `json:"authRight"`
	ReviewRight []model.CapabilityRef `json:"reviewRight"`
}

type batchRequest struct {
	RightType model.SubjectType `json:"rightType" binding:"required"`
	AuthIDs   []int64           `json:"authIds"`
}

type nextRequest struct {
	Name  string `json:"name" binding:"required"`
	Count int    `json:"count"`
}

func queryInt64(c *gin.Context, key string) (int64, error) {
	raw := c.Query(key)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.Invalid("query %s=%q", key, raw)
	}
	return v, nil
}

func querySubject(c *gin.Context) (model.Subject, error) {
	rightType, err := queryInt64(c, "rightType")
	if err != nil {
		return model.Subject{}, err
	}
	authID, err := queryInt64(c, "authId")
	if err != nil {
		return model.Subject{}, err
	}
	subject := model.Subject{Type: model.SubjectType(rightType), ID: authID}
	return subject, subject.Validate()
}

// Register 挂载菜单、权限、部门/岗位、序列接口
func (svc *Services) Register(s *HTTPServer) {
	svc.registerOrg(s)
	s.Route("/menu/tree", "", []string{"GET"}, false, svc.menuTree)
	s.Route("/menu/init", "菜单初始化", []string{"POST"}, true, svc.menuInit)
	s.Route("/right/detail", "", []string{"GET"}, false, svc.rightDetail)
	s.Route("/right/batch", "", []string{"POST"}, false, svc.rightBatch)
	s.Route("/right/save", "保存权限", []string{"POST"}, true, svc.rightSave)
	s.Route("/right/pending", "", []string{"GET"}, false, svc.rightPending)
	s.Route("/right/check", "", []string{"GET"}, false, svc.rightCheck)
	s.Route("/sequence/next", "", []string{"POST"}, false, svc.sequenceNext)
}

func (svc *Services) menuTree(c *gin.Context) {
	forest, err := svc.Tree.Tree(c.Request.Context())
	JsonResponse(c, forest, err)
}

func (svc *Services) menuInit(c *gin.Context) {
	roots := []model.MenuSpec{}
	if err := c.ShouldBindJSON(&roots); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	result, err := svc.Catalog.Sync(c.Request.Context(), roots)
	JsonResponse(c, result, err)
}

func (svc *Services) rightDetail(c *gin.Context) {
	subject, err := querySubject(c)
	if err != nil {
		JsonResponse(c, nil, err)
		return
	}
	set, err := svc.Resolver.ResolveCapabilities(c.Request.Context(), subject)
	JsonResponse(c, set, err)
}

func (svc *Services) rightBatch(c *gin.Context) {
	req := batchRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	set, err := svc.Resolver.ResolveCapabilitiesForMany(c.Request.Context(), req.RightType, req.AuthIDs)
	JsonResponse(c, set, err)
}

func (svc *Services) rightSave(c *gin.Context) {
	req := saveRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	subject := model.Subject{Type: req.RightType, ID: req.AuthID}
	err := svc.Org.SaveRights(c.Request.Context(), subject, req.AuthRight, req.ReviewRight, GetUser(c))
	svc.forget(subject)
	if err != nil {
		JsonResponse(c, nil, err)
		return
	}
	set, err := svc.Resolver.ResolveCapabilities(c.Request.Context(), subject)
	JsonResponse(c, set, err)
}

func (svc *Services) rightPending(c *gin.Context) {
	rights, err := svc.Writer.PendingRights(c.Request.Context())
	JsonResponse(c, rights, err)
}

func (svc *Services) rightCheck(c *gin.Context) {
	if svc.Enforcer == nil {
		JsonResponse(c, nil, errs.NotFound("enforcer not configured"))
		return
	}
	subject, err := querySubject(c)
	if err != nil {
		JsonResponse(c, nil, err)
		return
	}
	flag, err := model.ParseFlag(c.DefaultQuery("flag", "grant"))
	if err != nil {
		JsonResponse(c, nil, err)
		return
	}
	menuID, err := queryInt64(c, "menuId")
	if err != nil {
		JsonResponse(c, nil, err)
		return
	}
	btnID, err := queryInt64(c, "btnId")
	if err != nil {
		JsonResponse(c, nil, err)
		return
	}
	ok, err := svc.Enforcer.Enforce(c.Request.Context(), rbac.Req{Subject: subject, MenuID: menuID, BtnID: btnID, Flag: flag})
	JsonResponse(c, gin.H{"allowed": ok}, err)
}

func (svc *Services) sequenceNext(c *gin.Context) {
	req := nextRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	ids, err := svc.Allocator.NextN(c.Request.Context(), req.Name, req.Count)
	JsonResponse(c, gin.H{"name": req.Name, "ids": ids}, err)
}
