package http

import (
	"github.com/gin-gonic/gin"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/org"
)

type deptUpdateRequest struct {
	DeptID int64 `json:"deptId" binding:"required"`
	org.DepartmentInput
}

type deptIDRequest struct {
	DeptID int64 `json:"deptId" binding:"required"`
}

type postUpdateRequest struct {
	PostID int64 `json:"postId" binding:"required"`
	org.PostInput
}

type postIDRequest struct {
	PostID int64 `json:"postId" binding:"required"`
}

func (svc *Services) registerOrg(s *HTTPServer) {
	s.Route("/department/add", "部门新增", []string{"POST"}, true, svc.deptAdd)
	s.Route("/department/update", "部门修改", []string{"POST"}, true, svc.deptUpdate)
	s.Route("/department/remove", "部门删除", []string{"POST"}, true, svc.deptRemove)
	s.Route("/department/detail", "", []string{"GET"}, false, svc.deptDetail)
	s.Route("/post/add", "岗位新增", []string{"POST"}, true, svc.postAdd)
	s.Route("/post/update", "岗位修改", []string{"POST"}, true, svc.postUpdate)
	s.Route("/post/remove", "岗位删除", []string{"POST"}, true, svc.postRemove)
	s.Route("/post/detail", "", []string{"GET"}, false, svc.postDetail)
	s.Route("/post/review", "岗位复核", []string{"POST"}, true, svc.postReview)
	s.Route("/post/revoke", "岗位撤销", []string{"POST"}, true, svc.postRevoke)
}

func (svc *Services) deptAdd(c *gin.Context) {
	in := org.DepartmentInput{}
	if err := c.ShouldBindJSON(&in); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	d, err := svc.Org.AddDepartment(c.Request.Context(), in, GetUser(c))
	JsonResponse(c, d, err)
}

func (svc *Services) deptUpdate(c *gin.Context) {
	req := deptUpdateRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	d, err := svc.Org.UpdateDepartment(c.Request.Context(), req.DeptID, req.DepartmentInput, GetUser(c))
	svc.forget(model.Subject{Type: model.SubjectDepartment, ID: req.DeptID})
	JsonResponse(c, d, err)
}

func (svc *Services) deptRemove(c *gin.Context) {
	req := deptIDRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	err := svc.Org.RemoveDepartment(c.Request.Context(), req.DeptID, GetUser(c))
	JsonResponse(c, gin.H{"deptId": req.DeptID}, err)
}

func (svc *Services) deptDetail(c *gin.Context) {
	deptID, err := queryInt64(c, "deptId")
	if err != nil {
		JsonResponse(c, nil, err)
		return
	}
	detail, err := svc.Org.DepartmentDetail(c.Request.Context(), deptID)
	JsonResponse(c, detail, err)
}

func (svc *Services) postAdd(c *gin.Context) {
	in := org.PostInput{}
	if err := c.ShouldBindJSON(&in); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	p, err := svc.Org.AddPost(c.Request.Context(), in, GetUser(c))
	JsonResponse(c, p, err)
}

func (svc *Services) postUpdate(c *gin.Context) {
	req := postUpdateRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	p, err := svc.Org.UpdatePost(c.Request.Context(), req.PostID, req.PostInput, GetUser(c))
	svc.forget(model.Subject{Type: model.SubjectPost, ID: req.PostID})
	JsonResponse(c, p, err)
}

func (svc *Services) postRemove(c *gin.Context) {
	req := postIDRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	err := svc.Org.RemovePost(c.Request.Context(), req.PostID, GetUser(c))
	JsonResponse(c, gin.H{"postId": req.PostID}, err)
}

func (svc *Services) postDetail(c *gin.Context) {
	postID, err := queryInt64(c, "postId")
	if err != nil {
		JsonResponse(c, nil, err)
		return
	}
	detail, err := svc.Org.PostDetail(c.Request.Context(), postID)
	JsonResponse(c, detail, err)
}

func (svc *Services) postReview(c *gin.Context) {
	req := postIDRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	p, err := svc.Org.ReviewPost(c.Request.Context(), req.PostID, GetUser(c))
	JsonResponse(c, p, err)
}

func (svc *Services) postRevoke(c *gin.Context) {
	req := postIDRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		JsonResponse(c, nil, bindError(err))
		return
	}
	p, err := svc.Org.RevokePost(c.Request.Context(), req.PostID, GetUser(c))
	JsonResponse(c, p, err)
}
