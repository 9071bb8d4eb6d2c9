package model

import (
	"time"

	"github.com/goodbye-jack/go-right/utils"
)

// 部门/岗位状态，删除只是把状态置 0
const (
	StatusRemoved = 0
	StatusActive  = 1
)

// ReviewStatus 岗位复核状态
type ReviewStatus int

const (
	ReviewPending  ReviewStatus = 1 // 待复核
	ReviewApproved ReviewStatus = 2 // 已复核
	ReviewRejected ReviewStatus = 3 // 复核拒绝
	ReviewRevoked  ReviewStatus = 4 // 已撤销
)

func (s ReviewStatus) String() string {
	switch s {
	case ReviewPending:
		return "pending"
	case ReviewApproved:
		return "approved"
	case ReviewRejected:
		return "rejected"
	case ReviewRevoked:
		return "revoked"
	}
	return "unknown"
}

// Department 部门
type Department struct {
	DeptID         int64     `bson:"deptId" json:"deptId" gorm:"column:dept_id;primaryKey;autoIncrement:false"`
	DeptName       string    `bson:"deptName" json:"deptName" gorm:"column:dept_name;size:128"`
	MemCode        string    `bson:"memCode" json:"memCode" gorm:"column:mem_code;size:64"` // 所属机构
	ParentDept     string    `bson:"parentDept" json:"parentDept" gorm:"column:parent_dept;size:64"`
	Remark         string    `bson:"remark" json:"remark" gorm:"column:remark;size:255"`
	DeptStatus     int       `bson:"deptStatus" json:"deptStatus" gorm:"column:dept_status;default:1;index"`
	InputOperName  string    `bson:"inputOperName" json:"inputOperName" gorm:"column:input_oper_name;size:64"`
	UpdateOperName string    `bson:"updateOperName" json:"updateOperName" gorm:"column:update_oper_name;size:64"`
	InputTime      time.Time `bson:"inputTime" json:"inputTime" gorm:"column:input_time"`
	UpdateTime     time.Time `bson:"updateTime" json:"updateTime" gorm:"column:update_time"`
}

func (Department) TableName() string {
	return utils.CollDepartments
}

func (d Department) Subject() Subject {
	return Subject{Type: SubjectDepartment, ID: d.DeptID}
}

func (d Department) Active() bool {
	return d.DeptStatus == StatusActive
}

// Post 岗位，挂在部门下
type Post struct {
	PostID         int64        `bson:"postId" json:"postId" gorm:"column:post_id;primaryKey;autoIncrement:false"`
	DeptID         int64        `bson:"deptId" json:"deptId" gorm:"column:dept_id;not null;index"`
	PostName       string       `bson:"postName" json:"postName" gorm:"column:post_name;size:128"`
	Remark         string       `bson:"remark" json:"remark" gorm:"column:remark;size:255"`
	PostStatus     int          `bson:"postStatus" json:"postStatus" gorm:"column:post_status;default:1;index"`
	DrrStatus      ReviewStatus `bson:"drrStatus" json:"drrStatus" gorm:"column:drr_status;default:1"`
	InputOperName  string       `bson:"inputOperName" json:"inputOperName" gorm:"column:input_oper_name;size:64"`
	UpdateOperName string       `bson:"updateOperName" json:"updateOperName" gorm:"column:update_oper_name;size:64"`
	ReviewOperName string       `bson:"reviewOperName" json:"reviewOperName" gorm:"column:review_oper_name;size:64"`
	InputTime      time.Time    `bson:"inputTime" json:"inputTime" gorm:"column:input_time"`
	UpdateTime     time.Time    `bson:"updateTime" json:"updateTime" gorm:"column:update_time"`
	ReviewTime     time.Time    `bson:"reviewTime" json:"reviewTime" gorm:"column:review_time"`
}

func (Post) TableName() string {
	return utils.CollPosts
}

func (p Post) Subject() Subject {
	return Subject{Type: SubjectPost, ID: p.PostID}
}

func (p Post) Active() bool {
	return p.PostStatus == StatusActive
}
