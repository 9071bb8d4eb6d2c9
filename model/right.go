package model

import (
	"fmt"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/utils"
)

// SubjectType 权限主体类型，对应原系统的 rightType
type SubjectType int

const (
	SubjectDepartment SubjectType = 1 // 部门权限
	SubjectPost       SubjectType = 2 // 岗位权限
)

func (t SubjectType) Valid() bool {
	return t == SubjectDepartment || t == SubjectPost
}

func (t SubjectType) String() string {
	switch t {
	case SubjectDepartment:
		return "dept"
	case SubjectPost:
		return "post"
	}
	return fmt.Sprintf("subject(%d)", int(t))
}

// Flag 权限标志位：授权权限 / 审核(操作)权限
type Flag int

const (
	FlagGrant  Flag = 1
	FlagReview Flag = 2
)

func (f Flag) Valid() bool {
	return f == FlagGrant || f == FlagReview
}

func (f Flag) String() string {
	switch f {
	case FlagGrant:
		return "grant"
	case FlagReview:
		return "review"
	}
	return fmt.Sprintf("flag(%d)", int(f))
}

// ParseFlag 解析 grant/review，兼容原系统的 auth 叫法
func ParseFlag(s string) (Flag, error) {
	switch s {
	case "grant", "auth":
		return FlagGrant, nil
	case "review":
		return FlagReview, nil
	}
	return 0, errs.Invalid("unknown flag %q", s)
}

// Subject 部门或岗位
type Subject struct {
	Type SubjectType `json:"rightType"`
	ID   int64       `json:"authId"`
}

func (s Subject) Validate() error {
	if !s.Type.Valid() {
		return errs.Invalid("invalid subject type %d", int(s.Type))
	}
	if s.ID <= 0 {
		return errs.Invalid("invalid subject id %d", s.ID)
	}
	return nil
}

func (s Subject) String() string {
	return fmt.Sprintf("%s:%d", s.Type, s.ID)
}

// Right 一条 (主体, 标志位) 权限桶，同一主体同一标志位只能有一条
type Right struct {
	RightID         int64       `bson:"rightId" json:"rightId" gorm:"column:right_id;primaryKey;autoIncrement:false"`
	RightType       SubjectType `bson:"rightType" json:"rightType" gorm:"column:right_type;not null;uniqueIndex:idx_right_subject_flag"`
	AuthID          int64       `bson:"authId" json:"authId" gorm:"column:auth_id;not null;uniqueIndex:idx_right_subject_flag"`
	AuthRightFlag   int         `bson:"authRightFlag" json:"authRightFlag" gorm:"column:auth_right_flag;default:0;uniqueIndex:idx_right_subject_flag"`
	ReviewRightFlag int         `bson:"reviewRightFlag" json:"reviewRightFlag" gorm:"column:review_right_flag;default:0;uniqueIndex:idx_right_subject_flag"`
	// MappingsPending 在替换映射期间置位，进程在删除与插入之间崩溃时可据此发现并修复
	MappingsPending bool      `bson:"mappingsPending" json:"mappingsPending" gorm:"column:mappings_pending;default:false;index"`
	InputOperID     string    `bson:"inputOperId" json:"inputOperId" gorm:"column:input_oper_id;size:64"`
	InputTime       time.Time `bson:"inputTime" json:"inputTime" gorm:"column:input_time"`
	UpdateTime      time.Time `bson:"updateTime" json:"updateTime" gorm:"column:update_time"`
}

func (Right) TableName() string {
	return utils.CollRights
}

func (r Right) Subject() Subject {
	return Subject{Type: r.RightType, ID: r.AuthID}
}

func (r Right) Has(flag Flag) bool {
	switch flag {
	case FlagGrant:
		return r.AuthRightFlag == 1
	case FlagReview:
		return r.ReviewRightFlag == 1
	}
	return false
}

// NewRight 按标志位构造一条新的权限记录
func NewRight(rightID int64, subject Subject, flag Flag, operID string, now time.Time) *Right {
	r := &Right{
		RightID:     rightID,
		RightType:   subject.Type,
		AuthID:      subject.ID,
		InputOperID: operID,
		InputTime:   now,
		UpdateTime:  now,
	}
	if flag == FlagGrant {
		r.AuthRightFlag = 1
	} else {
		r.ReviewRightFlag = 1
	}
	return r
}

// RightMapping 权限下的一条 (菜单, 按钮) 授权
type RightMapping struct {
	ID         int64     `bson:"id" json:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	RightID    int64     `bson:"rightId" json:"rightId" gorm:"column:right_id;not null;uniqueIndex:idx_mapping_triple"`
	MenuID     int64     `bson:"menuId" json:"menuId" gorm:"column:menu_id;not null;uniqueIndex:idx_mapping_triple"`
	BtnID      int64     `bson:"btnId" json:"btnId" gorm:"column:btn_id;not null;uniqueIndex:idx_mapping_triple"`
	InputTime  time.Time `bson:"inputTime" json:"inputTime" gorm:"column:input_time"`
	UpdateTime time.Time `bson:"updateTime" json:"updateTime" gorm:"column:update_time"`
}

func (RightMapping) TableName() string {
	return utils.CollRightMappings
}

// Sequence 命名计数器
type Sequence struct {
	Name string `bson:"name" json:"name" gorm:"column:name;primaryKey;size:64"`
	Seq  int64  `bson:"seq" json:"seq" gorm:"column:seq;not null;default:0"`
}

func (Sequence) TableName() string {
	return utils.CollSequences
}
