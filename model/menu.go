package model

import (
	"encoding/json"
	"time"

	"github.com/goodbye-jack/go-right/utils"
)

// Menu 菜单表，parentId 为空的是根节点
type Menu struct {
	MenuID     int64     `bson:"menuId" json:"menuId" gorm:"column:menu_id;primaryKey;autoIncrement:false"`
	MenuCode   string    `bson:"menuCode" json:"menuCode" gorm:"column:menu_code;size:128;uniqueIndex"`
	ParentID   *int64    `bson:"parentId" json:"parentId" gorm:"column:parent_id;index"`
	MenuName   string    `bson:"menuName" json:"menuName" gorm:"column:menu_name;size:128"`
	MenuSeqID  int       `bson:"menuSeqId" json:"menuSeqId" gorm:"column:menu_seq_id;default:0"`
	MenuIcon   string    `bson:"menuIcon" json:"menuIcon" gorm:"column:menu_icon;size:128"`
	MenuURL    string    `bson:"menuUrl" json:"menuUrl" gorm:"column:menu_url;size:255"`
	CreateDate time.Time `bson:"createDate" json:"-" gorm:"column:create_date"`
	UpdateDate time.Time `bson:"updateDate" json:"-" gorm:"column:update_date"`
}

func (Menu) TableName() string {
	return utils.CollMenus
}

// MenuBtn 菜单按钮，能力的最小单位
type MenuBtn struct {
	BtnID         int64     `bson:"btnId" json:"btnId" gorm:"column:btn_id;primaryKey;autoIncrement:false"`
	BtnCode       string    `bson:"btnCode" json:"btnCode" gorm:"column:btn_code;size:128;uniqueIndex"`
	BtnName       string    `bson:"btnName" json:"btnName" gorm:"column:btn_name;size:128"`
	BtnURL        string    `bson:"btnUrl" json:"btnUrl" gorm:"column:btn_url;size:255"`
	RequestMethod string    `bson:"requestMethod" json:"requestMethod" gorm:"column:request_method;size:16;default:POST"`
	BtnSeqID      int       `bson:"btnSeqId" json:"btnSeqId" gorm:"column:btn_seq_id;default:0"`
	MenuID        int64     `bson:"menuId" json:"menuId" gorm:"column:menu_id;index"`
	MenuName      string    `bson:"menuName" json:"menuName" gorm:"column:menu_name;size:128"`
	CreateDate    time.Time `bson:"createDate" json:"-" gorm:"column:create_date"`
	UpdateDate    time.Time `bson:"updateDate" json:"-" gorm:"column:update_date"`
}

func (MenuBtn) TableName() string {
	return utils.CollMenuBtns
}

// MenuAction 叶子菜单上挂的操作按钮
type MenuAction struct {
	BtnID         int64  `json:"btnId"`
	BtnName       string `json:"btnName"`
	BtnCode       string `json:"btnCode"`
	BtnURL        string `json:"btnUrl"`
	BtnSeqID      int    `json:"btnSeqId"`
	RequestMethod string `json:"requestMethod"`
}

func NewMenuAction(b MenuBtn) MenuAction {
	return MenuAction{
		BtnID:         b.BtnID,
		BtnName:       b.BtnName,
		BtnCode:       b.BtnCode,
		BtnURL:        b.BtnURL,
		BtnSeqID:      b.BtnSeqID,
		RequestMethod: b.RequestMethod,
	}
}

// MenuNode 菜单树节点。非叶子节点只有 children，叶子节点只有 actions
type MenuNode struct {
	MenuID    int64        `json:"menuId"`
	MenuCode  string       `json:"menuCode"`
	ParentID  *int64       `json:"parentId"`
	MenuName  string       `json:"menuName"`
	MenuSeqID int          `json:"menuSeqId"`
	MenuIcon  string       `json:"menuIcon"`
	MenuURL   string       `json:"menuUrl"`
	Children  []*MenuNode  `json:"children,omitempty"`
	Actions   []MenuAction `json:"-"`
}

func NewMenuNode(m Menu) *MenuNode {
	return &MenuNode{
		MenuID:    m.MenuID,
		MenuCode:  m.MenuCode,
		ParentID:  m.ParentID,
		MenuName:  m.MenuName,
		MenuSeqID: m.MenuSeqID,
		MenuIcon:  m.MenuIcon,
		MenuURL:   m.MenuURL,
		Children:  []*MenuNode{},
	}
}

func (n *MenuNode) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n MenuNode) MarshalJSON() ([]byte, error) {
	type plain MenuNode
	if len(n.Children) > 0 {
		return json.Marshal(plain(n))
	}
	actions := n.Actions
	if actions == nil {
		actions = []MenuAction{}
	}
	return json.Marshal(struct {
		plain
		Actions []MenuAction `json:"actions"`
	}{plain(n), actions})
}

func (n *MenuNode) UnmarshalJSON(data []byte) error {
	type plain MenuNode
	aux := struct {
		*plain
		Actions []MenuAction `json:"actions"`
	}{plain: (*plain)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.Actions = aux.Actions
	return nil
}

// ButtonSpec / MenuSpec 菜单初始化时提交的嵌套文档
type ButtonSpec struct {
	BtnCode       string `json:"btnCode" binding:"required"`
	BtnName       string `json:"btnName"`
	BtnURL        string `json:"btnUrl"`
	RequestMethod string `json:"requestMethod"`
	BtnSeqID      int    `json:"btnSeqId"`
}

type MenuSpec struct {
	MenuCode  string       `json:"menuCode" binding:"required"`
	MenuName  string       `json:"menuName"`
	MenuSeqID int          `json:"menuSeqId"`
	MenuIcon  string       `json:"menuIcon"`
	MenuURL   string       `json:"menuUrl"`
	Children  []MenuSpec   `json:"children"`
	Actions   []ButtonSpec `json:"actions"`
}
