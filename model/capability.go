package model

import (
	"github.com/goodbye-jack/go-right/errs"
)

// CapabilityRef 写入端的一条能力：某菜单下的某个按钮
type CapabilityRef struct {
	MenuID int64 `json:"menuId" binding:"required"`
	BtnID  int64 `json:"btnId" binding:"required"`
}

func (c CapabilityRef) Validate() error {
	if c.MenuID <= 0 || c.BtnID <= 0 {
		return errs.Invalid("invalid capability menuId=%d btnId=%d", c.MenuID, c.BtnID)
	}
	return nil
}

// CapabilityKey (menuId, btnId) 去重键
type CapabilityKey struct {
	MenuID int64
	BtnID  int64
}

func (c CapabilityRef) Key() CapabilityKey {
	return CapabilityKey{MenuID: c.MenuID, BtnID: c.BtnID}
}

// Capability 解析结果，带菜单/按钮的展示信息
type Capability struct {
	MenuID   int64  `json:"menuId"`
	MenuCode string `json:"menuCode"`
	MenuName string `json:"menuName"`
	BtnID    int64  `json:"btnId"`
	BtnCode  string `json:"btnCode"`
	BtnName  string `json:"btnName"`
}

func (c Capability) Key() CapabilityKey {
	return CapabilityKey{MenuID: c.MenuID, BtnID: c.BtnID}
}

// CapabilitySet 主体的授权集合与审核集合
type CapabilitySet struct {
	Grant  []Capability `json:"authRight"`
	Review []Capability `json:"reviewRight"`
}

func NewCapabilitySet() *CapabilitySet {
	return &CapabilitySet{
		Grant:  []Capability{},
		Review: []Capability{},
	}
}

func (s *CapabilitySet) Of(flag Flag) []Capability {
	if flag == FlagGrant {
		return s.Grant
	}
	return s.Review
}

// DedupeRefs 按 (menuId, btnId) 去重，保留首次出现的顺序
func DedupeRefs(refs []CapabilityRef) []CapabilityRef {
	seen := make(map[CapabilityKey]bool, len(refs))
	ans := make([]CapabilityRef, 0, len(refs))
	for _, ref := range refs {
		if seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true
		ans = append(ans, ref)
	}
	return ans
}
