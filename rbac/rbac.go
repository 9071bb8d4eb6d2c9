package rbac

import (
	"context"
	"strconv"
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	redisadapter "github.com/casbin/redis-adapter/v3"
	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/model"
)

// [request_definition]
// sub: dept:<id> / post:<id>
// menu: menuId
// btn: btnId
// act: grant / review
const text = `
[request_definition]
r = sub, menu, btn, act

[policy_definition]
p = sub, menu, btn, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.menu == p.menu && r.btn == p.btn && r.act == p.act
`

// Resolver 未加载过的主体，首次校验时从权限库解析
type Resolver interface {
	ResolveCapabilities(ctx context.Context, subject model.Subject) (*model.CapabilitySet, error)
}

type Req struct {
	Subject model.Subject
	MenuID  int64
	BtnID   int64
	Flag    model.Flag
}

func (r Req) ToArr() []interface{} {
	return []interface{}{
		r.Subject.String(),
		strconv.FormatInt(r.MenuID, 10),
		strconv.FormatInt(r.BtnID, 10),
		r.Flag.String(),
	}
}

// Enforcer 把主体的能力集合展开成 casbin 策略，按钮级别的鉴权走 casbin
type Enforcer struct {
	e        *casbin.SyncedEnforcer
	resolver Resolver

	mu     sync.Mutex
	loaded map[string]bool
}

// NewEnforcer adapter 为 nil 时策略只在内存里
func NewEnforcer(resolver Resolver, adapter persist.Adapter) (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(text)
	if err != nil {
		return nil, errs.Storage(err, "casbin model")
	}
	params := []interface{}{m}
	if adapter != nil {
		params = append(params, adapter)
	}
	e, err := casbin.NewSyncedEnforcer(params...)
	if err != nil {
		return nil, errs.Storage(err, "casbin enforcer")
	}
	return &Enforcer{
		e:        e,
		resolver: resolver,
		loaded:   map[string]bool{},
	}, nil
}

// NewRedisEnforcer 策略持久化到 redis，多个实例共享
func NewRedisEnforcer(resolver Resolver, redisAddr string) (*Enforcer, error) {
	log.Infof("rbac redis address is %v", redisAddr)
	adapter, err := redisadapter.NewAdapter("tcp", redisAddr)
	if err != nil {
		return nil, errs.Storage(err, "casbin redis adapter")
	}
	return NewEnforcer(resolver, adapter)
}

func policies(subject model.Subject, set *model.CapabilitySet) [][]string {
	rules := [][]string{}
	for _, flag := range []model.Flag{model.FlagGrant, model.FlagReview} {
		for _, c := range set.Of(flag) {
			rules = append(rules, []string{
				subject.String(),
				strconv.FormatInt(c.MenuID, 10),
				strconv.FormatInt(c.BtnID, 10),
				flag.String(),
			})
		}
	}
	return rules
}

// LoadSubject 用新的能力集合整体替换该主体的策略
func (c *Enforcer) LoadSubject(subject model.Subject, set *model.CapabilitySet) error {
	sub := subject.String()
	if _, err := c.e.RemoveFilteredPolicy(0, sub); err != nil {
		log.Errorf("LoadSubject/RemoveFilteredPolicy(0, %s), %v", sub, err)
		return errs.Storage(err, "casbin remove "+sub)
	}
	if set != nil {
		if rules := policies(subject, set); len(rules) > 0 {
			if _, err := c.e.AddPolicies(rules); err != nil {
				log.Errorf("LoadSubject/AddPolicies(%s), %v", sub, err)
				return errs.Storage(err, "casbin add "+sub)
			}
		}
	}
	c.mu.Lock()
	c.loaded[sub] = true
	c.mu.Unlock()
	log.Debugf("LoadSubject(%s) done", sub)
	return nil
}

// Forget 权限写入后调用，下次校验重新解析
func (c *Enforcer) Forget(subject model.Subject) {
	c.mu.Lock()
	delete(c.loaded, subject.String())
	c.mu.Unlock()
}

func (c *Enforcer) isLoaded(sub string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded[sub]
}

func (c *Enforcer) Enforce(ctx context.Context, r Req) (bool, error) {
	if err := r.Subject.Validate(); err != nil {
		return false, err
	}
	if !r.Flag.Valid() {
		return false, errs.Invalid("invalid flag %d", int(r.Flag))
	}
	if !c.isLoaded(r.Subject.String()) && c.resolver != nil {
		set, err := c.resolver.ResolveCapabilities(ctx, r.Subject)
		if err != nil {
			return false, err
		}
		if err := c.LoadSubject(r.Subject, set); err != nil {
			return false, err
		}
	}
	ok, err := c.e.Enforce(r.ToArr()...)
	if err != nil {
		log.Errorf("Enforce(%v) error, %v", r.ToArr(), err)
		return false, errs.Storage(err, "casbin enforce")
	}
	log.Debugf("Enforce(%v) result, %v", r.ToArr(), ok)
	return ok, nil
}
