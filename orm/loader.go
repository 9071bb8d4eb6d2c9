package orm

import (
	"strings"

	"github.com/goodbye-jack/go-right/config"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/menu"
	"github.com/goodbye-jack/go-right/org"
	"github.com/goodbye-jack/go-right/orm/mongodb"
	"github.com/goodbye-jack/go-right/orm/redis"
	"github.com/goodbye-jack/go-right/right"
	"github.com/goodbye-jack/go-right/sequence"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
)

// CatalogBackend 菜单目录存储，CatalogStore 与 mongodb.CatalogStore 都满足
type CatalogBackend interface {
	right.Catalog
	menu.Store
}

// Stores 按配置建好的各组件存储
type Stores struct {
	Counter   sequence.Counter
	Rights    right.Store
	Org       org.Store // 与 Rights 同库
	Catalog   CatalogBackend
	TreeCache menu.Cache // 未配置 menu.cache 时为 nil

	instances *instances
}

func (s *Stores) Close() error {
	return s.instances.close()
}

// InitStores 依据 sequence/right/menu 的 backend 配置连接数据库
//
//	sequence.backend: mongo / mysql / postgres / sqlite / redis，可写成 mysql.master 指定实例
//	right.backend / menu.backend: 同上，不支持 redis；部门/岗位与 right.backend 同库
//	menu.cache: redis 实例名
func InitStores(cfg *config.Config) (*Stores, error) {
	if cfg.Viper == nil || !cfg.Viper.IsSet("databases") {
		return nil, errors.New("未配置databases节点")
	}
	in := newInstances(cfg.Viper)
	stores := &Stores{instances: in}
	fail := func(err error) (*Stores, error) {
		if cerr := in.close(); cerr != nil {
			log.Warnf("InitStores close after failure, %v", cerr)
		}
		return nil, err
	}

	counter, err := in.counter(cfg.Sequence.Backend)
	if err != nil {
		return fail(errors.WithMessage(err, "sequence backend"))
	}
	stores.Counter = counter

	rights, err := in.rightStore(cfg.Right.Backend)
	if err != nil {
		return fail(errors.WithMessage(err, "right backend"))
	}
	stores.Rights = rights

	orgs, err := in.orgStore(cfg.Right.Backend)
	if err != nil {
		return fail(errors.WithMessage(err, "org backend"))
	}
	stores.Org = orgs

	catalog, err := in.catalogStore(cfg.Menu.Backend)
	if err != nil {
		return fail(errors.WithMessage(err, "menu backend"))
	}
	stores.Catalog = catalog

	if cfg.Menu.Cache != "" {
		name := strings.TrimPrefix(cfg.Menu.Cache, string(utils.DBTypeRedis)+".")
		r, err := in.getRedis(name)
		if err != nil {
			return fail(errors.WithMessage(err, "menu cache"))
		}
		stores.TreeCache = redis.NewTreeCache(r, cfg.Menu.CacheTTL)
	}
	log.Infof("【数据库初始化】sequence=%s right=%s menu=%s cache=%q",
		cfg.Sequence.Backend, cfg.Right.Backend, cfg.Menu.Backend, cfg.Menu.Cache)
	return stores, nil
}

func (in *instances) counter(backend string) (sequence.Counter, error) {
	dbType, name := splitBackend(backend)
	switch dbType {
	case utils.DBTypeMongo:
		m, err := in.getMongo(name)
		if err != nil {
			return nil, err
		}
		return mongodb.NewSequenceCounter(m), nil
	case utils.DBTypeRedis:
		r, err := in.getRedis(name)
		if err != nil {
			return nil, err
		}
		return redis.NewSequenceCounter(r), nil
	case utils.DBTypeMySQL, utils.DBTypePostgres, utils.DBTypeSQLite:
		o, err := in.getRelational(dbType, name)
		if err != nil {
			return nil, err
		}
		return NewSequenceCounter(o), nil
	}
	return nil, errors.Errorf("不支持的数据库类型：%s", dbType)
}

func (in *instances) rightStore(backend string) (right.Store, error) {
	dbType, name := splitBackend(backend)
	switch dbType {
	case utils.DBTypeMongo:
		m, err := in.getMongo(name)
		if err != nil {
			return nil, err
		}
		return mongodb.NewRightStore(m), nil
	case utils.DBTypeMySQL, utils.DBTypePostgres, utils.DBTypeSQLite:
		o, err := in.getRelational(dbType, name)
		if err != nil {
			return nil, err
		}
		return NewRightStore(o), nil
	}
	return nil, errors.Errorf("不支持的数据库类型：%s", dbType)
}

func (in *instances) orgStore(backend string) (org.Store, error) {
	dbType, name := splitBackend(backend)
	switch dbType {
	case utils.DBTypeMongo:
		m, err := in.getMongo(name)
		if err != nil {
			return nil, err
		}
		return mongodb.NewOrgStore(m), nil
	case utils.DBTypeMySQL, utils.DBTypePostgres, utils.DBTypeSQLite:
		o, err := in.getRelational(dbType, name)
		if err != nil {
			return nil, err
		}
		return NewOrgStore(o), nil
	}
	return nil, errors.Errorf("不支持的数据库类型：%s", dbType)
}

func (in *instances) catalogStore(backend string) (CatalogBackend, error) {
	dbType, name := splitBackend(backend)
	switch dbType {
	case utils.DBTypeMongo:
		m, err := in.getMongo(name)
		if err != nil {
			return nil, err
		}
		return mongodb.NewCatalogStore(m), nil
	case utils.DBTypeMySQL, utils.DBTypePostgres, utils.DBTypeSQLite:
		o, err := in.getRelational(dbType, name)
		if err != nil {
			return nil, err
		}
		return NewCatalogStore(o), nil
	}
	return nil, errors.Errorf("不支持的数据库类型：%s", dbType)
}
