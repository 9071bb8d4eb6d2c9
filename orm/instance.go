package orm

import (
	"context"
	"fmt"
	"strings"

	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/orm/dbconfig"
	"github.com/goodbye-jack/go-right/orm/mongodb"
	"github.com/goodbye-jack/go-right/orm/redis"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// instances 同一个 ${dbType}.${instanceName} 只连接一次，序列、权限、菜单可以共用
type instances struct {
	v          *viper.Viper
	relational map[string]*Orm
	mongo      map[string]*mongodb.Mongo
	redis      map[string]*redis.Redis
}

func newInstances(v *viper.Viper) *instances {
	return &instances{
		v:          v,
		relational: map[string]*Orm{},
		mongo:      map[string]*mongodb.Mongo{},
		redis:      map[string]*redis.Redis{},
	}
}

// splitBackend "mongo" -> mongo.default，"mysql.master" 原样
func splitBackend(backend string) (utils.DBType, string) {
	parts := strings.SplitN(backend, ".", 2)
	dbType := utils.DBType(parts[0])
	if dbType == utils.DBTypeMongoDB {
		dbType = utils.DBTypeMongo
	}
	if len(parts) == 1 || parts[1] == "" {
		return dbType, "default"
	}
	return dbType, parts[1]
}

func (in *instances) load(dbType utils.DBType, name string) (*dbconfig.Config, error) {
	return dbconfig.LoadDBConfig(in.v, fmt.Sprintf("%s.%s", dbType, name))
}

func (in *instances) getRelational(dbType utils.DBType, name string) (*Orm, error) {
	key := fmt.Sprintf("%s.%s", dbType, name)
	if o, ok := in.relational[key]; ok {
		return o, nil
	}
	cfg, err := in.load(dbType, name)
	if err != nil {
		return nil, err
	}
	o, err := NewOrm(cfg.GenDSN(), dbType, cfg.SlowTime, cfg.GetLogMode())
	if err != nil {
		return nil, errors.WithMessagef(err, "%s实例[%s]创建ORM实例失败", dbType, name)
	}
	sqlDB, err := o.DB()
	if err != nil {
		return nil, errors.Wrapf(err, "%s实例[%s]获取SQL DB失败", dbType, name)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifeTime)
	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrapf(err, "%s实例[%s] Ping失败", dbType, name)
	}
	if err := o.Migrate(); err != nil {
		return nil, err
	}
	in.relational[key] = o
	log.Infof("【%s初始化】实例[%s]初始化成功", dbType, name)
	return o, nil
}

func (in *instances) getMongo(name string) (*mongodb.Mongo, error) {
	if m, ok := in.mongo[name]; ok {
		return m, nil
	}
	cfg, err := in.load(utils.DBTypeMongo, name)
	if err != nil {
		return nil, err
	}
	m, err := mongodb.NewMongoFromConfig(cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "mongo实例[%s]创建客户端失败", name)
	}
	if err := m.EnsureIndexes(context.Background()); err != nil {
		return nil, err
	}
	in.mongo[name] = m
	log.Infof("【mongo初始化】实例[%s]初始化成功", name)
	return m, nil
}

func (in *instances) getRedis(name string) (*redis.Redis, error) {
	if r, ok := in.redis[name]; ok {
		return r, nil
	}
	cfg, err := in.load(utils.DBTypeRedis, name)
	if err != nil {
		return nil, err
	}
	r, err := redis.NewRedis(cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "redis实例[%s]创建客户端失败", name)
	}
	in.redis[name] = r
	return r, nil
}

// close 关闭所有已打开的连接，返回第一个错误
func (in *instances) close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for _, o := range in.relational {
		keep(o.Close())
	}
	for _, m := range in.mongo {
		keep(m.Close(context.Background()))
	}
	for _, r := range in.redis {
		keep(r.Close())
	}
	return first
}
