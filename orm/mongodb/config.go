package mongodb

import (
	"github.com/goodbye-jack/go-right/orm/dbconfig"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
)

// Config 复用dbconfig.Config，保持配置结构统一
type Config = dbconfig.Config

// DBType 快捷引用Mongo类型
const DBType = utils.DBTypeMongo

// NewMongoFromConfig 由 databases.mongo.<instance> 段落建立连接
func NewMongoFromConfig(cfg *Config) (*Mongo, error) {
	if cfg.DBType != utils.DBTypeMongo && cfg.DBType != utils.DBTypeMongoDB {
		return nil, errors.Errorf("unsupported db type: %s, expected: %s", cfg.DBType, DBType)
	}
	return NewMongo(cfg.GenDSN(), cfg.Timeout)
}
