package utils

import "time"

type DBType string
type DBMode string
type LogMode string

const (
	DBTypeMySQL    DBType = "mysql"
	DBTypePostgres DBType = "postgres"
	DBTypeSQLite   DBType = "sqlite"
	DBTypeMongo    DBType = "mongo"
	DBTypeMongoDB  DBType = "mongodb"
	DBTypeRedis    DBType = "redis"
)

const (
	DBModeSingle  DBMode = "single"
	DBModeCluster DBMode = "cluster"
)

const (
	LogModeSilent LogMode = "silent"
	LogModeError  LogMode = "error"
	LogModeWarn   LogMode = "warn"
	LogModeInfo   LogMode = "info"
)

// 各类型数据库的默认连接参数
const (
	DefaultMySQLMaxOpenConn     = 100
	DefaultMySQLMaxIdleConn     = 10
	DefaultMySQLConnMaxLifeTime = 5 * time.Minute

	DefaultMongoMaxPoolSize    = 20
	DefaultMongoMinPoolSize    = 5
	DefaultMongoConnectTimeout = 5 * time.Second

	DefaultRedisMaxPoolSize    = 50
	DefaultRedisMinPoolSize    = 10
	DefaultRedisConnectTimeout = 5 * time.Second
	DefaultRedisReadTimeout    = 3 * time.Second
	DefaultRedisWriteTimeout   = 3 * time.Second
	DefaultRedisDBIndex        = 0
)

// DBDsnMap DSN模板
var DBDsnMap = map[DBType]string{
	DBTypeMySQL:    "%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
	DBTypePostgres: "user=%s password=%s host=%s port=%d dbname=%s sslmode=disable TimeZone=Asia/Shanghai",
	DBTypeSQLite:   "%s",
	DBTypeMongo:    "mongodb://%s:%s@%s:%d/%s?maxPoolSize=%d&minPoolSize=%d&connectTimeoutMS=%d",
	DBTypeRedis:    "redis://%s%s@%s:%d/%d?dial_timeout=%ds&read_timeout=%ds&write_timeout=%ds",
}
