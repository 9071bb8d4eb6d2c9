package dbconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	gormLogger "gorm.io/gorm/logger"
)

// Config DB configuration
type Config struct {
	// 基础通用字段
	DBName   string        `json:"db_name" yaml:"db_name"`
	DBType   utils.DBType  `json:"db_type" yaml:"db_type"`
	Mode     utils.DBMode  `json:"mode" yaml:"mode"` // 单点/集群
	Host     string        `json:"host" yaml:"host"`
	Port     int           `json:"port" yaml:"port"`
	User     string        `json:"user" yaml:"user"`
	Password string        `json:"password" yaml:"password"`
	Database string        `json:"database" yaml:"database"`
	DSN      string        `json:"dsn" yaml:"dsn"`
	LogMode  utils.LogMode `json:"log_mode" yaml:"log_mode"`
	SSL      bool          `json:"ssl" yaml:"ssl"` // Mongo专用SSL开关
	SlowTime int           `json:"slow_time" yaml:"slow_time"` // 慢SQL阈值(ms)
	Timeout  int           `json:"timeout" yaml:"timeout"`     // 初始化超时(s)
	// 关系型数据库专属字段
	MaxOpenConn     int           `json:"max_open_conn" yaml:"max_open_conn"`
	MaxIdleConn     int           `json:"max_idle_conn" yaml:"max_idle_conn"`
	ConnMaxLifeTime time.Duration `json:"conn_max_life_time" yaml:"conn_max_life_time"`
	// 非关系型数据库专属字段
	MaxPoolSize    int           `json:"max_pool_size" yaml:"max_pool_size"`
	MinPoolSize    int           `json:"min_pool_size" yaml:"min_pool_size"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	DBIndex        int           `json:"db_index" yaml:"db_index"` // Redis DB索引
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout"`
	AuthDB         string        `json:"auth_db" yaml:"auth_db"` // Mongo认证库
}

// GetLogMode _
func (c *Config) GetLogMode() gormLogger.LogLevel {
	switch c.LogMode {
	case utils.LogModeInfo:
		return gormLogger.Info
	case utils.LogModeWarn:
		return gormLogger.Warn
	case utils.LogModeError:
		return gormLogger.Error
	case utils.LogModeSilent:
		return gormLogger.Silent
	}
	return gormLogger.Error
}

// GenDSN 生成DSN，自定义DSN优先
func (c *Config) GenDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.DBType {
	case utils.DBTypeMySQL, utils.DBTypePostgres, utils.DBTypeSQLite:
		return c.genRelationalDSN()
	case utils.DBTypeMongo, utils.DBTypeMongoDB:
		return c.genMongoDSN()
	case utils.DBTypeRedis:
		return c.genRedisDSN()
	}
	return ""
}

func (c *Config) genRelationalDSN() string {
	template := utils.DBDsnMap[c.DBType]
	switch c.DBType {
	case utils.DBTypeSQLite:
		return fmt.Sprintf(template, c.Database) // SQLite仅需数据库路径
	default:
		// user/pass/host/port/dbname
		return fmt.Sprintf(template, c.User, c.Password, c.Host, c.Port, c.Database)
	}
}

func (c *Config) genMongoDSN() string {
	maxPool := c.MaxPoolSize
	if maxPool <= 0 {
		maxPool = utils.DefaultMongoMaxPoolSize
	}
	minPool := c.MinPoolSize
	if minPool <= 0 {
		minPool = utils.DefaultMongoMinPoolSize
	}
	connectTimeoutMS := int(c.ConnectTimeout.Milliseconds())
	if connectTimeoutMS <= 0 {
		connectTimeoutMS = int(utils.DefaultMongoConnectTimeout.Milliseconds())
	}
	hosts := fmt.Sprintf("%s:%d", c.Host, c.Port)
	if c.Mode == utils.DBModeCluster && strings.Contains(c.Host, ",") {
		hosts = c.Host // 集群模式 Host 为逗号分隔的节点列表
	}
	var dsn string
	if c.User == "" && c.Password == "" {
		dsn = fmt.Sprintf("mongodb://%s/%s?maxPoolSize=%d&minPoolSize=%d&connectTimeoutMS=%d",
			hosts, c.Database, maxPool, minPool, connectTimeoutMS)
	} else {
		dsn = fmt.Sprintf("mongodb://%s:%s@%s/%s?maxPoolSize=%d&minPoolSize=%d&connectTimeoutMS=%d",
			c.User, c.Password, hosts, c.Database, maxPool, minPool, connectTimeoutMS)
	}
	if c.AuthDB != "" {
		dsn += "&authSource=" + c.AuthDB
	}
	return dsn + fmt.Sprintf("&ssl=%t", c.SSL)
}

func (c *Config) genRedisDSN() string {
	dialTimeout := int(c.ConnectTimeout.Seconds())
	if dialTimeout <= 0 {
		dialTimeout = int(utils.DefaultRedisConnectTimeout.Seconds())
	}
	readTimeout := int(c.ReadTimeout.Seconds())
	if readTimeout <= 0 {
		readTimeout = int(utils.DefaultRedisReadTimeout.Seconds())
	}
	writeTimeout := int(c.WriteTimeout.Seconds())
	if writeTimeout <= 0 {
		writeTimeout = int(utils.DefaultRedisWriteTimeout.Seconds())
	}
	// 无密码时不拼 :@
	var authPart string
	if c.Password != "" {
		authPart = ":" + c.Password
	}
	return fmt.Sprintf(utils.DBDsnMap[utils.DBTypeRedis],
		c.User, authPart, c.Host, c.Port, c.DBIndex,
		dialTimeout, readTimeout, writeTimeout,
	)
}

// LoadDBConfig 读取 databases.${dbType}.${instanceName} 段落
//
//	dbKey: 格式如 "mysql.master"
func LoadDBConfig(v *viper.Viper, dbKey string) (*Config, error) {
	parts := strings.SplitN(dbKey, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.Errorf("dbKey格式错误，应为${dbType}.${instanceName}（如mysql.master）: %q", dbKey)
	}
	dbType := utils.DBType(parts[0])
	if dbType == utils.DBTypeMongoDB {
		dbType = utils.DBTypeMongo
	}
	prefix := fmt.Sprintf("databases.%s.%s", parts[0], parts[1])
	cfg := &Config{
		DBType:  dbType,
		DBName:  parts[1],
		Mode:    utils.DBModeSingle,
		LogMode: utils.LogModeError,
	}
	setDefaultValuesByType(cfg)
	sub := v.Sub(prefix)
	if sub == nil {
		return nil, errors.Errorf("未配置数据库实例 %s", prefix)
	}
	readConfigFields(sub, cfg)
	if err := ValidateRequiredFields(cfg); err != nil {
		return nil, errors.Wrapf(err, "%s 必填字段校验失败", prefix)
	}
	return cfg, nil
}

func readConfigFields(v *viper.Viper, cfg *Config) {
	strs := map[string]*string{
		"dsn": &cfg.DSN, "host": &cfg.Host, "user": &cfg.User, "password": &cfg.Password,
		"database": &cfg.Database, "auth_db": &cfg.AuthDB,
	}
	for key, ptr := range strs {
		if v.IsSet(key) {
			*ptr = v.GetString(key)
		}
	}
	ints := map[string]*int{
		"port": &cfg.Port, "slow_time": &cfg.SlowTime, "timeout": &cfg.Timeout,
		"max_open_conn": &cfg.MaxOpenConn, "max_idle_conn": &cfg.MaxIdleConn,
		"max_pool_size": &cfg.MaxPoolSize, "min_pool_size": &cfg.MinPoolSize, "db_index": &cfg.DBIndex,
	}
	for key, ptr := range ints {
		if v.IsSet(key) {
			*ptr = v.GetInt(key)
		}
	}
	durations := map[string]*time.Duration{
		"conn_max_life_time": &cfg.ConnMaxLifeTime, "connect_timeout": &cfg.ConnectTimeout,
		"read_timeout": &cfg.ReadTimeout, "write_timeout": &cfg.WriteTimeout,
	}
	for key, ptr := range durations {
		if v.IsSet(key) {
			*ptr = v.GetDuration(key)
		}
	}
	if v.IsSet("mode") {
		cfg.Mode = utils.DBMode(v.GetString("mode"))
	}
	if v.IsSet("log_mode") {
		cfg.LogMode = utils.LogMode(v.GetString("log_mode"))
	}
	if v.IsSet("ssl") {
		cfg.SSL = v.GetBool("ssl")
	}
}

// setDefaultValuesByType 按数据库类型设置默认值
func setDefaultValuesByType(cfg *Config) {
	switch cfg.DBType {
	case utils.DBTypeMySQL, utils.DBTypePostgres, utils.DBTypeSQLite:
		cfg.MaxOpenConn = utils.DefaultMySQLMaxOpenConn
		cfg.MaxIdleConn = utils.DefaultMySQLMaxIdleConn
		cfg.ConnMaxLifeTime = utils.DefaultMySQLConnMaxLifeTime
		cfg.SlowTime = 1000
	case utils.DBTypeMongo:
		cfg.MaxPoolSize = utils.DefaultMongoMaxPoolSize
		cfg.MinPoolSize = utils.DefaultMongoMinPoolSize
		cfg.ConnectTimeout = utils.DefaultMongoConnectTimeout
	case utils.DBTypeRedis:
		cfg.MaxPoolSize = utils.DefaultRedisMaxPoolSize
		cfg.MinPoolSize = utils.DefaultRedisMinPoolSize
		cfg.ConnectTimeout = utils.DefaultRedisConnectTimeout
		cfg.ReadTimeout = utils.DefaultRedisReadTimeout
		cfg.WriteTimeout = utils.DefaultRedisWriteTimeout
		cfg.DBIndex = utils.DefaultRedisDBIndex
	}
	cfg.Timeout = 5
}

// ValidateRequiredFields 校验必填字段，配置了 dsn 时只校验类型
func ValidateRequiredFields(cfg *Config) error {
	if cfg == nil {
		return errors.New("配置结构体不能为空")
	}
	if cfg.Mode != utils.DBModeSingle && cfg.Mode != utils.DBModeCluster {
		return errors.Errorf("%s不支持的运行模式：%s（仅支持single/cluster）", cfg.DBType, cfg.Mode)
	}
	if cfg.DSN != "" {
		return nil
	}
	missing := []string{}
	need := func(name string, empty bool) {
		if empty {
			missing = append(missing, name)
		}
	}
	switch cfg.DBType {
	case utils.DBTypeSQLite:
		need("database", cfg.Database == "")
	case utils.DBTypeMySQL, utils.DBTypePostgres:
		need("host", cfg.Host == "")
		need("port", cfg.Port == 0 && cfg.Mode == utils.DBModeSingle)
		need("user", cfg.User == "")
		need("password", cfg.Password == "")
		need("database", cfg.Database == "")
	case utils.DBTypeMongo:
		need("host", cfg.Host == "")
		need("port", cfg.Port == 0 && cfg.Mode == utils.DBModeSingle)
		need("database", cfg.Database == "")
		// 仅当配置了auth_db（需要认证）时，才校验user/password
		if cfg.AuthDB != "" {
			need("user", cfg.User == "")
			need("password", cfg.Password == "")
		}
	case utils.DBTypeRedis:
		need("host", cfg.Host == "")
		need("port", cfg.Port == 0 && cfg.Mode == utils.DBModeSingle)
	default:
		return errors.Errorf("unsupported db type: %s", cfg.DBType)
	}
	if len(missing) > 0 {
		return errors.Errorf("%s模式下缺失必填字段：[%s]", cfg.Mode, strings.Join(missing, " "))
	}
	return nil
}
