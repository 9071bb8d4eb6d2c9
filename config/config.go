package config

import (
	"os"
	"time"

	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var configPaths = []string{".", "./config", "/opt"} // config配置读取顺序

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type SequenceConfig struct {
	Backend   string `mapstructure:"backend"` // mongo / mysql / postgres / sqlite / redis
	LeaseSize int64  `mapstructure:"lease_size"`
}

type RightConfig struct {
	Backend    string `mapstructure:"backend"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type MenuConfig struct {
	Backend  string        `mapstructure:"backend"`
	Cache    string        `mapstructure:"cache"` // redis 实例名，为空不缓存
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type HTTPConfig struct {
	LoginRequired bool `mapstructure:"login_required"`
}

type CasbinConfig struct {
	RedisAddr string `mapstructure:"redis_addr"`
}

type Config struct {
	ServiceName string         `mapstructure:"service_name"`
	Addr        string         `mapstructure:"addr"`
	JWTSecret   string         `mapstructure:"jwt_secret"`
	Log         LogConfig      `mapstructure:"log"`
	Sequence    SequenceConfig `mapstructure:"sequence"`
	Right       RightConfig    `mapstructure:"right"`
	Menu        MenuConfig     `mapstructure:"menu"`
	Casbin      CasbinConfig   `mapstructure:"casbin"`
	HTTP        HTTPConfig     `mapstructure:"http"`

	// Viper 保留原始配置，数据库段落由 orm/dbconfig 自己解析
	Viper *viper.Viper `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "go-right")
	v.SetDefault("addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("sequence.backend", string(utils.DBTypeMongo))
	v.SetDefault("sequence.lease_size", utils.DefaultLeaseSize)
	v.SetDefault("right.backend", string(utils.DBTypeMongo))
	v.SetDefault("right.max_retries", utils.DefaultMaxRetries)
	v.SetDefault("menu.backend", string(utils.DBTypeMongo))
	v.SetDefault("menu.cache_ttl", utils.DefaultMenuCacheTTL)
	v.SetDefault("http.login_required", false)
}

// Load 先读 config.yaml，再用 config.${CONFIG_ENV}.yaml 覆盖；paths 为空时用默认搜索路径
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = configPaths
	}
	v := viper.New()
	setDefaults(v)
	found := false

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}
	if err := v.ReadInConfig(); err == nil {
		found = true
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return nil, errors.Wrap(err, "读取基础配置失败")
	}

	env := os.Getenv("CONFIG_ENV")
	if env != "" {
		envViper := viper.New()
		envViper.SetConfigName("config." + env)
		envViper.SetConfigType("yaml")
		for _, path := range paths {
			envViper.AddConfigPath(path)
		}
		if err := envViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(envViper.AllSettings()); err != nil {
				return nil, errors.Wrap(err, "合并环境配置失败")
			}
			found = true
		} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "读取环境配置失败")
		}
	}
	if !found {
		return nil, errors.Errorf("未找到任何配置文件！请检查%v下是否有config.yaml或config.%s.yaml", paths, env)
	}
	return FromViper(v)
}

// FromViper 从已有的 viper 实例解析
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "解析配置失败")
	}
	if cfg.Sequence.LeaseSize <= 0 {
		return nil, errors.Errorf("sequence.lease_size must be positive, got %d", cfg.Sequence.LeaseSize)
	}
	if cfg.Right.MaxRetries <= 0 {
		return nil, errors.Errorf("right.max_retries must be positive, got %d", cfg.Right.MaxRetries)
	}
	cfg.Viper = v
	return cfg, nil
}
