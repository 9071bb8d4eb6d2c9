package dbconfig

import (
	"strings"
	"testing"

	"github.com/goodbye-jack/go-right/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	return v
}

func TestLoadMongo(t *testing.T) {
	v := newViper(t, `
databases:
  mongo:
    default:
      host: 127.0.0.1
      port: 27017
      database: right
`)
	cfg, err := LoadDBConfig(v, "mongo.default")
	require.NoError(t, err)
	assert.Equal(t, utils.DBTypeMongo, cfg.DBType)
	dsn := cfg.GenDSN()
	assert.True(t, strings.HasPrefix(dsn, "mongodb://127.0.0.1:27017/right?"), dsn)
	assert.Contains(t, dsn, "maxPoolSize=20")
	assert.Contains(t, dsn, "ssl=false")
}

func TestLoadMySQLMissingFields(t *testing.T) {
	v := newViper(t, `
databases:
  mysql:
    default:
      host: db
`)
	_, err := LoadDBConfig(v, "mysql.default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestLoadSQLiteAndRedis(t *testing.T) {
	v := newViper(t, `
databases:
  sqlite:
    default:
      database: right.db
      slow_time: 200
  redis:
    cache:
      host: localhost
      port: 6379
      password: pw
      db_index: 2
`)
	cfg, err := LoadDBConfig(v, "sqlite.default")
	require.NoError(t, err)
	assert.Equal(t, "right.db", cfg.GenDSN())
	assert.Equal(t, 200, cfg.SlowTime)

	rcfg, err := LoadDBConfig(v, "redis.cache")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rcfg.GenDSN(), "redis://:pw@localhost:6379/2?"), rcfg.GenDSN())
}

func TestLoadBadKey(t *testing.T) {
	v := viper.New()
	_, err := LoadDBConfig(v, "mysql")
	assert.Error(t, err)
	_, err = LoadDBConfig(v, "mysql.none")
	assert.Error(t, err)
}
