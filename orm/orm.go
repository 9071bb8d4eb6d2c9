package orm

import (
	"context"
	"database/sql"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Orm struct {
	db *gorm.DB
}

func dialector(dsn string, dbType utils.DBType) (gorm.Dialector, error) {
	switch dbType {
	case utils.DBTypeMySQL:
		return mysql.Open(dsn), nil
	case utils.DBTypePostgres:
		return postgres.Open(dsn), nil
	case utils.DBTypeSQLite:
		return sqlite.Open(dsn), nil
	}
	return nil, errors.Errorf("unsupported relational db type: %s", dbType)
}

// NewOrm slowMs 为慢SQL阈值（毫秒），<=0 时不记录慢SQL
func NewOrm(dsn string, dbType utils.DBType, slowMs int, level ...logger.LogLevel) (*Orm, error) {
	log.Infof("NewOrm param: dbType=%s slow=%dms", dbType, slowMs)
	d, err := dialector(dsn, dbType)
	if err != nil {
		return nil, err
	}
	logLevel := logger.Warn
	if len(level) > 0 {
		logLevel = level[0]
	}
	queryLogger := log.NewSlowQueryLogger(time.Duration(slowMs)*time.Millisecond, logLevel)
	db, err := gorm.Open(d, &gorm.Config{
		Logger:         queryLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s connect failed", dbType)
	}
	return &Orm{db: db}, nil
}

func (o *Orm) DB() (*sql.DB, error) {
	return o.db.DB()
}

func (o *Orm) AutoMigrate(ptrs ...interface{}) error {
	return o.db.AutoMigrate(ptrs...)
}

// Migrate 建表：序列、权限、映射、菜单、按钮、部门、岗位
func (o *Orm) Migrate() error {
	return o.AutoMigrate(&model.Sequence{}, &model.Right{}, &model.RightMapping{}, &model.Menu{}, &model.MenuBtn{},
		&model.Department{}, &model.Post{})
}

func (o *Orm) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return o.db.WithContext(ctx).Transaction(fn)
}

func (o *Orm) Create(ctx context.Context, ptr interface{}) error {
	return o.db.WithContext(ctx).Create(ptr).Error
}

func (o *Orm) First(ctx context.Context, res interface{}, filters ...interface{}) error {
	return o.db.WithContext(ctx).First(res, filters...).Error
}

func (o *Orm) FindAll(ctx context.Context, res interface{}, filters ...interface{}) error {
	db := o.db.WithContext(ctx)
	if len(filters) > 0 {
		return db.Where(filters[0], filters[1:]...).Find(res).Error
	}
	return db.Find(res).Error
}

func (o *Orm) FindAllWithOrder(ctx context.Context, res interface{}, order interface{}, filters ...interface{}) error {
	db := o.db.WithContext(ctx).Order(order)
	if len(filters) > 0 {
		return db.Where(filters[0], filters[1:]...).Find(res).Error
	}
	return db.Find(res).Error
}

func (o *Orm) Close() error {
	sqlDB, err := o.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate gorm 错误转成权限核心的错误分类
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Duplicate(err, msg)
	}
	return errs.Storage(err, msg)
}
