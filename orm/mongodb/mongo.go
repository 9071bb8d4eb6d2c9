package mongodb

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo Mongo客户端封装（对齐ORM结构）
type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
	timeout  time.Duration // 单次调用超时
}

// NewMongo 连接并 ping，数据库名从 dsn 的 path 中解析
//
//	dsn: mongodb://127.0.0.1:27017/right?ssl=false
//	timeout: 连接超时（秒）
func NewMongo(dsn string, timeout int) (*Mongo, error) {
	dbName, err := parseDBNameFromDSN(dsn)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = int(utils.DefaultMongoConnectTimeout.Seconds())
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect failed")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping failed")
	}
	log.Infof("mongo connected, database=%s", dbName)
	return NewMongoFromDatabase(client.Database(dbName)), nil
}

// NewMongoFromDatabase 包装已有的数据库句柄
func NewMongoFromDatabase(db *mongo.Database) *Mongo {
	return &Mongo{
		client:   db.Client(),
		database: db,
		timeout:  utils.DefaultStoreTimeout,
	}
}

// parseDBNameFromDSN DSN格式：mongodb://host:port/[dbname]?param1=value1
func parseDBNameFromDSN(dsn string) (string, error) {
	uri, err := url.Parse(dsn)
	if err != nil {
		return "", errors.Wrap(err, "invalid dsn format")
	}
	dbName := strings.TrimPrefix(uri.Path, "/")
	if dbName == "" {
		return "", errors.New("dsn missing database name (format: mongodb://host:port/[dbname]?xxx)")
	}
	return dbName, nil
}

// Close 关闭连接
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Collection 获取集合（类似ORM的Table）
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// callCtx 调用方没有设置截止时间时加上默认的单次超时
func (m *Mongo) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}

// Find 查询多条数据
func (m *Mongo) Find(ctx context.Context, collName string, filter interface{}, result interface{}, opts ...*options.FindOptions) error {
	dbCtx, cancel := m.callCtx(ctx)
	defer cancel()
	cursor, err := m.Collection(collName).Find(dbCtx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(dbCtx)
	return cursor.All(dbCtx, result)
}

// FindOne 查不到时返回 false, nil
func (m *Mongo) FindOne(ctx context.Context, collName string, filter interface{}, result interface{}, opts ...*options.FindOneOptions) (bool, error) {
	dbCtx, cancel := m.callCtx(ctx)
	defer cancel()
	err := m.Collection(collName).FindOne(dbCtx, filter, opts...).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

func (m *Mongo) InsertOne(ctx context.Context, collName string, doc interface{}) error {
	dbCtx, cancel := m.callCtx(ctx)
	defer cancel()
	_, err := m.Collection(collName).InsertOne(dbCtx, doc)
	return err
}

func (m *Mongo) InsertMany(ctx context.Context, collName string, docs []interface{}) error {
	dbCtx, cancel := m.callCtx(ctx)
	defer cancel()
	_, err := m.Collection(collName).InsertMany(dbCtx, docs)
	return err
}

func (m *Mongo) UpdateOne(ctx context.Context, collName string, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	dbCtx, cancel := m.callCtx(ctx)
	defer cancel()
	return m.Collection(collName).UpdateOne(dbCtx, filter, update, opts...)
}

func (m *Mongo) DeleteMany(ctx context.Context, collName string, filter interface{}) (int64, error) {
	dbCtx, cancel := m.callCtx(ctx)
	defer cancel()
	res, err := m.Collection(collName).DeleteMany(dbCtx, filter)
	if res == nil {
		return 0, err
	}
	return res.DeletedCount, err
}

func (m *Mongo) FindOneAndUpdate(ctx context.Context, collName string, filter, update interface{}, result interface{}, opts ...*options.FindOneAndUpdateOptions) error {
	dbCtx, cancel := m.callCtx(ctx)
	defer cancel()
	return m.Collection(collName).FindOneAndUpdate(dbCtx, filter, update, opts...).Decode(result)
}

// CreateIndexes 批量建索引
func (m *Mongo) CreateIndexes(ctx context.Context, collName string, models []mongo.IndexModel) error {
	dbCtx, cancel := m.callCtx(ctx)
	defer cancel()
	_, err := m.Collection(collName).Indexes().CreateMany(dbCtx, models)
	return err
}

// translate 驱动错误转成权限核心的错误分类
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return errs.Duplicate(err, msg)
	}
	return errs.Storage(err, msg)
}

// EnsureIndexes 建立唯一索引与查询索引
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		utils.CollSequences: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		utils.CollRights: {
			{Keys: bson.D{{Key: "rightId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "rightType", Value: 1}, {Key: "authId", Value: 1}, {Key: "authRightFlag", Value: 1}, {Key: "reviewRightFlag", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "mappingsPending", Value: 1}}},
		},
		utils.CollRightMappings: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "rightId", Value: 1}, {Key: "menuId", Value: 1}, {Key: "btnId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		utils.CollMenus: {
			{Keys: bson.D{{Key: "menuId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "menuCode", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		utils.CollMenuBtns: {
			{Keys: bson.D{{Key: "btnId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "btnCode", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "menuId", Value: 1}}},
		},
		utils.CollDepartments: {
			{Keys: bson.D{{Key: "deptId", Value: 1}}, Options: unique},
		},
		utils.CollPosts: {
			{Keys: bson.D{{Key: "postId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "deptId", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if err := m.CreateIndexes(ctx, coll, models); err != nil {
			return errs.Storage(err, "create indexes on "+coll)
		}
	}
	return nil
}
