package mongodb

import (
	"context"

	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceCounter sequences 集合上的 findOneAndUpdate($inc, upsert)
type SequenceCounter struct {
	mongo *Mongo
}

func NewSequenceCounter(m *Mongo) *SequenceCounter {
	return &SequenceCounter{mongo: m}
}

func (c *SequenceCounter) IncrBy(ctx context.Context, name string, delta int64) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var seq model.Sequence
	var err error
	// 两个进程同时创建同一个计数器时，后到的 upsert 会撞唯一索引，重试一次即可命中已有文档
	for attempt := 0; attempt < 2; attempt++ {
		err = c.mongo.FindOneAndUpdate(ctx, utils.CollSequences,
			bson.M{"name": name}, bson.M{"$inc": bson.M{"seq": delta}}, &seq, opts)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
		log.Warnf("sequence %s upsert raced, retrying", name)
	}
	if err != nil {
		return 0, translate(err, "sequences.incr "+name)
	}
	return seq.Seq, nil
}
