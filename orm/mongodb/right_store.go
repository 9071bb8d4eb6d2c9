package mongodb

import (
	"context"
	"time"

	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RightStore rights / rightMappings 集合
type RightStore struct {
	mongo *Mongo
}

func NewRightStore(m *Mongo) *RightStore {
	return &RightStore{mongo: m}
}

func flagField(flag model.Flag) string {
	if flag == model.FlagGrant {
		return "authRightFlag"
	}
	return "reviewRightFlag"
}

func (s *RightStore) FindRight(ctx context.Context, subject model.Subject, flag model.Flag) (*model.Right, error) {
	var r model.Right
	filter := bson.M{"rightType": subject.Type, "authId": subject.ID, flagField(flag): 1}
	ok, err := s.mongo.FindOne(ctx, utils.CollRights, filter, &r, options.FindOne().SetSort(bson.D{{Key: "rightId", Value: 1}}))
	if err != nil {
		return nil, translate(err, "rights.findOne")
	}
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *RightStore) FindRightByID(ctx context.Context, rightID int64) (*model.Right, error) {
	var r model.Right
	ok, err := s.mongo.FindOne(ctx, utils.CollRights, bson.M{"rightId": rightID}, &r)
	if err != nil {
		return nil, translate(err, "rights.findById")
	}
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *RightStore) CreateRight(ctx context.Context, r *model.Right) error {
	return translate(s.mongo.InsertOne(ctx, utils.CollRights, r), "rights.insertOne")
}

func (s *RightStore) SetMappingsPending(ctx context.Context, rightID int64, pending bool) error {
	_, err := s.mongo.UpdateOne(ctx, utils.CollRights, bson.M{"rightId": rightID},
		bson.M{"$set": bson.M{"mappingsPending": pending, "updateTime": time.Now()}})
	return translate(err, "rights.setPending")
}

func (s *RightStore) ListRights(ctx context.Context, subjectType model.SubjectType, subjectIDs []int64) ([]model.Right, error) {
	rights := []model.Right{}
	if len(subjectIDs) == 0 {
		return rights, nil
	}
	filter := bson.M{"rightType": subjectType, "authId": bson.M{"$in": subjectIDs}}
	err := s.mongo.Find(ctx, utils.CollRights, filter, &rights, options.Find().SetSort(bson.D{{Key: "rightId", Value: 1}}))
	return rights, translate(err, "rights.find")
}

func (s *RightStore) PendingRights(ctx context.Context) ([]model.Right, error) {
	rights := []model.Right{}
	err := s.mongo.Find(ctx, utils.CollRights, bson.M{"mappingsPending": true}, &rights,
		options.Find().SetSort(bson.D{{Key: "rightId", Value: 1}}))
	return rights, translate(err, "rights.pending")
}

func (s *RightStore) DeleteMappings(ctx context.Context, rightID int64) error {
	_, err := s.mongo.DeleteMany(ctx, utils.CollRightMappings, bson.M{"rightId": rightID})
	return translate(err, "rightMappings.deleteMany")
}

func (s *RightStore) InsertMappings(ctx context.Context, rows []model.RightMapping) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	return translate(s.mongo.InsertMany(ctx, utils.CollRightMappings, docs), "rightMappings.insertMany")
}

func (s *RightStore) ListMappings(ctx context.Context, rightIDs []int64) ([]model.RightMapping, error) {
	rows := []model.RightMapping{}
	if len(rightIDs) == 0 {
		return rows, nil
	}
	err := s.mongo.Find(ctx, utils.CollRightMappings, bson.M{"rightId": bson.M{"$in": rightIDs}}, &rows,
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	return rows, translate(err, "rightMappings.find")
}
