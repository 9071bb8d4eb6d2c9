package mongodb

import (
	"context"

	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
	"go.mongodb.org/mongo-driver/bson"
)

// OrgStore departments / posts 集合
type OrgStore struct {
	mongo *Mongo
}

func NewOrgStore(m *Mongo) *OrgStore {
	return &OrgStore{mongo: m}
}

func (s *OrgStore) CreateDepartment(ctx context.Context, d *model.Department) error {
	return translate(s.mongo.InsertOne(ctx, utils.CollDepartments, d), "departments.insertOne")
}

func (s *OrgStore) FindDepartment(ctx context.Context, deptID int64) (*model.Department, error) {
	var d model.Department
	ok, err := s.mongo.FindOne(ctx, utils.CollDepartments, bson.M{"deptId": deptID}, &d)
	if err != nil {
		return nil, translate(err, "departments.findOne")
	}
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *OrgStore) SaveDepartment(ctx context.Context, d *model.Department) error {
	_, err := s.mongo.UpdateOne(ctx, utils.CollDepartments, bson.M{"deptId": d.DeptID}, bson.M{"$set": d})
	return translate(err, "departments.updateOne")
}

func (s *OrgStore) CreatePost(ctx context.Context, p *model.Post) error {
	return translate(s.mongo.InsertOne(ctx, utils.CollPosts, p), "posts.insertOne")
}

func (s *OrgStore) FindPost(ctx context.Context, postID int64) (*model.Post, error) {
	var p model.Post
	ok, err := s.mongo.FindOne(ctx, utils.CollPosts, bson.M{"postId": postID}, &p)
	if err != nil {
		return nil, translate(err, "posts.findOne")
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *OrgStore) SavePost(ctx context.Context, p *model.Post) error {
	_, err := s.mongo.UpdateOne(ctx, utils.CollPosts, bson.M{"postId": p.PostID}, bson.M{"$set": p})
	return translate(err, "posts.updateOne")
}
