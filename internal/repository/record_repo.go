package repository

import (
	"context"
	"fmt"
	"time"

	"surveysync/internal/logger"
	"surveysync/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordRepo is the gateway to the external record store. Records are
// soft-deactivated, never deleted.
type RecordRepo interface {
	// Containers
	GetContainer(ctx context.Context, id string) (*model.Container, error)
	UpsertContainer(ctx context.Context, container *model.Container) error

	// Answer records
	ListByContainer(ctx context.Context, containerID string) ([]*model.AnswerRecord, error)
	Create(ctx context.Context, record *model.AnswerRecord) (string, error)
	Update(ctx context.Context, record *model.AnswerRecord) error
	Deactivate(ctx context.Context, id string) error
	LinkChildToParent(ctx context.Context, childID, parentID string) error
}

type mongoRecordRepo struct {
	containers *mongo.Collection
	records    *mongo.Collection
	log        *logger.Logger
}

// NewRecordRepo creates a MongoDB-backed record repository with indexes.
func NewRecordRepo(db *mongo.Database, log *logger.Logger) RecordRepo {
	repo := &mongoRecordRepo{
		containers: db.Collection("containers"),
		records:    db.Collection("answer_records"),
		log:        log,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *mongoRecordRepo) ensureIndexes(ctx context.Context) {
	r.createIndex(ctx, r.records, bson.D{{Key: "container_id", Value: 1}}, false)
	r.createIndex(ctx, r.records, bson.D{
		{Key: "container_id", Value: 1},
		{Key: "name", Value: 1},
	}, false)
	r.createIndex(ctx, r.records, bson.D{
		{Key: "container_id", Value: 1},
		{Key: "active", Value: 1},
		{Key: "number", Value: 1},
	}, false)
}

func (r *mongoRecordRepo) createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		r.log.Warn("failed to create index", "collection", coll.Name(), "error", err)
	}
}

// Container methods

func (r *mongoRecordRepo) GetContainer(ctx context.Context, id string) (*model.Container, error) {
	var container model.Container
	err := r.containers.FindOne(ctx, bson.M{"_id": id}).Decode(&container)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch container %s: %w", id, err)
	}
	return &container, nil
}

func (r *mongoRecordRepo) UpsertContainer(ctx context.Context, container *model.Container) error {
	now := time.Now()
	if container.CreatedAt.IsZero() {
		container.CreatedAt = now
	}
	container.UpdatedAt = now
	opts := options.Replace().SetUpsert(true)
	_, err := r.containers.ReplaceOne(ctx, bson.M{"_id": container.ID}, container, opts)
	return err
}

// Answer record methods

func (r *mongoRecordRepo) ListByContainer(ctx context.Context, containerID string) ([]*model.AnswerRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.records.Find(ctx, bson.M{"container_id": containerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query answer records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.AnswerRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode answer records: %w", err)
	}
	return records, nil
}

func (r *mongoRecordRepo) Create(ctx context.Context, record *model.AnswerRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if _, err := r.records.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create answer record %s: %w", record.Name, err)
	}
	return record.ID, nil
}

func (r *mongoRecordRepo) Update(ctx context.Context, record *model.AnswerRecord) error {
	record.UpdatedAt = time.Now()
	res, err := r.records.ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	if err != nil {
		return fmt.Errorf("failed to update answer record %s: %w", record.Name, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("answer record %s not found", record.ID)
	}
	return nil
}

func (r *mongoRecordRepo) Deactivate(ctx context.Context, id string) error {
	_, err := r.records.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"active": false, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate answer record %s: %w", id, err)
	}
	return nil
}

func (r *mongoRecordRepo) LinkChildToParent(ctx context.Context, childID, parentID string) error {
	_, err := r.records.UpdateOne(ctx, bson.M{"_id": childID}, bson.M{
		"$set": bson.M{"parent_id": parentID, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to link record %s to parent %s: %w", childID, parentID, err)
	}
	return nil
}
