package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmabook/database"
	"pharmabook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo creates a new instance of ScheduleRepository using MongoDB.
func NewMongoScheduleRepo() ScheduleRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("schedules")
	repo := &MongoScheduleRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoScheduleRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "service_slug", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a schedule by its unique ID.
func (r *MongoScheduleRepo) GetByID(id string) (*models.Schedule, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var sched models.Schedule
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&sched); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("schedule %s: %w", id, ErrScheduleNotFound)
		}
		return nil, fmt.Errorf("failed to fetch schedule with id %s: %w", id, err)
	}
	return &sched, nil
}

// GetByServiceSlug retrieves the schedule attached to a service.
func (r *MongoScheduleRepo) GetByServiceSlug(slug string) (*models.Schedule, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var sched models.Schedule
	if err := r.coll.FindOne(ctx, bson.M{"service_slug": slug}).Decode(&sched); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("schedule for service %s: %w", slug, ErrScheduleNotFound)
		}
		return nil, fmt.Errorf("failed to fetch schedule for service %s: %w", slug, err)
	}
	return &sched, nil
}
