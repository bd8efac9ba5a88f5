package serviceRepo

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

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	services  *mongo.Collection
	medicines *mongo.Collection
}

// NewMongoServiceRepo creates a new instance of ServiceRepository using MongoDB.
func NewMongoServiceRepo() ServiceRepository {
	db := database.MongoClient.Database(database.DBName)
	repo := &MongoServiceRepo{
		services:  db.Collection("services"),
		medicines: db.Collection("medicines"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoServiceRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.services.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	if _, err := r.medicines.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "service_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create medicine indexes: %w", err)
	}
	return nil
}

// GetAll retrieves all active services.
func (r *MongoServiceRepo) GetAll() ([]models.Service, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.services.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	for cursor.Next(ctx) {
		var s models.Service
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode service: %w", err)
		}
		services = append(services, s)
	}
	return services, nil
}

// GetBySlug retrieves a service by its URL slug.
func (r *MongoServiceRepo) GetBySlug(slug string) (*models.Service, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var svc models.Service
	if err := r.services.FindOne(ctx, bson.M{"slug": slug}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("service %s: %w", slug, ErrServiceNotFound)
		}
		return nil, fmt.Errorf("failed to fetch service with slug %s: %w", slug, err)
	}
	return &svc, nil
}

// MedicinesByService retrieves the medicines dispensed under a service.
func (r *MongoServiceRepo) MedicinesByService(serviceID string) ([]models.Medicine, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.medicines.Find(ctx, bson.M{"service_id": serviceID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve medicines for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	var meds []models.Medicine
	for cursor.Next(ctx) {
		var m models.Medicine
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode medicine: %w", err)
		}
		meds = append(meds, m)
	}
	return meds, nil
}
