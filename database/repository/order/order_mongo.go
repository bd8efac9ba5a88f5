package orderRepo

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

// MongoOrderRepo implements OrderRepository using MongoDB.
type MongoOrderRepo struct {
	coll *mongo.Collection
}

// NewMongoOrderRepo creates a new instance of OrderRepository using MongoDB.
func NewMongoOrderRepo() OrderRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("orders")
	repo := &MongoOrderRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoOrderRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "service_slug", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new order document.
func (r *MongoOrderRepo) Create(order *models.Order) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update applies only the mutable draft fields. User and service identity
// are deliberately not part of the update document.
func (r *MongoOrderRepo) Update(id string, upd models.OrderUpdate) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{
		"meta":       upd.Meta,
		"updated_at": time.Now(),
	}
	if upd.ScheduleID != "" {
		set["schedule_id"] = upd.ScheduleID
	}
	if upd.StartTime != nil {
		set["start_time"] = upd.StartTime
	}
	if upd.EndTime != nil {
		set["end_time"] = upd.EndTime
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update order with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return nil
}

// GetByID retrieves an order by its unique ID.
func (r *MongoOrderRepo) GetByID(id string) (*models.Order, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order with id %s: %w", id, err)
	}
	return &order, nil
}

// GetByReference retrieves an order by its human-readable reference.
func (r *MongoOrderRepo) GetByReference(ref string) (*models.Order, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"reference": ref}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order ref %s: %w", ref, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order with reference %s: %w", ref, err)
	}
	return &order, nil
}

// MarkPaid sets payment_status to paid. Matching on a pending payment status
// makes the call idempotent: a second invocation matches nothing and is a no-op.
func (r *MongoOrderRepo) MarkPaid(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "payment_status": bson.M{"$ne": models.PaymentStatusPaid}}
	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentStatusPaid,
		"status":         models.OrderStatusConfirmed,
		"updated_at":     time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark order %s paid: %w", id, err)
	}
	if result.MatchedCount == 0 {
		// Already paid, or missing. Distinguish so callers can react to a true miss.
		if _, err := r.GetByID(id); err != nil {
			return err
		}
	}
	return nil
}

// ListByUser returns the user's orders, newest first.
func (r *MongoOrderRepo) ListByUser(userID string) ([]models.Order, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	for cursor.Next(ctx) {
		var o models.Order
		if err := cursor.Decode(&o); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}
