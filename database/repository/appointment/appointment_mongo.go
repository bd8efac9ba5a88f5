package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("appointments")
	repo := &MongoAppointmentRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "schedule_id", Value: 1}, {Key: "start", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new appointment document.
func (r *MongoAppointmentRepo) Create(appt *models.Appointment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	appt.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByOrder retrieves the appointment attached to an order.
func (r *MongoAppointmentRepo) GetByOrder(orderID string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("appointment for order %s: %w", orderID, ErrAppointmentNotFound)
		}
		return nil, fmt.Errorf("failed to fetch appointment for order %s: %w", orderID, err)
	}
	return &appt, nil
}

// CountByStart returns booked-appointment counts per "HH:MM" start label for
// a schedule within [dayStart, dayEnd).
func (r *MongoAppointmentRepo) CountByStart(scheduleID string, dayStart, dayEnd time.Time) (map[string]int, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"schedule_id": scheduleID,
		"status":      "booked",
		"start":       bson.M{"$gte": dayStart, "$lt": dayEnd},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments for schedule %s: %w", scheduleID, err)
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int)
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			return nil, fmt.Errorf("failed to decode appointment: %w", err)
		}
		counts[appt.Start.In(dayStart.Location()).Format("15:04")]++
	}
	return counts, nil
}
