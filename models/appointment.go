package models

import "time"

// Appointment is a confirmed calendar booking tied to an order.
type Appointment struct {
	ID         string    `bson:"id" json:"id"`
	OrderID    string    `bson:"order_id" json:"order_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	ScheduleID string    `bson:"schedule_id" json:"schedule_id"`
	Start      time.Time `bson:"start" json:"start"`
	End        time.Time `bson:"end" json:"end"`
	Status     string    `bson:"status" json:"status"` // e.g. "booked", "cancelled"
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// ReminderPayload is the queued payload for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	OrderID       string `json:"orderId"`
	UserID        string `json:"userId"`
	FireDate      string `json:"fireDate"`
	Title         string `json:"title"`
	Body          string `json:"body"`
}
