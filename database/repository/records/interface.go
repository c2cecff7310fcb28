package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"servio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRepository is the append-only booking status log.
type AuditRepository interface {
	Append(ctx context.Context, entry models.BookingAuditEntry) (string, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.BookingAuditEntry, error)
}

// NotificationRepository is the durable store of in-app notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, n models.Notification) (string, error)
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
}

type mongoAuditRepo struct {
	coll *mongo.Collection
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo returns an AuditRepository backed by "booking_audit".
func NewMongoAuditRepo(db *mongo.Database) (AuditRepository, error) {
	coll := db.Collection("booking_audit")
	if err := ensureIndex(coll, bson.D{{Key: "bookingId", Value: 1}, {Key: "changedAt", Value: 1}}); err != nil {
		return nil, err
	}
	return &mongoAuditRepo{coll: coll}, nil
}

// NewMongoNotificationRepo returns a NotificationRepository backed by "notifications".
func NewMongoNotificationRepo(db *mongo.Database) (NotificationRepository, error) {
	coll := db.Collection("notifications")
	if err := ensureIndex(coll, bson.D{{Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}}); err != nil {
		return nil, err
	}
	return &mongoNotificationRepo{coll: coll}, nil
}

func ensureIndex(coll *mongo.Collection, keys bson.D) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys}); err != nil {
		return fmt.Errorf("failed to create %s index: %w", coll.Name(), err)
	}
	return nil
}
