package recordsRepo

import (
	"context"
	"time"

	"servio/database"
	"servio/models"
	"servio/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Append inserts a new audit entry and returns its ID.
func (r *mongoAuditRepo) Append(ctx context.Context, entry models.BookingAuditEntry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return "", database.MapError(err, "failed to append audit entry")
	}
	return entry.ID, nil
}

// ListByBooking returns a booking's status history oldest first.
func (r *mongoAuditRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.BookingAuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "changedAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, database.MapError(err, "failed to query audit entries")
	}
	defer cursor.Close(ctx)

	entries := []models.BookingAuditEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, database.MapError(err, "failed to decode audit entries")
	}
	return entries, nil
}

// Insert stores a notification and returns its ID.
func (r *mongoNotificationRepo) Insert(ctx context.Context, n models.Notification) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return "", database.MapError(err, "failed to insert notification")
	}
	return n.ID, nil
}

func (r *mongoNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{"recipientId": recipientID}, opts)
	if err != nil {
		return nil, database.MapError(err, "failed to query notifications")
	}
	defer cursor.Close(ctx)

	out := []models.Notification{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, database.MapError(err, "failed to decode notifications")
	}
	return out, nil
}
