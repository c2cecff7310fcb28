package bookingRepo

import (
	"context"
	"errors"
	"fmt"

	"servio/database"
	"servio/models"
	"servio/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs the repository and ensures its indexes.
func NewMongoBookingRepo(db *mongo.Database) (BookingRepository, error) {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return database.MapError(err, "error creating booking")
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, database.MapError(err, fmt.Sprintf("error fetching booking %s", id))
	}
	return &booking, nil
}

// UpdateStatus is a single conditional update: set status where id and the
// previously read status both match.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, upd StatusUpdate) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	filter := bson.M{
		"id":     upd.BookingID,
		"status": upd.Expected,
	}
	set := bson.M{
		"status":    upd.Next,
		"updatedAt": upd.At,
		"updatedBy": upd.UpdatedBy,
	}
	if upd.Next == models.BookingCancelled && upd.CancellationReason != "" {
		set["cancellationReason"] = upd.CancellationReason
	}

	return r.findOneAndUpdate(ctx, filter, bson.M{"$set": set}, upd.BookingID)
}

func (r *MongoBookingRepo) AppendReschedule(ctx context.Context, bookingID string, entry models.RescheduleEntry) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	filter := bson.M{
		"id":     bookingID,
		"status": models.BookingConfirmed,
		"date":   entry.OriginalDate,
		"time":   entry.OriginalTime,
	}
	return r.findOneAndUpdate(ctx, filter, rescheduleUpdate(entry), bookingID)
}

func (r *MongoBookingRepo) AppendProviderNote(ctx context.Context, bookingID string, note models.ProviderNote) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	update := mongo.Pipeline{{{Key: "$set", Value: appendToArray("providerNotes", note)}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": bookingID}, update, opts).Decode(&booking); err != nil {
		return nil, database.MapError(err, fmt.Sprintf("error adding note to booking %s", bookingID))
	}
	return &booking, nil
}

// rescheduleUpdate moves the booking to the new slot and appends entry to its
// history in one pipeline update.
func rescheduleUpdate(entry models.RescheduleEntry) mongo.Pipeline {
	set := appendToArray("rescheduleHistory", entry)
	set["date"] = literal(entry.NewDate)
	set["time"] = literal(entry.NewTime)
	set["updatedAt"] = entry.ChangedAt
	set["updatedBy"] = literal(entry.ChangedBy)
	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

// appendToArray is the $set stage body appending item to field. $push fails
// on documents where the field is null, so the array is rebuilt with $ifNull.
func appendToArray(field string, item any) bson.M {
	return bson.M{
		field: bson.M{"$concatArrays": bson.A{
			bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}},
			bson.A{literal(item)},
		}},
	}
}

// literal keeps user text that starts with "$" from being read as a field path.
func literal(v any) bson.M {
	return bson.M{"$literal": v}
}

func (r *MongoBookingRepo) CountByProviderAndStatus(ctx context.Context, providerID string, status models.BookingStatus) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"providerId": providerID, "status": status})
	if err != nil {
		return 0, database.MapError(err, "error counting bookings")
	}
	return int(n), nil
}

// findOneAndUpdate applies a conditional update. No match means another writer
// changed the booking after it was read, so it is reported as a lost race.
func (r *MongoBookingRepo) findOneAndUpdate(ctx context.Context, filter bson.M, update any, bookingID string) (*models.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("booking %s changed concurrently: %w", bookingID, models.ErrConcurrentModification)
	}
	if err != nil {
		return nil, database.MapError(err, fmt.Sprintf("error updating booking %s", bookingID))
	}
	return &booking, nil
}
