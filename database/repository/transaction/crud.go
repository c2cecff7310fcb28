package transactionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servio/database"
	"servio/models"
	"servio/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoTransactionRepo returns a TransactionRepository backed by the
// "transactions" collection.
func NewMongoTransactionRepo(db *mongo.Database) (TransactionRepository, error) {
	repo := &mongoTransactionRepo{coll: db.Collection("transactions")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *mongoTransactionRepo) CreateOnce(ctx context.Context, tx *models.PaymentTransaction) (*models.PaymentTransaction, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, tx)
	if err == nil {
		return tx, true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false, database.MapError(err, "failed to insert transaction")
	}

	// unique bookingId: a retry of the same completion lands here
	var existing models.PaymentTransaction
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": tx.BookingID}).Decode(&existing); err != nil {
		return nil, false, database.MapError(err, fmt.Sprintf("failed to load transaction for booking %s", tx.BookingID))
	}
	return &existing, false, nil
}

func (r *mongoTransactionRepo) GetByID(ctx context.Context, id string) (*models.PaymentTransaction, error) {
	return r.findOne(ctx, bson.M{"id": id}, "transaction "+id)
}

func (r *mongoTransactionRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.PaymentTransaction, error) {
	return r.findOne(ctx, bson.M{"bookingId": bookingID}, "transaction for booking "+bookingID)
}

func (r *mongoTransactionRepo) findOne(ctx context.Context, filter bson.M, what string) (*models.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	var tx models.PaymentTransaction
	if err := r.coll.FindOne(ctx, filter).Decode(&tx); err != nil {
		return nil, database.MapError(err, "failed to fetch "+what)
	}
	return &tx, nil
}

// UpdatePaymentStatus touches only paymentStatus and updatedAt; amounts are fixed at creation.
func (r *mongoTransactionRepo) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"paymentStatus": status, "updatedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tx models.PaymentTransaction
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, database.MapError(err, "failed to update payment status")
	}
	return &tx, nil
}

func (r *mongoTransactionRepo) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*utils.StoreTimeout)
	defer cancel()

	filter := bson.M{
		"paymentStatus": models.PaymentCompleted,
		"createdAt":     bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.MapError(err, "failed to query transactions")
	}
	defer cursor.Close(ctx)

	var txs []models.PaymentTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, database.MapError(err, "failed to decode transactions")
	}
	return txs, nil
}
