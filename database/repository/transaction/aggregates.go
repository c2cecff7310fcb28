package transactionRepo

import (
	"context"

	"servio/database"
	"servio/models"
	"servio/utils"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type payoutSum struct {
	Total decimal.Decimal `bson:"total"`
}

func (r *mongoTransactionRepo) SumCompletedPayouts(ctx context.Context, providerID string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "providerId", Value: providerID},
			{Key: "paymentStatus", Value: models.PaymentCompleted},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$providerPayout"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return decimal.Zero, database.MapError(err, "failed to sum provider payouts")
	}
	defer cursor.Close(ctx)

	var rows []payoutSum
	if err := cursor.All(ctx, &rows); err != nil {
		return decimal.Zero, database.MapError(err, "failed to decode payout sum")
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return rows[0].Total, nil
}
