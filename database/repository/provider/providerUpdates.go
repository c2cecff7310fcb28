package providerRepo

import (
	"context"
	"fmt"

	"servio/database"
	"servio/models"
	"servio/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *MongoProviderRepo) ReplaceTierState(ctx context.Context, state *models.ProviderTierState) error {
	return r.updateWithOperator(ctx, state.ProviderID, "$set", bson.M{
		"providerTier":       state.Tier,
		"performanceMetrics": state.Metrics,
		"tierAssignedAt":     state.TierAssignedAt,
	})
}

func (r *MongoProviderRepo) updateWithOperator(ctx context.Context, id, operator string, updateDoc bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	update := bson.M{operator: updateDoc}
	filter := bson.M{"id": id}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return database.MapError(err, fmt.Sprintf("failed to update provider with id %s", id))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("provider with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}
