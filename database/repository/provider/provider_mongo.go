package providerRepo

import (
	"context"
	"fmt"

	"servio/database"
	"servio/models"
	"servio/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo(db *mongo.Database) (ProviderRepository, error) {
	repo := &MongoProviderRepo{coll: db.Collection("providers")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoProviderRepo) GetProfile(ctx context.Context, id string) (*models.ProviderProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	var profile models.ProviderProfile
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&profile); err != nil {
		return nil, database.MapError(err, fmt.Sprintf("failed to fetch provider with id %s", id))
	}
	return &profile, nil
}

// legacyFilter selects providers missing any part of the tier state. An
// equality match on null covers both absent fields and explicit nulls.
func legacyFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"providerTier": nil},
		bson.M{"providerTier": ""},
		bson.M{"providerTier": "STANDARD"},
		bson.M{"performanceMetrics": nil},
		bson.M{"tierAssignedAt": nil},
	}}
}

func (r *MongoProviderRepo) FindLegacy(ctx context.Context, limit int) ([]models.ProviderProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*utils.StoreTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, legacyFilter(), opts)
	if err != nil {
		return nil, database.MapError(err, "failed to query legacy providers")
	}
	defer cursor.Close(ctx)

	var providers []models.ProviderProfile
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, database.MapError(err, "failed to decode providers")
	}
	return providers, nil
}

func (r *MongoProviderRepo) CountLegacy(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, legacyFilter())
	if err != nil {
		return 0, database.MapError(err, "failed to count legacy providers")
	}
	return int(n), nil
}
