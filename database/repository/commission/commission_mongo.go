package commissionRepo

import (
	"context"
	"fmt"
	"time"

	"servio/database"
	"servio/models"
	"servio/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// configID is the _id of the singleton commission document.
const configID = "global"

// DefaultHistoryLimit caps History when the caller passes no limit.
const DefaultHistoryLimit = 50

// MongoCommissionRepo implements CommissionRepository using MongoDB.
type MongoCommissionRepo struct {
	configColl  *mongo.Collection
	historyColl *mongo.Collection
}

// NewMongoCommissionRepo creates the repository and its history indexes.
func NewMongoCommissionRepo(db *mongo.Database) (*MongoCommissionRepo, error) {
	repo := &MongoCommissionRepo{
		configColl:  db.Collection("commission_config"),
		historyColl: db.Collection("commission_rate_history"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.historyColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "changedAt", Value: -1}}},
		{Keys: bson.D{{Key: "tier", Value: 1}, {Key: "changedAt", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create commission history indexes: %w", err)
	}
	return repo, nil
}

func (r *MongoCommissionRepo) GetConfig(ctx context.Context) (*models.CommissionConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	var cfg models.CommissionConfig
	if err := r.configColl.FindOne(ctx, bson.M{"_id": configID}).Decode(&cfg); err != nil {
		return nil, database.MapError(err, "failed to fetch commission config")
	}
	return &cfg, nil
}

func (r *MongoCommissionRepo) SaveRates(ctx context.Context, cfg *models.CommissionConfig, expectedVersion int64, changes []models.CommissionRateChange) error {
	ctx, cancel := context.WithTimeout(ctx, 2*utils.StoreTimeout)
	defer cancel()

	client := r.configColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return database.MapError(err, "could not start mongo session")
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"_id": configID, "version": expectedVersion}
		doc := bson.M{
			"_id":       configID,
			"rates":     cfg.Rates,
			"version":   cfg.Version,
			"updatedAt": cfg.UpdatedAt,
			"updatedBy": cfg.UpdatedBy,
			"reason":    cfg.Reason,
		}
		// The first write has nothing to match and inserts; afterwards a stale
		// version misses the filter and collides on _id.
		opts := options.Replace().SetUpsert(expectedVersion == 0)
		res, err := r.configColl.ReplaceOne(sc, filter, doc, opts)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return models.ErrConcurrentModification
			}
			return database.MapError(err, "replace commission config failed")
		}
		if res.MatchedCount == 0 && res.UpsertedCount == 0 {
			return models.ErrConcurrentModification
		}

		if len(changes) == 0 {
			return nil
		}
		docs := make([]interface{}, 0, len(changes))
		for _, c := range changes {
			docs = append(docs, c)
		}
		if _, err := r.historyColl.InsertMany(sc, docs); err != nil {
			return database.MapError(err, "append rate history failed")
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("commission rate transaction failed: %w", err)
	}
	return nil
}

func (r *MongoCommissionRepo) History(ctx context.Context, tier models.Tier, limit int) ([]models.CommissionRateChange, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	filter := bson.M{}
	if tier != "" {
		filter["tier"] = tier
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "changedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.historyColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.MapError(err, "failed to query rate history")
	}
	defer cursor.Close(ctx)

	changes := []models.CommissionRateChange{}
	if err := cursor.All(ctx, &changes); err != nil {
		return nil, database.MapError(err, "failed to decode rate history")
	}
	return changes, nil
}
