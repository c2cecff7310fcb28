package database

import (
	"context"
	"errors"
	"testing"

	"servio/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil, "noop"))
	assert.ErrorIs(t, MapError(mongo.ErrNoDocuments, "get booking"), models.ErrNotFound)
	assert.ErrorIs(t, MapError(context.DeadlineExceeded, "get booking"), models.ErrStoreUnavailable)
	assert.ErrorIs(t, MapError(mongo.ErrClientDisconnected, "get booking"), models.ErrStoreUnavailable)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, MapError(dup, "insert tx"), models.ErrDuplicate)

	other := errors.New("boom")
	mapped := MapError(other, "op")
	assert.ErrorIs(t, mapped, other)
	assert.NotErrorIs(t, mapped, models.ErrStoreUnavailable)
}
