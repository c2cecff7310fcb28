package database

import (
	"context"
	"errors"
	"fmt"

	"servio/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// MapError translates driver errors into the engine's error taxonomy so that
// services never depend on mongo types. what names the failed operation.
func MapError(err error, what string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", what, models.ErrDuplicate)
	case errors.Is(err, context.DeadlineExceeded),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%s: %w: %v", what, models.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
