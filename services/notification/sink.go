package notification

import (
	"context"

	recordsRepo "servio/database/repository/records"
	"servio/models"
)

// RepoSink stores notifications in the notifications collection.
type RepoSink struct {
	Repo recordsRepo.NotificationRepository
}

func (s RepoSink) Record(ctx context.Context, n models.Notification) error {
	_, err := s.Repo.Insert(ctx, n)
	return err
}
