package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bcambl/cub/internal/pkg/participant"
)

// Restore replays every record in the backup file as a create-user call, in
// file order. API errors are recorded per user and do not stop the run; a
// 409 is reported as "User <id> already exists". Network and authentication
// errors end the run and are returned with the partial result.
//
// A missing backup file returns a *BackupNotFoundError and no result.
func (s *Service) Restore(ctx context.Context) (*RestoreResult, error) {
	start := time.Now()

	name, err := s.Filename()
	if err != nil {
		return nil, err
	}
	users, err := Load(name)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(log.Fields{"file": name, "count": len(users)}).Info("restoring users")

	result := &RestoreResult{Succeeded: []string{}, Failed: []string{}}
	for _, u := range users {
		entry := s.logger.WithField("userId", u.UserID)
		entry.Info("Creating user")

		resp, err := s.api.CreateUser(ctx, u)
		if err != nil {
			var apiErr *participant.APIError
			if !errors.As(err, &apiErr) {
				return result, fmt.Errorf("creating user %s: %w", u.UserID, err)
			}
			msg := apiErr.Body
			if apiErr.Status == 409 {
				msg = fmt.Sprintf("User %s already exists", u.UserID)
			}
			entry.WithField("status", apiErr.Status).Warn(msg)
			result.Failed = append(result.Failed, msg)
			continue
		}
		entry.Debugf("created user: %s", resp)
		result.Succeeded = append(result.Succeeded, u.UserID)
	}

	s.logger.WithFields(log.Fields{
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	}).Infof("Done. (took %s)", time.Since(start))
	return result, nil
}
