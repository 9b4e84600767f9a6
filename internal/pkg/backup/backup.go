package backup

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bcambl/cub/internal/pkg/config"
	"github.com/bcambl/cub/internal/pkg/participant"
)

// Service runs backups and restores for one network
type Service struct {
	settings *config.Settings
	api      API
	prompt   Prompter
	logger   log.FieldLogger
}

// NewService returns a Service using settings for filenames
func NewService(settings *config.Settings, api API, prompt Prompter, logger log.FieldLogger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{
		settings: settings,
		api:      api,
		prompt:   prompt,
		logger: logger.WithFields(log.Fields{
			"network": settings.Network,
			"stage":   settings.Stage,
		}),
	}
}

// Filename returns the backup filename: the rendered template when one is
// configured, otherwise the operator's answer with DefaultBackupFile offered.
func (s *Service) Filename() (string, error) {
	if s.settings.HasBackupTemplate() {
		return s.settings.Render(s.settings.BackupFile)
	}
	name, err := s.prompt.AskFilename(s.settings.DefaultBackupFile())
	if err != nil {
		return "", err
	}
	if name == "" {
		name = s.settings.DefaultBackupFile()
	}
	return name, nil
}

// outputFilename resolves the file to write. An existing file is only
// replaced when the name came from the configured template or the operator
// confirms; declining asks for another name.
func (s *Service) outputFilename() (string, error) {
	for {
		name, err := s.Filename()
		if err != nil {
			return "", err
		}
		if s.settings.HasBackupTemplate() || !fileExists(name) {
			return name, nil
		}
		overwrite, err := s.prompt.ConfirmOverwrite(name)
		if err != nil {
			return "", err
		}
		if overwrite {
			return name, nil
		}
		s.logger.WithField("file", name).Info("keeping existing backup file")
	}
}

// Collect lists all users and attaches each user's rights. Any failure
// aborts the whole collection.
func (s *Service) Collect(ctx context.Context) ([]participant.UserRecord, error) {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	s.logger.WithField("count", len(users)).Info("retrieved active users from participant")

	seen := make(map[string]bool, len(users))
	for i := range users {
		id := users[i].UserID
		if id == "" {
			return nil, fmt.Errorf("user at position %d has no userId", i)
		}
		if seen[id] {
			s.logger.WithField("userId", id).Warn("duplicate user in listing")
		}
		seen[id] = true

		rights, err := s.api.ListUserRights(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("listing rights for user %s: %w", id, err)
		}
		users[i].Rights = rights
	}
	s.logger.WithField("count", len(users)).Info("built requests for users")
	return users, nil
}

// Backup collects all users with their rights and writes them to the backup
// file. It returns the file written and the number of users in it.
func (s *Service) Backup(ctx context.Context) (string, int, error) {
	start := time.Now()

	users, err := s.Collect(ctx)
	if err != nil {
		return "", 0, err
	}
	name, err := s.outputFilename()
	if err != nil {
		return "", 0, err
	}
	if err := Save(name, users); err != nil {
		return "", 0, err
	}

	s.logger.WithFields(log.Fields{
		"file":  name,
		"count": len(users),
	}).Infof("Done. (took %s)", time.Since(start))
	return name, len(users), nil
}
