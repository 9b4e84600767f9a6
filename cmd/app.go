package cmd

/*
Copyright © 2020 Blayne Campbell
All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice,
   this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
   this list of conditions and the following disclaimer in the documentation
   and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its contributors
   may be used to endorse or promote products derived from this software
   without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
POSSIBILITY OF SUCH DAMAGE.
*/

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bcambl/cub/internal/pkg/backup"
	"github.com/bcambl/cub/internal/pkg/config"
	"github.com/bcambl/cub/internal/pkg/participant"
	"github.com/bcambl/cub/internal/pkg/prompt"
	"github.com/bcambl/cub/internal/pkg/shell"
)

// app holds the resolved settings and the collaborators for one network
type app struct {
	settings *config.Settings
	term     *prompt.Terminal
	auth     *participant.Authenticator
	service  *backup.Service
}

// newApp resolves the network (flag or prompt) and its settings, then wires
// the authenticator, participant client and backup service.
func newApp(term *prompt.Terminal) (*app, error) {
	network := networkFlag
	if network == "" {
		var err error
		network, err = term.AskNetwork()
		if err != nil {
			return nil, err
		}
	}

	env, err := config.Environment(".env")
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(viper.GetViper(), network, env)
	if err != nil {
		return nil, err
	}
	configureLogging(settings.LogLevel)

	if debugFlag {
		fmt.Println("DEBUG ENABLED")
		log.WithFields(settings.Fields()).Debug("resolved settings")
	}

	baseURL, authURL, err := settings.Endpoints()
	if err != nil {
		return nil, err
	}

	logger := log.StandardLogger()
	httpClient := participant.NewHTTPClient(participant.DefaultTimeout)
	session := &participant.Session{ClientSecret: settings.ClientSecret}
	auth := participant.NewAuthenticator(authURL, settings.ClientID, session, term.AskSecret, httpClient, logger)
	client := participant.NewClient(baseURL, auth, httpClient, logger)

	return &app{
		settings: settings,
		term:     term,
		auth:     auth,
		service:  backup.NewService(settings, client, term, logger),
	}, nil
}

// commands lists the actions offered by the interactive loop
func (a *app) commands() []shell.Command {
	return []shell.Command{
		{Name: "backup_users", Usage: "back up users and their rights to a file", Run: a.backupUsers},
		{Name: "restore_users", Usage: "create users from a backup file", Run: a.restoreUsers},
		{Name: "reauth", Usage: "reauthenticate to the Validator API", Run: a.reauth},
	}
}

func (a *app) backupUsers(ctx context.Context) error {
	name, count, err := a.service.Backup(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Backed up %d users to %s\n", count, name)
	return nil
}

func (a *app) restoreUsers(ctx context.Context) error {
	result, err := a.service.Restore(ctx)

	var notFound *backup.BackupNotFoundError
	if errors.As(err, &notFound) {
		log.WithField("file", notFound.Path).Error("Backup file not found")
		return nil
	}
	if result != nil {
		summary, jerr := json.MarshalIndent(result, "", "  ")
		if jerr != nil {
			return jerr
		}
		fmt.Println("\nRestore user results:")
		fmt.Println(string(summary))
	}
	return err
}

func (a *app) reauth(ctx context.Context) error {
	a.auth.Invalidate()
	return a.auth.Authenticate(ctx)
}
