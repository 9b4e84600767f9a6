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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bcambl/cub/internal/pkg/prompt"
	"github.com/bcambl/cub/internal/pkg/shell"
)

var commandFlag string

var validCommands = []string{"backup_users", "restore_users", "reauth"}

// runShell starts the interactive command loop, or runs --command once
func runShell(cmd *cobra.Command, args []string) error {
	if commandFlag != "" && !validValue(commandFlag, validCommands) {
		return fmt.Errorf("invalid command %q: must be one of %v", commandFlag, validCommands)
	}

	term := prompt.NewStdio()
	a, err := newApp(term)
	if err != nil {
		return err
	}
	sh := shell.New(term, os.Stdout, log.StandardLogger(), a.commands()...)

	if commandFlag != "" {
		return sh.Execute(cmd.Context(), commandFlag)
	}
	return sh.Run(cmd.Context())
}

func validValue(value string, list []string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.Flags().StringVarP(&commandFlag, "command", "c", "", "command to run, then exit (backup_users, restore_users, reauth)")
}
