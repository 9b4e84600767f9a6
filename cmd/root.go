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
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bcambl/cub/internal/pkg/config"
)

var cfgFile string
var debugFlag bool
var networkFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cub",
	Short: "Canton User Backup",
	Long: `Canton User Backup
==================

Backs up and restores user/party mappings of a participant node.

examples:

# start the interactive command loop (prompts for the network)
cub

# back up all users of devnet and exit
cub --network devnet --command backup_users

# same, as a subcommand
cub backup_users -n devnet

# replay a backup against testnet
cub restore_users -n testnet

    `,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if networkFlag != "" && !config.ValidNetwork(networkFlag) {
			return fmt.Errorf("invalid network %q: must be one of %v", networkFlag, config.Networks)
		}
		return nil
	},
	RunE: runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global application flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.toml or $HOME/.cub/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network to use (devnet, testnet, mainnet)")
}

// initConfig reads in config file if set.
func initConfig() {
	configureLogging(config.DefaultLogLevel)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Set path(s) to search for configuration file
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(home, ".cub"))

		// Set default config name to search for (without extension)
		viper.SetConfigName("config")
	}
	viper.SetConfigType("toml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			writePlaceholderConfig()
			os.Exit(0)
		}
		log.Fatal(&config.ConfigurationError{Reason: "reading config file", Err: err})
	}
	log.Debug("Using config file: ", viper.ConfigFileUsed())
}

// writePlaceholderConfig creates $HOME/.cub/config.toml with example values
func writePlaceholderConfig() {
	home, err := homedir.Dir()
	if err != nil {
		log.Fatal(err)
	}
	dir := filepath.Join(home, ".cub")
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Fatal(err)
	}

	// Define placeholder configuration values
	viper.Set("general.base_url", "https://participant.${network}.${stage}.yourorg.dev/v1")
	viper.Set("general.auth_url", "https://keycloak.${network}.${stage}.yourorg.dev/auth/realms/canton/protocol/openid-connect/token")
	viper.Set("general.log_level", config.DefaultLogLevel)
	for _, n := range config.Networks {
		viper.Set("networks."+n+".stage", n)
		viper.Set("networks."+n+".client_id", n)
	}

	newConfig := filepath.Join(dir, "config.toml")
	if err := viper.WriteConfigAs(newConfig); err != nil {
		log.Fatal(err)
	}
	fmt.Println("New configuration created. Please Update: ", newConfig)
}

// configureLogging applies the text format and the named level; --debug wins
func configureLogging(level string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if debugFlag {
		log.SetLevel(log.DebugLevel)
		return
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		fmt.Printf("Invalid log level: %s; defaulting to INFO\n", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
