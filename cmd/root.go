// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/config"
	"bravia-remote/internal/logger"
	"bravia-remote/internal/remote"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "bravia-remote",
	Short: "Remote control for Sony Bravia TVs",
	Long: `bravia-remote sends IRCC remote control codes to a Sony Bravia TV on the local network.
It serves a web remote and JSON API, and offers one-shot commands and a terminal remote.

The TV is configured with TV_IP and TV_PSK (environment or .env file) or a YAML config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFiles(envFile); err != nil {
			return err
		}
		if verbose {
			logger.SetSilentMode(false)
			logger.SetLevel(logger.LOG_DEBUG)
		}
		return nil
	},
}

// Execute runs the CLI; SIGINT and SIGTERM cancel the command context
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with TV_IP / TV_PSK / PORT")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfiguration loads the config file and environment
func loadConfiguration() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupLogging applies the logging section; quiet commands stay silent unless --verbose
func setupLogging(cfg *config.Config, quiet bool) {
	logger.SetSilentMode(quiet && !verbose)
	logger.SetFormat(cfg.Logging.Format)
	if verbose {
		logger.SetLevel(logger.LOG_DEBUG)
	} else {
		logger.SetLevel(cfg.Logging.Level)
	}
}

// newService wires the device client into the command service
func newService(cfg *config.Config, debug, test bool) (*remote.Service, *bravia.Client) {
	client := bravia.NewClient(cfg.Device,
		bravia.WithCommandTimeout(cfg.CommandTimeout()),
		bravia.WithProbeTimeout(cfg.ProbeTimeout()),
		bravia.WithDebug(debug || verbose),
		bravia.WithTestMode(test),
	)
	return remote.NewService(bravia.DefaultCodeTable(), client, client, remote.WithDevice(cfg.Device)), client
}
