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
	"bravia-remote/cmd/cli"
	"bravia-remote/internal/logger"

	"github.com/spf13/cobra"
)

var (
	remoteDebug bool
	remoteTest  bool
)

var remoteCmd = &cobra.Command{
	Use:     "remote",
	Aliases: []string{"tui"},
	Short:   "Start the interactive terminal remote",
	Long: `Launch the terminal remote. Keys follow the web remote's shortcuts
(arrows, Enter, Esc, digits, +/-, m, h, space, p, s) and the TV status
is refreshed on the poll interval.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}

		// Log lines would corrupt the alternate screen
		setupLogging(cfg, true)
		logger.SetSilentMode(true)

		service, _ := newService(cfg, remoteDebug, remoteTest)

		return cli.StartTUI(service, cli.Options{
			Device:       cfg.Device,
			PollInterval: cfg.PollInterval(),
			Debug:        remoteDebug,
			Test:         remoteTest,
		})
	},
}

func init() {
	remoteCmd.Flags().BoolVar(&remoteDebug, "debug", false, "Show a log pane with command results")
	remoteCmd.Flags().BoolVar(&remoteTest, "test", false, "Enable test mode (simulate TV responses without HTTP calls)")
}
