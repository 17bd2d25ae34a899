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
	"encoding/json"
	"fmt"

	"bravia-remote/internal/logger"

	"github.com/spf13/cobra"
)

var sendTest bool

var sendCmd = &cobra.Command{
	Use:   "send <command> [command...]",
	Short: "Send one or more remote control commands",
	Long: `Send remote control commands to the TV in order, e.g.

  bravia-remote send VolumeUp VolumeUp Mute

Stops at the first failure. Run "bravia-remote commands" for the list of names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}
		setupLogging(cfg, true)

		service, _ := newService(cfg, false, sendTest)
		log := logger.New()

		for _, name := range args {
			resp := service.Execute(cmd.Context(), name)

			out, err := json.Marshal(resp)
			if err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !resp.Success {
				log.Error().
					Str("command", name).
					Str("kind", string(resp.Kind)).
					Msg("Command failed")
				return fmt.Errorf("%s: %s", name, resp.Error)
			}
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().BoolVar(&sendTest, "test", false, "Enable test mode (simulate TV responses without HTTP calls)")
}
