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
	"strings"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/remote"

	"github.com/spf13/cobra"
)

var (
	commandsJSON bool
	commandsKeys bool
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the supported command names",
	Long:  `List every command name the remote accepts, in table order. --keys also prints the keyboard shortcuts.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		names := bravia.DefaultCodeTable().Commands()

		if commandsJSON {
			payload := map[string]interface{}{"commands": names}
			if commandsKeys {
				payload["keys"] = remote.KeyBindings()
			}
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode commands: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		for _, name := range names {
			fmt.Fprintln(out, name)
		}

		if commandsKeys {
			fmt.Fprintln(out, "\nKeyboard shortcuts:")
			for _, b := range remote.KeyBindings() {
				key := b.Key
				if strings.TrimSpace(key) == "" {
					key = "Space"
				}
				fmt.Fprintf(out, "  %-12s %s\n", key, b.Command)
			}
			fmt.Fprintf(out, "  %-12s %s\n", "0-9", "Num0-Num9")
		}
		return nil
	},
}

func init() {
	commandsCmd.Flags().BoolVar(&commandsJSON, "json", false, "print as JSON")
	commandsCmd.Flags().BoolVar(&commandsKeys, "keys", false, "include keyboard shortcuts")
}
