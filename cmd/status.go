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
	"io"
	"time"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/remote"

	"github.com/spf13/cobra"
)

var (
	statusWatch    bool
	statusInterval time.Duration
	statusTest     bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the TV is reachable",
	Long: `Probe the TV's HTTP server and print the reachability state as JSON.
With --watch the probe repeats on an interval until interrupted.
Exits non-zero when a single probe finds the TV unreachable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}
		setupLogging(cfg, true)

		service, _ := newService(cfg, false, statusTest)
		out := cmd.OutOrStdout()

		if statusWatch {
			interval := statusInterval
			if interval <= 0 {
				interval = cfg.PollInterval()
			}
			monitor := remote.NewMonitor(service, interval, remote.WithObserver(func(state bravia.Reachability) {
				printStatus(out, state)
			}))
			monitor.Run(cmd.Context())
			return nil
		}

		state := service.Reachability(cmd.Context())
		printStatus(out, state)
		if !state.Connected {
			return fmt.Errorf("TV at %s is not reachable", state.Address)
		}
		return nil
	},
}

func printStatus(w io.Writer, state bravia.Reachability) {
	data, err := json.Marshal(state)
	if err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
		return
	}
	fmt.Fprintln(w, string(data))
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "keep probing until interrupted")
	statusCmd.Flags().DurationVar(&statusInterval, "interval", 0, "probe interval for --watch (default server.poll_interval)")
	statusCmd.Flags().BoolVar(&statusTest, "test", false, "Enable test mode (simulate TV responses without HTTP calls)")
}
