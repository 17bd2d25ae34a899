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
	"io"
	"net"
	"strings"
	"time"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/logger"
	"bravia-remote/internal/metrics"
	"bravia-remote/internal/remote"
	"bravia-remote/internal/server"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	serveAddress string
	serveDebug   bool
	serveTest    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web remote and JSON API",
	Long: `Start the HTTP server: the web remote at /, the JSON API under /api,
health at /healthz and Prometheus metrics at /metrics.
A background monitor probes the TV on the configured poll interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}
		if serveAddress != "" {
			cfg.Server.Address = serveAddress
		}

		setupLogging(cfg, false)
		if serveDebug {
			logger.SetLevel(logger.LOG_DEBUG)
		}
		metrics.Init()

		log := logger.New()
		log.Info().
			Str("config_file", configPath).
			Str("tv_ip", cfg.Device.Address).
			Bool("psk_configured", cfg.Device.AuthConfigured()).
			Str("address", cfg.Server.Address).
			Bool("auth", cfg.AuthEnabled()).
			Bool("test", serveTest).
			Msg("Starting bravia-remote server")

		service, client := newService(cfg, serveDebug, serveTest)
		apiServer := server.NewAPIServer(service, cfg)

		printBanner(cmd.OutOrStdout(), client.Device(), cfg.Server.Address)

		ctx, stop := context.WithCancel(cmd.Context())
		defer stop()

		monitorDone := make(chan struct{})
		go func() {
			defer close(monitorDone)
			remote.NewMonitor(service, cfg.PollInterval()).Run(ctx)
		}()

		errChan := make(chan error, 1)
		go func() {
			errChan <- apiServer.Start()
		}()

		select {
		case <-ctx.Done():
			log.Info().Msg("Received shutdown signal")
		case err := <-errChan:
			stop()
			<-monitorDone
			if err != nil {
				log.Error().Err(err).Msg("API server error")
				return fmt.Errorf("API server error: %w", err)
			}
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping API server")
		}
		<-monitorDone

		log.Info().Msg("Server stopped")
		return nil
	},
}

// printBanner writes the startup summary box
func printBanner(w io.Writer, device bravia.DeviceConfig, address string) {
	psk := "✗ not set"
	if device.AuthConfigured() {
		psk = "✓ configured"
	}

	url := listenURL(address)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("🎮 Sony Bravia Web Remote"),
		"",
		fmt.Sprintf("📺 TV IP:  %s", device.Address),
		fmt.Sprintf("🔑 PSK:    %s", psk),
		fmt.Sprintf("🌐 Server: %s", url),
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	fmt.Fprintln(w, box)
	fmt.Fprintf(w, "\nOpen in your browser: %s\n\n", url)
}

// listenURL turns a listen address like ":3000" into a browsable URL
func listenURL(address string) string {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return "http://" + address
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "listen address (overrides server.address and PORT)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging for TV requests")
	serveCmd.Flags().BoolVar(&serveTest, "test", false, "Enable test mode (simulate TV responses without HTTP calls)")
}
