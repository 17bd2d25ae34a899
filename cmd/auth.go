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
	"bufio"
	"fmt"
	"strings"

	"bravia-remote/internal/server"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API authentication",
	Long: `Helpers for protecting the API with a password.
Put the output of "auth hash-password" into auth.password_hash and set a
32+ character auth.jwt_secret to require a login.`,
}

var authHashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print an Argon2id hash for auth.password_hash",
	Long:  `Hash a password with Argon2id. Without an argument the password is read from the first line of stdin.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) > 0 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		if password == "" {
			return fmt.Errorf("password must not be empty")
		}

		hash, err := server.NewPasswordService().HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token from the configured secret",
	Long:  `Issue a bearer token for scripts, signed with auth.jwt_secret. Requires auth to be enabled.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}
		if !cfg.AuthEnabled() {
			return fmt.Errorf("auth is not enabled: set auth.password_hash and auth.jwt_secret")
		}

		token, err := server.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.ExpiryHours).GenerateToken()
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	authCmd.AddCommand(authHashPasswordCmd)
	authCmd.AddCommand(authTokenCmd)
}
