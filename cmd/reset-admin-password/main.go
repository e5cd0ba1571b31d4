// Command reset-admin-password sets an admin's password directly in the
// database, for when nobody can log in to request a reset mail.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/db"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

// passwordEnv is read when --password-stdin is not given.
const passwordEnv = "ADMIN_PASSWORD"

type resetFunc func(ctx context.Context, username, password string) error

func main() {
	if err := newRootCmd(resetInDatabase).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(reset resetFunc) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "reset-admin-password",
		Short: "Set an admin password directly in the database",
		Long: `Set an admin password directly in the database.

The password is read from ` + passwordEnv + `, or from the first line of
standard input with --password-stdin. Only the database settings are
required in the environment.

Examples:
  ADMIN_PASSWORD=... reset-admin-password --username editor
  printf '%s\n' "$PW" | reset-admin-password --username editor --password-stdin`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), passwordStdin)
			if err != nil {
				return err
			}
			if err := reset(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the new password from standard input")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func readPassword(in io.Reader, fromStdin bool) (string, error) {
	if !fromStdin {
		password := os.Getenv(passwordEnv)
		if password == "" {
			return "", fmt.Errorf("set %s or pass --password-stdin", passwordEnv)
		}
		return password, nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password on standard input")
	}
	return password, nil
}

func resetInDatabase(ctx context.Context, username, password string) error {
	// .env is optional here
	_ = godotenv.Load()

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	admins := services.NewAdminService(conn, cfg.JWT, nil, cfg.Server.IOTimeout, "")
	return admins.SetPassword(ctx, username, password)
}
