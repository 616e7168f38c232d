package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/auth"
	"github.com/your-org/storefront/internal/pkg/email"
	"github.com/your-org/storefront/internal/pkg/logger"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for seeding the users file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		passwords := auth.NewPasswordManager(cfg)
		hash, err := passwords.Hash(args[0])
		if err != nil {
			return err
		}

		if err := passwords.VerifyPassword(args[0], hash); err != nil {
			return fmt.Errorf("hash verification failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var sendTestEmailCmd = &cobra.Command{
	Use:   "send-test-email <to>",
	Short: "Send a test message through the configured mail provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		svc := email.NewEmailService(cfg, logger.New(cfg))
		return svc.Send(&email.Email{
			To:          []string{args[0]},
			Subject:     "Test email from " + cfg.App.Name,
			HTMLContent: "<h1>Success!</h1><p>Mail delivery is configured correctly.</p>",
			Type:        "test",
		})
	},
}
