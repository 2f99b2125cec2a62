package main

import (
	"fmt"
	"time"

	"github.com/DanielPopoola/coursepay/internal/adapters/handler"
	"github.com/spf13/cobra"
)

var (
	tokenEmail string
	tokenRole  string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token [user-id]",
	Short: "Mint a bearer token for local testing",
	Long: `Sign a token with auth.jwt_secret for the given user.

Examples:
  coursepay token user-42 --email ada@example.com
  coursepay token ops-1 --role admin --ttl 15m`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", "role claim (admin for refunds)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	auth := handler.NewAuthenticator(cfg.Auth, logger)
	token, err := auth.Issue(handler.Principal{
		UserID: args[0],
		Email:  tokenEmail,
		Role:   tokenRole,
	}, tokenTTL)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
