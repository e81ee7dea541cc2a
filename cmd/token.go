package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/healthtrack/backend/utils"
	"github.com/spf13/cobra"
)

var (
	tokenUserID uint
	tokenEmail  string
	tokenTTL    time.Duration
)

// tokenCmd mints a bearer token for local testing; there is no login endpoint.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed bearer token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID == 0 && tokenEmail == "" {
			return errors.New("--user or --email is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tok, err := utils.GenerateToken(cfg.Auth.JWTSecret, tokenUserID, tokenEmail, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().UintVar(&tokenUserID, "user", 0, "User id to embed")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email to embed instead of, or alongside, the id")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 72*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
