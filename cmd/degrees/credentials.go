package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-degrees/pkg/auth"
	"github.com/dd0wney/cluso-degrees/pkg/config"
)

var (
	tokenSubject string
	tokenScope   string

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Sign an API token with the configured JWT secret",
		Args:  cobra.NoArgs,
		RunE:  runToken,
	}

	apiKeyCmd = &cobra.Command{
		Use:   "apikey",
		Short: "Generate an API key and the hash to put in server.auth.api_key_hashes",
		Args:  cobra.NoArgs,
		RunE:  runAPIKey,
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "who the token is issued to")
	tokenCmd.Flags().StringVar(&tokenScope, "scope", auth.ScopeRead, "token scope (read, admin)")
	_ = tokenCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(tokenCmd, apiKeyCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Server.Auth.JWTSecret == "" {
		return errors.New("no JWT secret configured (server.auth.jwt_secret or " + config.EnvJWTSecret + ")")
	}

	jwtManager, err := auth.NewJWTManager(cfg.Server.Auth.JWTSecret, cfg.Server.Auth.TokenTTL)
	if err != nil {
		return err
	}
	token, err := jwtManager.GenerateToken(tokenSubject, tokenScope)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func runAPIKey(cmd *cobra.Command, args []string) error {
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return err
	}
	hash, err := auth.HashAPIKey(key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "key:  %s\n", key)
	fmt.Fprintf(out, "hash: %s\n", hash)
	return nil
}
