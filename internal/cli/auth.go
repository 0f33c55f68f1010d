package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/minispot/internal/browser"
	"github.com/tessro/minispot/internal/spotify/auth"
)

const loginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Spotify authentication",
	Long: `Commands for managing Spotify OAuth authentication.

The device plays through your Spotify account, so it needs a token for the
same account the controlling app is logged into.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Spotify",
	Long:  `Opens a browser to authenticate with Spotify using OAuth PKCE flow.`,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Spotify credentials",
	Long:  `Removes the stored Spotify OAuth tokens from the local machine.`,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Shows the current Spotify authentication status.`,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	oauth := auth.NewConfig(cfg.Spotify.ClientID, cfg.Spotify.RedirectURI)

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	token, err := auth.Login(ctx, oauth, auth.LoginOptions{
		Open: browser.Open,
		Notify: func(msg string) {
			if !JSONOutput() {
				fmt.Println(msg)
			}
		},
	})
	if err != nil {
		return err
	}

	tokens, err := newTokenSource(cfg)
	if err != nil {
		return err
	}
	if err := tokens.Set(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	// Confirm the token works.
	user, err := newAPIClient(tokens, logger).GetCurrentUser(ctx)
	if err != nil {
		fmt.Println("Authentication successful! Token stored.")
		return nil
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"status":       "authenticated",
			"user_id":      user.ID,
			"display_name": user.DisplayName,
			"product":      user.Product,
		})
	}
	fmt.Printf("Successfully authenticated as %s (%s)\n", user.DisplayName, user.ID)
	if user.Product != "premium" {
		fmt.Println("Note: Spotify Connect playback needs a Premium account.")
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	tokens, err := newTokenSource(cfg)
	if err != nil {
		return err
	}

	if !tokens.HasToken() {
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "not_authenticated"})
		}
		fmt.Println("Not authenticated with Spotify.")
		return nil
	}

	if err := tokens.Clear(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "logged_out"})
	}
	fmt.Println("Logged out of Spotify.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	tokens, err := newTokenSource(cfg)
	if err != nil {
		return err
	}

	if !tokens.HasToken() {
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"authenticated": false,
			})
		}
		fmt.Println("Not authenticated with Spotify.")
		fmt.Println("Run 'minispot auth login' to authenticate.")
		return nil
	}

	ctx := cmd.Context()
	token, tokErr := tokens.Token(ctx)
	if tokErr != nil {
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"authenticated": true,
				"expired":       true,
				"error":         tokErr.Error(),
			})
		}
		fmt.Printf("Token may be expired or invalid: %v\n", tokErr)
		fmt.Println("Run 'minispot auth login' to re-authenticate.")
		return nil
	}

	me, err := newAPIClient(tokens, logger).GetCurrentUser(ctx)
	if err != nil {
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"authenticated": true,
				"error":         err.Error(),
			})
		}
		fmt.Printf("Token stored but the account could not be read: %v\n", err)
		return nil
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"authenticated": true,
			"expired":       false,
			"user_id":       me.ID,
			"display_name":  me.DisplayName,
			"product":       me.Product,
			"expires_at":    token.ExpiresAt,
		})
	}
	fmt.Printf("Authenticated as: %s (%s)\n", me.DisplayName, me.ID)
	fmt.Printf("Account type: %s\n", me.Product)
	fmt.Printf("Token expires: %s\n", token.ExpiresAt.Format(time.RFC3339))
	return nil
}
