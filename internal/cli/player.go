package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/mindmaze/internal/api/request"
	"github.com/mcoot/mindmaze/internal/api/response"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player account commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerGetCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new player account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.RegisterRequest{Username: args[0]}
			var result response.PlayerResponse

			if err := client.Post("/api/v1/players/register", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveUser(result.Player.Username); err != nil {
				return fmt.Errorf("failed to remember player: %w", err)
			}

			out.Print(result)
			return nil
		},
	}
}

func newPlayerLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Login with an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.LoginRequest{Username: args[0]}
			var result response.PlayerResponse

			if err := client.Post("/api/v1/players/login", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveUser(result.Player.Username); err != nil {
				return fmt.Errorf("failed to remember player: %w", err)
			}

			out.Print(result)
			return nil
		},
	}
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [username]",
		Short: "Show a player's profile, the current player if none is named",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := cfg.User
			if len(args) == 1 {
				username = args[0]
			}
			if username == "" {
				return errors.New("no player given and none remembered (use --user or player login)")
			}

			var result response.PlayerResponse
			if err := client.Get("/api/v1/players/"+url.PathEscape(username), &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top players by score",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New("--limit must be positive")
			}

			var result response.Leaderboard
			if err := client.Get("/api/v1/leaderboard?limit="+strconv.Itoa(limit), &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of players to show")

	return cmd
}
