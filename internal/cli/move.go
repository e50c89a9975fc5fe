package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/gameroom/internal/api/request"
	"github.com/mcoot/gameroom/internal/api/response"
)

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <room-id> <move>",
		Short: "Submit a move",
		Long: `Submit a move in the game's notation.

Tictactoe moves are cell indexes 0-8 in row-major order. Chess moves are
UCI (e2e4, e7e8q) or SAN (Nf3, O-O).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.MoveRequest{Move: args[1]}
			var result response.RoomView

			if err := client.Post(cmd.Context(), roomPath(args[0])+"/moves", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newMovesCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "moves <room-id>",
		Short: "List legal moves for the side to move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := roomPath(args[0]) + "/moves"
			if from != "" {
				path += "?" + url.Values{"from": {from}}.Encode()
			}

			var result response.LegalMovesResponse
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Only moves from this square (chess)")

	return cmd
}
