package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/gameroom/internal/api/request"
	"github.com/mcoot/gameroom/internal/api/response"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var gameType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room and take the first seat",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameType == "" {
				return fmt.Errorf("--game is required")
			}

			req := request.CreateRoomRequest{GameType: gameType}
			var result response.RoomView

			if err := client.Post(cmd.Context(), "/api/v1/rooms", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameType, "game", "tictactoe", "Game type: tictactoe, chess")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show a room and its board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RoomView

			if err := client.Get(cmd.Context(), roomPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <room-id>",
		Short: "Claim the second seat, or watch if it is taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SeatResponse

			if err := client.Post(cmd.Context(), roomPath(args[0])+"/seat", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func roomPath(id string) string {
	return "/api/v1/rooms/" + url.PathEscape(id)
}
