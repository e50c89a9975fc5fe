package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/notnil/chess"

	"github.com/mcoot/gameroom/internal/api/response"
	"github.com/mcoot/gameroom/internal/rules"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintCompact outputs data as a single JSON line in json mode. Streams
// use it so every event is one line.
func (o *Output) PrintCompact(data any) {
	if o.format == "json" {
		out, _ := json.Marshal(data)
		fmt.Fprintln(o.w, string(out))
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printAuthResult(v)
	case response.RoomView:
		o.printRoomView(v)
	case response.SeatResponse:
		o.printSeat(v)
	case response.Snapshot:
		o.printSnapshot(v)
	case response.LegalMovesResponse:
		o.printLegalMoves(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p response.Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a response.AuthResponse) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
	if !a.ExpiresAt.IsZero() {
		fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printRoomView(v response.RoomView) {
	o.printSnapshot(v.Snapshot)
	fmt.Fprintf(o.w, "You: %s", v.Role)
	if v.YourTurn {
		fmt.Fprint(o.w, " (your turn)")
	}
	fmt.Fprintln(o.w)
}

func (o *Output) printSeat(s response.SeatResponse) {
	if s.Role == response.SeatRoleSpectator {
		fmt.Fprintln(o.w, "Seat already taken, watching as spectator")
	} else {
		fmt.Fprintln(o.w, "Seat claimed")
	}
	o.printRoomView(s.Snapshot)
}

func (o *Output) printSnapshot(s response.Snapshot) {
	r := s.Room
	fmt.Fprintf(o.w, "Room: %s (%s)\n", r.ID, r.GameType)
	fmt.Fprintf(o.w, "Status: %s  Version: %d\n", r.Status, s.Version)
	fmt.Fprintf(o.w, "Player 1: %s\n", seatLabel(&r.Player1))
	fmt.Fprintf(o.w, "Player 2: %s\n", seatLabel(r.Player2))

	switch {
	case r.WinnerID != nil:
		fmt.Fprintf(o.w, "Winner: %s\n", playerLabel(r, *r.WinnerID))
	case r.Status == "finished":
		fmt.Fprintln(o.w, "Result: draw")
	case s.State.TurnOwner != "":
		fmt.Fprintf(o.w, "To move: %s\n", playerLabel(r, s.State.TurnOwner))
	}

	pos, err := s.DecodePosition()
	if err != nil {
		fmt.Fprintf(o.w, "Board: unreadable (%s)\n", err)
		return
	}
	fmt.Fprintln(o.w)
	fmt.Fprint(o.w, renderPosition(pos))
}

func (o *Output) printLegalMoves(m response.LegalMovesResponse) {
	if len(m.Moves) == 0 {
		fmt.Fprintln(o.w, "No legal moves")
		return
	}
	fmt.Fprintf(o.w, "Legal moves (%d): %s\n", len(m.Moves), strings.Join(m.Moves, " "))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func seatLabel(s *response.Seat) string {
	if s == nil {
		return "(open)"
	}
	if s.DisplayName == "" {
		return s.PlayerID
	}
	return fmt.Sprintf("%s (%s)", s.DisplayName, s.PlayerID)
}

func playerLabel(r response.Room, id string) string {
	if r.Player1.PlayerID == id {
		return seatLabel(&r.Player1)
	}
	if r.Player2 != nil && r.Player2.PlayerID == id {
		return seatLabel(r.Player2)
	}
	return id
}

// renderPosition draws a board as text
func renderPosition(pos rules.Position) string {
	switch p := pos.(type) {
	case rules.TicTacToePosition:
		return renderTicTacToe(p)
	case rules.ChessPosition:
		return renderChess(p)
	}
	return ""
}

// renderTicTacToe draws the grid, numbering empty cells with the index
// that plays them
func renderTicTacToe(p rules.TicTacToePosition) string {
	var sb strings.Builder
	for row := range 3 {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}
		for col := range 3 {
			i := row*3 + col
			mark := p.Cell(i).String()
			if mark == "" {
				mark = fmt.Sprintf("%d", i)
			}
			if col > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + mark + " ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderChess(p rules.ChessPosition) string {
	opt, err := chess.FEN(p.FEN())
	if err != nil {
		return p.FEN() + "\n"
	}
	return chess.NewGame(opt).Position().Board().Draw()
}
