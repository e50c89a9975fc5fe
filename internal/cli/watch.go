package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/gameroom/internal/api/response"
	"github.com/mcoot/gameroom/internal/api/stream"
	"github.com/mcoot/gameroom/internal/replica"
)

func newWatchCmd() *cobra.Command {
	var untilFinished bool

	cmd := &cobra.Command{
		Use:   "watch <room-id>",
		Short: "Stream a room's snapshots",
		Long: `Connect to the room's event stream and print each new snapshot.

The first snapshot is the room's current state. Duplicate or stale
snapshots are skipped, so every printed version is newer than the last.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchRoom(cmd.Context(), args[0], untilFinished)
		},
	}

	cmd.Flags().BoolVar(&untilFinished, "until-finished", false, "Exit once the game finishes")

	return cmd
}

var errGameFinished = errors.New("game finished")

// versionedSnapshot adapts a snapshot to the replica
type versionedSnapshot struct {
	snap response.Snapshot
}

func (v versionedSnapshot) Version() int64 { return v.snap.Version }

func watchRoom(ctx context.Context, roomID string, untilFinished bool) error {
	body, err := client.Stream(ctx, roomPath(roomID)+"/events")
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer func() { _ = body.Close() }()

	out := NewOutput(cfg.Output)
	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Connected to room %s\n", roomID)
	}

	rep := replica.New[versionedSnapshot]()
	err = readSnapshots(body, func(snap response.Snapshot) error {
		if !rep.Apply(versionedSnapshot{snap: snap}) {
			return nil
		}
		out.PrintCompact(snap)
		if out.format != "json" {
			fmt.Fprintln(out.w)
		}
		if untilFinished && snap.Room.Status == "finished" {
			return errGameFinished
		}
		return nil
	})
	if errors.Is(err, errGameFinished) || ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if cfg.Verbose {
		fmt.Fprintln(os.Stderr, "Disconnected")
	}
	return nil
}

// readSnapshots parses a server-sent event stream and calls fn for every
// snapshot event. Comments and other event types are ignored.
func readSnapshots(r io.Reader, fn func(response.Snapshot) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			// End of event
			if currentEvent == stream.EventSnapshot && len(dataLines) > 0 {
				var snap response.Snapshot
				if err := json.Unmarshal([]byte(strings.Join(dataLines, "\n")), &snap); err != nil {
					return fmt.Errorf("bad snapshot event: %w", err)
				}
				if err := fn(snap); err != nil {
					return err
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	return scanner.Err()
}
