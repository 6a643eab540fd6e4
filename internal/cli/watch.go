package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print notifications pushed over the websocket",
		Long: `Connect to the notification websocket with a session token and print every
frame to stdout until the server closes the stream or the command is interrupted.

The token defaults to the WISE_TOKEN environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Token == "" {
				opts.Token = os.Getenv("WISE_TOKEN")
			}
			if opts.Token == "" {
				return errors.New("a session token is required (--token or WISE_TOKEN)")
			}
			return runWatch(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "ws://localhost:8080/api/ws/notifications", "websocket endpoint")
	cmd.Flags().StringVar(&opts.Token, "token", "", "session token")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "handshake timeout")

	return cmd
}

func runWatch(cmd *cobra.Command, rootOpts *RootOptions, opts *watchOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.Timeout}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+opts.Token)

	conn, resp, err := dialer.DialContext(ctx, opts.URL, header)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if rootOpts.Verbose {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "connected to %s\n", opts.URL)
	}

	// Unblock ReadMessage when the command is interrupted.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	out := cmd.OutOrStdout()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(msg))
	}
}
