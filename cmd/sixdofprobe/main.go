// Command sixdofprobe extracts the proprietary 6-DOF camera-geometry SEI
// block from H.265 transport streams and prints it as JSON. Inputs may be
// local TS files, direct segment URLs, or HLS playlists (the first media
// segment is probed).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jtang/sixdofprobe/internal/fetch"
	"github.com/jtang/sixdofprobe/internal/mpegts"
	"github.com/jtang/sixdofprobe/internal/probe"
	"github.com/jtang/sixdofprobe/internal/status"
)

var version = "dev"

const probeConcurrency = 4

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("sixdofprobe failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	pid       uint16
	readBytes int
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:     "sixdofprobe <file-or-url> [file-or-url...]",
		Short:   "Extract 6-DOF camera geometry from H.265 transport streams",
		Version: version,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, opts, args)
		},
		SilenceUsage: true,
	}

	fl := cmd.PersistentFlags()
	fl.Uint16Var(&opts.pid, "pid", mpegts.DefaultVideoPID, "elementary-stream PID carrying the video")
	fl.IntVar(&opts.readBytes, "read-bytes", fetch.DefaultReadBytes, "segment prefix size to read and scan")
	fl.DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP timeout for playlist and segment requests")

	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

func runProbe(cmd *cobra.Command, opts *options, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := &http.Client{Timeout: opts.timeout}
	prober := probe.New(opts.pid, slog.Default())

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)

	for _, input := range args {
		g.Go(func() error {
			ts, err := loadInput(ctx, client, input, opts.readBytes)
			if err != nil {
				return err
			}

			dec, err := prober.Extract(ts)
			if errors.Is(err, probe.ErrNotFound) {
				slog.Warn("no 6dof extension", "input", input, "reason", err)
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			out, err := json.MarshalIndent(probe.BuildReport(dec), "", "    ")
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		})
	}

	return g.Wait()
}

func newServeCmd(opts *options) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve <file-or-url>",
		Short: "Serve one source's 6-DOF metadata over a local HTTP endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: opts.timeout}
			source := args[0]

			load := func(ctx context.Context) ([]byte, error) {
				return loadInput(ctx, client, source, opts.readBytes)
			}
			srv := status.New(load, probe.New(opts.pid, slog.Default()), slog.Default())

			slog.Info("serving 6dof metadata", "source", source, "listen", listen)
			return srv.Run(listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", envOr("STATUS_ADDR", "127.0.0.1:8642"), "address for the status endpoint")
	return cmd
}

// loadInput resolves one CLI argument to the leading bytes of a TS segment:
// HLS playlists go through first-segment resolution, direct URLs through a
// ranged GET, anything else is a local file path.
func loadInput(ctx context.Context, client *http.Client, input string, n int) ([]byte, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		if strings.Contains(input, ".m3u8") {
			return fetch.FirstSegment(ctx, client, input, n)
		}
		return fetch.Segment(ctx, client, input, n)
	}
	return fetch.FileHeader(input, n)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
