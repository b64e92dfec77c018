// Command redstone-inspect polls a redstone node's GetStats RPC and
// prints the snapshot, optionally on a repeating interval.
//
// Run:
//
//	redstone-inspect -addr localhost:7070 -watch -interval 2s
//
// © 2025 redstone authors. MIT License.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pri1712/redstone/pkg/client"
)

type options struct {
	addr     string
	watch    bool
	interval time.Duration
	json     bool
	timeout  time.Duration
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.addr, "addr", "localhost:7070", "node address")
	flag.BoolVar(&opts.watch, "watch", false, "poll repeatedly instead of a single snapshot")
	flag.DurationVar(&opts.interval, "interval", 2*time.Second, "poll interval in watch mode")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-call RPC timeout")
	flag.BoolVar(&opts.json, "json", false, "print stats as JSON instead of text")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	c, err := client.Dial(opts.addr)
	if err != nil {
		fatal(err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !opts.watch {
		if err := dumpOnce(ctx, c, opts); err != nil {
			fatal(err)
		}
		return
	}

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	for {
		if err := dumpOnce(ctx, c, opts); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			return
		}
	}
}

func dumpOnce(ctx context.Context, c *client.Client, opts *options) error {
	callCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	stats, err := c.GetStats(callCtx)
	if err != nil {
		return err
	}
	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	fmt.Printf("entries=%d used=%d/%d hits=%d misses=%d evictions=%d hit_rate=%.3f util=%.3f\n",
		stats.Entries, stats.MemoryUsed, stats.MemoryLimit, stats.Hits, stats.Misses, stats.Evictions,
		stats.HitRate, stats.MemoryUtilization)
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "redstone-inspect:", err)
	os.Exit(1)
}
