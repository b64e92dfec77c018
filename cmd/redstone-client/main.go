// Command redstone-client issues single Put/Get/Delete/GetStats calls
// against one redstone node, for manual testing and scripting.
//
// Usage:
//
//	redstone-client put -addr localhost:7070 -key k -dtype f32 -shape 2,2
//	redstone-client get -addr localhost:7070 -key k
//	redstone-client delete -addr localhost:7070 -key k
//	redstone-client stats -addr localhost:7070
//
// © 2025 redstone authors. MIT License.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pri1712/redstone/pkg/client"
	"github.com/pri1712/redstone/pkg/tensor"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	addr := flag.NewFlagSet("redstone-client", flag.ExitOnError)
	addrFlag := addr.String("addr", "localhost:7070", "node address")

	switch os.Args[1] {
	case "put":
		runPut(os.Args[2:], addrFlag, addr)
	case "get":
		runGet(os.Args[2:], addrFlag, addr)
	case "delete":
		runDelete(os.Args[2:], addrFlag, addr)
	case "stats":
		runStats(os.Args[2:], addrFlag, addr)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: redstone-client {put|get|delete|stats} [-addr host:port] [flags]")
}

func dial(addrFlag *string) *client.Client {
	c, err := client.Dial(*addrFlag)
	if err != nil {
		fatal(err)
	}
	return c
}

func runPut(args []string, addrFlag *string, addr *flag.FlagSet) {
	key := addr.String("key", "", "cache key")
	dtype := addr.String("dtype", "f32", "dtype: f32|f64|i32|i64|u8")
	shape := addr.String("shape", "", "comma-separated shape, e.g. 2,2")
	fill := addr.Uint("fill", 0, "byte value to fill the payload with")
	if err := addr.Parse(args); err != nil {
		fatal(err)
	}
	if *key == "" || *shape == "" {
		fatal(fmt.Errorf("-key and -shape are required"))
	}

	dt, err := parseDType(*dtype)
	if err != nil {
		fatal(err)
	}
	dims, err := parseShape(*shape)
	if err != nil {
		fatal(err)
	}
	meta, err := tensor.NewMetadata(dt, dims, tensor.LayoutRowMajor)
	if err != nil {
		fatal(err)
	}
	payload := make([]byte, meta.ByteSize())
	for i := range payload {
		payload[i] = byte(*fill)
	}
	tn, err := tensor.New(meta, payload)
	if err != nil {
		fatal(err)
	}

	c := dial(addrFlag)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Put(ctx, *key, tn); err != nil {
		fatal(err)
	}
	fmt.Println("OK")
}

func runGet(args []string, addrFlag *string, addr *flag.FlagSet) {
	key := addr.String("key", "", "cache key")
	if err := addr.Parse(args); err != nil {
		fatal(err)
	}
	if *key == "" {
		fatal(fmt.Errorf("-key is required"))
	}

	c := dial(addrFlag)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	t, ok, err := c.Get(ctx, *key)
	if err != nil {
		fatal(err)
	}
	if !ok {
		fmt.Println("absent")
		return
	}
	meta := t.Metadata()
	fmt.Printf("dtype=%s shape=%v layout=%s bytes=%d\n", meta.DType(), meta.Shape(), meta.Layout(), t.ByteSize())
}

func runDelete(args []string, addrFlag *string, addr *flag.FlagSet) {
	key := addr.String("key", "", "cache key")
	if err := addr.Parse(args); err != nil {
		fatal(err)
	}
	if *key == "" {
		fatal(fmt.Errorf("-key is required"))
	}

	c := dial(addrFlag)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	deleted, err := c.Delete(ctx, *key)
	if err != nil {
		fatal(err)
	}
	fmt.Println(deleted)
}

func runStats(args []string, addrFlag *string, addr *flag.FlagSet) {
	if err := addr.Parse(args); err != nil {
		fatal(err)
	}
	c := dial(addrFlag)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stats, err := c.GetStats(ctx)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("entries=%d used=%d/%d hits=%d misses=%d evictions=%d hit_rate=%.3f util=%.3f\n",
		stats.Entries, stats.MemoryUsed, stats.MemoryLimit, stats.Hits, stats.Misses, stats.Evictions,
		stats.HitRate, stats.MemoryUtilization)
}

func parseDType(s string) (tensor.DType, error) {
	switch strings.ToLower(s) {
	case "f32":
		return tensor.DTypeF32, nil
	case "f64":
		return tensor.DTypeF64, nil
	case "i32":
		return tensor.DTypeI32, nil
	case "i64":
		return tensor.DTypeI64, nil
	case "u8":
		return tensor.DTypeU8, nil
	default:
		return 0, fmt.Errorf("unknown dtype %q", s)
	}
}

func parseShape(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	dims := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shape dimension %q: %w", p, err)
		}
		dims = append(dims, n)
	}
	return dims, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "redstone-client:", err)
	os.Exit(1)
}
