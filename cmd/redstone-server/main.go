// Command redstone-server runs a single redstone cache node: a gRPC
// listener serving Put/Get/Delete/GetStats over an in-memory LRU
// engine, plus a Prometheus /metrics endpoint.
//
// Run:
//
//	go run ./cmd/redstone-server -addr :7070 -metrics-addr :9090 -max-bytes 1073741824
//
// © 2025 redstone authors. MIT License.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/pri1712/redstone/pkg/engine"
	"github.com/pri1712/redstone/pkg/server"
	"github.com/pri1712/redstone/pkg/tensorcacherpc"
)

type options struct {
	addr        string
	metricsAddr string
	maxBytes    uint64
	debug       bool
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.addr, "addr", ":7070", "gRPC listen address")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", ":9090", "Prometheus /metrics listen address")
	flag.Uint64Var(&opts.maxBytes, "max-bytes", 1<<30, "maximum resident bytes before eviction")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug-level logging")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	logger, err := newLogger(opts.debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "redstone-server: logger init:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()

	cache, err := engine.New(opts.maxBytes, engine.WithLogger(logger), engine.WithMetrics(reg))
	if err != nil {
		logger.Fatal("engine init", zap.Error(err))
	}
	defer cache.Close()

	lis, err := net.Listen("tcp", opts.addr)
	if err != nil {
		logger.Fatal("listen", zap.String("addr", opts.addr), zap.Error(err))
	}

	gs := grpc.NewServer()
	tensorcacherpc.RegisterRedStoneServer(gs, server.New(cache, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSrv := &http.Server{Addr: opts.metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		logger.Info("metrics listening", zap.String("addr", opts.metricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("grpc listening", zap.String("addr", opts.addr), zap.Uint64("max_bytes", opts.maxBytes))
		if err := gs.Serve(lis); err != nil {
			logger.Error("grpc serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	gs.GracefulStop()
	_ = metricsSrv.Shutdown(context.Background())
}
