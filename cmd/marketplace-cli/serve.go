// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/utils/profiler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kamda-cyrial/marketplace/pubsub"
	"github.com/kamda-cyrial/marketplace/rpc"
	"github.com/kamda-cyrial/marketplace/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local ledger over JSON-RPC and websockets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadNodeConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		registry := prometheus.NewRegistry()
		node, err := openLocal(cfg, log, registry)
		if err != nil {
			return err
		}
		defer node.Close()

		feed, ws := rpc.NewWebSocketServer(log, node.runtime, pubsub.NewDefaultServerConfig())
		handler, err := rpc.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(log, node.runtime, node.program, feed))
		if err != nil {
			return err
		}
		listener, err := net.Listen("tcp", cfg.RPCAddress)
		if err != nil {
			return err
		}
		s := server.New(log, listener, server.NewDefaultHTTPConfig(), cfg.AllowedOrigins, shutdownTimeout)
		s.AddRoute(handler, rpc.JSONRPCEndpoint)
		s.AddStreamRoute(ws, rpc.WebSocketEndpoint)
		s.AddRoute(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), rpc.MetricsEndpoint)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := s.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		var p profiler.ContinuousProfiler
		if pc := cfg.GetContinuousProfilerConfig(); pc.Enabled {
			p = profiler.NewContinuous(pc.Dir, pc.Freq, pc.MaxNumFiles)
			g.Go(p.Dispatch)
		}
		g.Go(func() error {
			<-ctx.Done()
			log.Info("shutting down")
			if p != nil {
				p.Shutdown()
			}
			return s.Shutdown()
		})
		log.Info("serving",
			zap.Stringer("address", listener.Addr()),
			zap.Stringer("program", node.program),
			zap.Bool("tracing", cfg.Trace.Enabled),
		)
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
