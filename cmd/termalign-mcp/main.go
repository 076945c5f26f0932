// Package main runs the termalign MCP tool server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/samber/do/v2"

	"github.com/termalign/termalign-server/internal/config"
	"github.com/termalign/termalign-server/internal/di"
	"github.com/termalign/termalign-server/internal/di/providers"
	"github.com/termalign/termalign-server/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	injector := di.NewContainer(os.Args[1:])
	// stdout carries the protocol in stdio mode.
	do.Override(injector, providers.ProvideStderrLogger)

	if err := di.BootstrapCore(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap tool server: %v\n", err)
		return 1
	}
	defer func() { _ = injector.Shutdown() }()

	log := do.MustInvoke[*logger.Logger](injector)
	cfg := do.MustInvoke[*config.Config](injector)
	srv := do.MustInvoke[*mcp.Server](injector)
	transport := cfg.MCP.Transport

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch transport {
	case config.TransportStdio:
		log.Info("MCP server starting", "transport", transport)
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			log.Error("MCP server error", "error", err)
			return 1
		}
	case config.TransportHTTP:
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return srv
		}, nil)
		httpSrv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: handler}

		go func() {
			<-ctx.Done()
			_ = httpSrv.Close()
		}()

		log.Info("MCP server listening", "transport", transport, "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("MCP server error", "error", err)
			return 1
		}
	default:
		log.Error("Unknown MCP transport (use stdio or http)", "transport", transport)
		return 1
	}
	return 0
}
