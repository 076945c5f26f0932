package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/samber/do/v2"

	"github.com/termalign/termalign-server/internal/api"
	"github.com/termalign/termalign-server/internal/config"
	"github.com/termalign/termalign-server/internal/logger"
	"github.com/termalign/termalign-server/internal/mcptools"
	"github.com/termalign/termalign-server/internal/service"
	"github.com/termalign/termalign-server/internal/sse"
	"github.com/termalign/termalign-server/internal/validation"
)

// Version is reported by the OpenAPI document and the MCP handshake.
const Version = "1.0.0"

// APIServerHandle wraps the API handler so its background workers stop on shutdown.
type APIServerHandle struct {
	*api.Server
}

// Shutdown implements do.Shutdownable.
func (h *APIServerHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAPIServer provides the HTTP handler with every route registered.
func ProvideAPIServer(i do.Injector) (*APIServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Catalogue: do.MustInvoke[*service.CatalogueService](i),
		Analysis:  do.MustInvoke[*service.AnalysisService](i),
		Workspace: do.MustInvoke[*service.WorkspaceService](i),
		Export:    do.MustInvoke[*service.ExportService](i),
	}

	handler := api.NewServer(storeHandle.Store, indexHandle.SearchIndex, services, api.Options{
		Title:              cfg.Server.Name,
		Version:            Version,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MaxUploadBytes:     cfg.Analysis.MaxUploadBytes,
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
		RateLimitBurst:     cfg.RateLimit.Burst,
		Events:             sse.NewHandler(sseHandle.Manager, log.Logger),
	}, log.Logger)

	return &APIServerHandle{Server: handler}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	handler := do.MustInvoke[*APIServerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}

// ProvideMCPServer provides the MCP tool server. It is not connected to a
// transport; the caller picks one.
func ProvideMCPServer(i do.Injector) (*mcp.Server, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return mcptools.New(
		do.MustInvoke[*service.CatalogueService](i),
		do.MustInvoke[*service.AnalysisService](i),
		do.MustInvoke[*validation.Validator](i),
		log.Logger,
		Version,
	), nil
}
