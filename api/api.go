package api

import (
	"context"
	"net/http"

	"github.com/ONSdigital/go-ns/log"
	"github.com/ONSdigital/go-ns/server"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/kbeame/ihme-ui/health"
)

var httpServer *server.Server

// RenderDefaults holds server-level defaults applied to render requests that
// do not specify their own values.
type RenderDefaults struct {
	Width    float64
	ZoomStep float64
}

// RendererAPI dispatches map, chart and analyse requests.
type RendererAPI struct {
	router   *mux.Router
	defaults RenderDefaults
}

// CreateRendererAPI starts the http server with every renderer route attached.
// Server errors are reported on errorChan so main can shut down cleanly.
func CreateRendererAPI(bindAddr string, allowedOrigins string, errorChan chan error, defaults RenderDefaults) {
	router := mux.NewRouter()
	routes(router, defaults)

	httpServer = server.New(bindAddr, corsHandler(allowedOrigins, router))
	// main owns graceful shutdown of the whole app
	httpServer.HandleOSSignals = false

	go func() {
		log.Debug("starting ihme-ui renderer", nil)
		if err := httpServer.ListenAndServe(); err != nil {
			log.ErrorC("api", err, log.Data{"method": "ListenAndServe"})
			errorChan <- err
		}
	}()
}

// corsHandler answers OPTIONS preflights and adds the headers CORS-enabled
// clients need.
func corsHandler(allowedOrigins string, router *mux.Router) http.Handler {
	headers := handlers.AllowedHeaders([]string{"Accept", "Content-Type", "Access-Control-Allow-Origin", "Access-Control-Allow-Methods", "X-Requested-With"})
	origins := handlers.AllowedOrigins([]string{allowedOrigins})
	methods := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})

	return handlers.CORS(origins, headers, methods)(router)
}

// routes registers every endpoint the renderer serves.
func routes(router *mux.Router, defaults RenderDefaults) *RendererAPI {
	api := RendererAPI{router: router, defaults: defaults}

	router.Path("/healthcheck").Methods("GET").HandlerFunc(health.Healthcheck)

	router.HandleFunc("/render/{render_type}", api.renderMap).Methods("POST")
	router.HandleFunc("/charts/{chart_type}", api.renderChart).Methods("POST")
	router.HandleFunc("/analyse", api.analyse).Methods("POST")
	return &api
}

// Close shuts the http server down within the given context.
func Close(ctx context.Context) error {
	if err := httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("http server stopped cleanly", nil)
	return nil
}
