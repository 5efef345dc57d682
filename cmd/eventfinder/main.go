// package main provides a command line interface for starting the eventfinder REST API.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"

	"github.com/findrandomevents/eventfinder/config"
	"github.com/findrandomevents/eventfinder/geocode"
	"github.com/findrandomevents/eventfinder/log"
	"github.com/findrandomevents/eventfinder/prom"
	"github.com/findrandomevents/eventfinder/rest"
	"github.com/findrandomevents/eventfinder/serpapi"
	"github.com/findrandomevents/eventfinder/service"
	"github.com/findrandomevents/eventfinder/session"
)

func main() {
	var (
		configPath  = flag.String("config", os.Getenv("CONFIG"), "path to an optional YAML config file")
		envFile     = flag.String("env-file", ".env", "optional file of KEY=value pairs, SERPAPI_KEY usually lives here")
		listen      = flag.String("listen", "", "address where the REST API listens for connections, overrides the config")
		environment = flag.String("environment", "", "development or production, controls log verbosity, overrides the config")
	)
	flag.Parse()

	conf, err := config.Load(*configPath, *envFile)
	if err != nil {
		panic(err)
	}
	if *listen != "" {
		conf.Listen = *listen
	}
	if *environment != "" {
		conf.Environment = *environment
	}

	logger, err := log.New(conf.Environment)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := conf.Validate(); err != nil {
		logger.Fatal("bad config", zap.Error(err))
	}
	logger.Info("loaded config", zap.Stringer("config", conf))

	searcher := serpapi.New(conf.SerpAPI.APIKey)
	searcher.HTTP.Timeout = conf.SerpAPI.Timeout
	searcher.BaseURL = conf.SerpAPI.BaseURL
	searcher.Language = conf.SerpAPI.Language
	searcher.Region = conf.SerpAPI.Region

	resolver := geocode.New(conf.Geocode.UserAgent)
	resolver.HTTP.Timeout = conf.Geocode.Timeout
	resolver.BaseURL = conf.Geocode.BaseURL
	resolver.Language = conf.SerpAPI.Language

	sessions := session.NewStore(conf.Sessions.TTL)
	if err := sessions.StartExpiry(conf.Sessions.ExpirySchedule, logger); err != nil {
		logger.Fatal("start session expiry failed", zap.Error(err))
	}
	defer sessions.StopExpiry()

	minMove := *conf.Sessions.MinMoveMeters
	if minMove == 0 {
		minMove = -1 // no locality reuse
	}

	service := &service.Service{
		Searcher:      searcher,
		Resolver:      resolver,
		Sessions:      sessions,
		MinMoveMeters: minMove,
	}

	var handler http.Handler
	handler = rest.New(service)
	handler = log.WrapHandler(handler, logger)
	handler = handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"}),
		handlers.AllowedOrigins(conf.CORSOrigins),
	)(handler)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", prom.Handler())

	srv := &http.Server{
		Addr:              conf.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", conf.Listen))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("http server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
