package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"orderdash/pkg/api"
	"orderdash/pkg/config"
	"orderdash/pkg/metrics"
	"orderdash/pkg/normalize"
	"orderdash/pkg/orders"
	"orderdash/pkg/sheets"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configFile := flag.String("config", "orderdash.toml", "Path to the TOML config file")

	flag.Parse()
	if *verbose {
		// Set the log level to debug
		log.SetLevel(log.DebugLevel)
	}
	// Set the log format to include a leading timestamp in ISO8601 format
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.New(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	reg := metrics.NewRegistry()
	serviceAccount := newServiceAccountSource(cfg, reg)
	cache := orders.NewCache()
	cities := normalize.LoadCustomCities(cfg.Store.Orders.KnownCities)

	handler := &api.Handler{
		Loader: &orders.Loader{
			Cache: cache,
			Sources: map[sheets.Method]sheets.Fetcher{
				sheets.MethodServiceAccount: serviceAccount,
				sheets.MethodPublicCSV:      sheets.NewCSVClient(nil),
			},
			DefaultRange: cfg.Store.Sheets.DefaultRange,
			Cities:       cities,
			Observer:     reg,
		},
		Cache:        cache,
		Reconciler:   orders.NewReconciler(cache, serviceAccount, cities, reg),
		Metrics:      reg,
		Currency:     cfg.Store.Orders.Currency,
		DefaultRange: cfg.Store.Sheets.DefaultRange,
	}

	go startServer(cfg.Store.Server.ListenAddress, api.GetRouter(handler))

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	// The cache lives in memory only, so there is nothing to flush on exit.
	<-signalChan
	log.Info("Signalled, shutting down")
}

type sheetSource interface {
	sheets.Fetcher
	sheets.RowWriter
}

func newServiceAccountSource(cfg *config.Config, reg *metrics.Registry) sheetSource {
	if !cfg.HasServiceAccount() {
		log.Warn("No service account configured, only public CSV sheets can be read")
		return sheets.Unavailable{Err: &sheets.SourceError{
			Kind:    sheets.KindCredentials,
			Message: "missing Google service account credentials",
		}}
	}
	s := cfg.Store.Sheets
	client, err := sheets.NewClient(context.Background(), sheets.Credentials{
		CredentialsFile: s.CredentialsFile,
		ClientEmail:     s.ClientEmail,
		PrivateKey:      s.PrivateKey,
	}, sheets.WithMaxRetries(s.MaxRetries), sheets.WithFallbackRecorder(reg))
	if err != nil {
		log.WithError(err).Warn("Service account unavailable, only public CSV sheets can be read")
		return sheets.Unavailable{Err: err}
	}
	return client
}

func startServer(addr string, router http.Handler) {
	server := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
	}
	log.Infof("listening for HTTP on: %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("ListenAndServeError", err)
	}
}
