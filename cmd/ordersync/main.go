package main

import (
	"context"
	"flag"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"orderdash/pkg/config"
	"orderdash/pkg/normalize"
	"orderdash/pkg/orders"
	"orderdash/pkg/sheets"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configFile := flag.String("config", "orderdash.toml", "Path to the TOML config file")
	sheetURL := flag.String("sheet", "", "Google Sheets link or spreadsheet ID (required)")
	rng := flag.String("range", "", "Range to read, e.g. 'Feuille1!A:Z'")
	method := flag.String("method", "", "public-csv or service-account (guessed from the link by default)")
	out := flag.String("out", "orders.xlsx", "XLSX file to write")

	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if *sheetURL == "" {
		log.Error("You must specify a sheet with -sheet")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.New(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	req := orders.LoadRequest{SheetID: *sheetURL, Range: *rng}
	if link, ok := sheets.ParseLink(*sheetURL); ok {
		req.SheetID, req.GID, req.CSVURL, req.Method = link.SheetID, link.GID, link.CSVURL, link.Method
	}
	if *method != "" {
		m, ok := sheets.ParseMethod(*method)
		if !ok {
			log.Fatalf("Unknown method %q", *method)
		}
		req.Method = m
	}

	sources := map[sheets.Method]sheets.Fetcher{
		sheets.MethodPublicCSV: sheets.NewCSVClient(nil),
	}
	if req.Method != sheets.MethodPublicCSV {
		s := cfg.Store.Sheets
		client, err := sheets.NewClient(context.Background(), sheets.Credentials{
			CredentialsFile: s.CredentialsFile,
			ClientEmail:     s.ClientEmail,
			PrivateKey:      s.PrivateKey,
		}, sheets.WithMaxRetries(s.MaxRetries))
		if err != nil {
			log.Fatalf("Failed to create Sheets client: %v", err)
		}
		sources[sheets.MethodServiceAccount] = client
	}

	loader := &orders.Loader{
		Cache:        orders.NewCache(),
		Sources:      sources,
		DefaultRange: cfg.Store.Sheets.DefaultRange,
		Cities:       normalize.LoadCustomCities(cfg.Store.Orders.KnownCities),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	entry, err := loader.Load(ctx, req)
	if err != nil {
		log.Fatalf("Failed to load orders: %v", err)
	}

	for _, field := range orders.Fields {
		if header, ok := entry.Meta.Mapping[field]; ok {
			log.Infof("%-16s <- %q", field, header)
		}
	}
	if len(entry.Meta.MissingHeaders) > 0 {
		log.Warnf("Columns not found: %v", entry.Meta.MissingHeaders)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()
	if err := orders.WriteXLSX(f, entry.Orders); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}

	kpis := orders.ComputeKPIs(entry.Orders)
	log.Infof("Wrote %d orders to %s, total sales %s", kpis.TotalOrders, *out, normalize.FormatMoney(kpis.TotalSales, cfg.Store.Orders.Currency))
}
