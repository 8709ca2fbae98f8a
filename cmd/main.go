package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-toolkit/config"
	"trading-toolkit/internal/client"
	"trading-toolkit/internal/category"
	"trading-toolkit/internal/commands"
	"trading-toolkit/internal/database"
	"trading-toolkit/internal/investing"
	"trading-toolkit/internal/kite"
	"trading-toolkit/internal/kohan"
	"trading-toolkit/internal/metrics"
	"trading-toolkit/internal/orders"
	"trading-toolkit/lib/helpers"
)

func init() {
	config.InitConfig()
	setupLogging()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code so deferred cleanup happens before the process exits.
func run(args []string) int {
	err := database.InitDB(config.GetString("db_path"))
	if err != nil {
		log.Errorf("Failed to initialize database: %v", err)
		return 1
	}
	defer database.CloseDB()

	toolkit, err := newToolkit(database.NewSQLiteStore(database.DB))
	if err != nil {
		log.Errorf("Failed to set up toolkit: %v", err)
		return 1
	}

	if len(args) > 0 && args[0] == "serve" {
		if err := serve(toolkit); err != nil {
			log.Errorf("Serve failed: %v", err)
			return 1
		}
		return 0
	}

	out, err := toolkit.Handle(context.Background(), args)
	if err != nil {
		if errors.Is(err, commands.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		log.Errorf("%v", err)
		return 1
	}
	if out != "" {
		fmt.Println(out)
	}
	return 0
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting trading toolkit...")
}

func newToolkit(store database.KeyValueStore) (*commands.Toolkit, error) {
	lists, err := category.New(config.GetInt("category_count"), category.StoreHooks(store, commands.CategoryStoreKey))
	if err != nil {
		return nil, err
	}

	httpClient := client.WithHTTPClient(&http.Client{
		Timeout: time.Duration(config.GetInt("http_timeout")) * time.Second,
	})

	return &commands.Toolkit{
		Investing: investing.New(config.GetString("investing_base_url"), config.GetString("investing_cookie"), httpClient),
		Kite:      kite.New(config.GetString("kite_base_url"), store, httpClient),
		Kohan:     kohan.New(config.GetString("kohan_base_url"), httpClient),
		Lists:     lists,
		Store:     store,
	}, nil
}

// serve keeps the GTT order map fresh and exposes metrics until interrupted.
func serve(toolkit *commands.Toolkit) error {
	log.SetLevel(log.InfoLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	metrics.LoadFromDB()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interval := time.Duration(config.GetInt("sync_interval")) * time.Second
	syncer := orders.NewSyncer(toolkit.Kite, toolkit.Store)
	if err := syncer.Start(ctx, interval); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.SaveToDB()
			}
		}
	}()

	srv := metrics.NewServer(config.GetInt("metrics_port"))
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancel()
		metrics.SaveToDB()
		log.Infof("Metrics saved, last GTT sync %s, shutting down...", helpers.FormatSince(syncer.LastSync()))

		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Metrics server shutdown failed: %v", err)
		}
	}()

	log.Infof("Launching metrics and health endpoint on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
