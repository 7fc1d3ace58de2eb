// Package main is the odoo-quick-login agent: it watches a live page and
// injects a one-click credential picker, and doubles as the management
// surface for listing, adding, and removing stored credentials.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/heyzeeshan/odoo-quick-login/internal/autofill"
	"github.com/heyzeeshan/odoo-quick-login/internal/browser"
	"github.com/heyzeeshan/odoo-quick-login/internal/config"
	"github.com/heyzeeshan/odoo-quick-login/internal/db"
	"github.com/heyzeeshan/odoo-quick-login/internal/injector"
	"github.com/heyzeeshan/odoo-quick-login/internal/instance"
	"github.com/heyzeeshan/odoo-quick-login/internal/logger"
	"github.com/heyzeeshan/odoo-quick-login/internal/models"
	"github.com/heyzeeshan/odoo-quick-login/internal/server/handler/http"
	"github.com/heyzeeshan/odoo-quick-login/internal/service"
	"github.com/heyzeeshan/odoo-quick-login/internal/store"
	"github.com/heyzeeshan/odoo-quick-login/internal/syncsignal"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// main parses command-line flags and dispatches to the watch, serve, or
// management commands.
func main() {
	var (
		cmd         string
		instanceKey string
		username    string
		secret      string
		index       int
		showVer     bool
	)

	flag.StringVar(&cmd, "cmd", "", "command: watch | serve | list | add | remove | detect")
	flag.StringVar(&instanceKey, "instance", "", "instance key for management commands")
	flag.StringVar(&username, "username", "", "username for the add command")
	flag.StringVar(&secret, "secret", "", "secret for the add command")
	flag.IntVar(&index, "index", -1, "list position for the remove command")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	options := config.Parse()

	if showVer {
		fmt.Printf("odoo-quick-login Agent\nVersion: %s\nBuild Date: %s\n",
			cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	// Initialize structured logging.
	lg := logger.New()
	defer func() { _ = lg.Log.Sync() }()
	if err := lg.Init("Info"); err != nil {
		lg.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := lg.Log

	backend, err := newBackend(context.Background(), options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init vault backend", zap.Error(err))
	}
	credStore := store.New(backend, zapLogger)
	signals := syncsignal.NewBroadcaster()
	svc := service.NewCredentialService(credStore, signals)

	switch cmd {
	case "watch":
		runWatch(options, credStore, signals, zapLogger)
	case "serve":
		runServe(options, svc, zapLogger)
	case "list":
		if instanceKey == "" {
			keys := svc.Instances(context.Background())
			if len(keys) == 0 {
				fmt.Println("No instances stored")
				return
			}
			for _, key := range keys {
				fmt.Println(key)
			}
			return
		}
		records := svc.List(context.Background(), instanceKey)
		if len(records) == 0 {
			fmt.Println("No credentials stored for this instance")
			return
		}
		for i, rec := range records {
			fmt.Printf("%d: %s\n", i, rec.Username)
		}
	case "add":
		if instanceKey == "" || username == "" {
			log.Fatal("please provide -instance=key and -username=name")
		}
		svc.Add(context.Background(), instanceKey, models.Record{
			Username: username,
			Secret:   secret,
		})
		fmt.Println("Credential added")
	case "remove":
		if instanceKey == "" || index < 0 {
			log.Fatal("please provide -instance=key and -index=position")
		}
		if svc.RemoveAt(context.Background(), instanceKey, index) {
			fmt.Println("Credential removed")
		} else {
			fmt.Println("No credential at that position")
		}
	case "detect":
		if options.TargetURL == "" {
			log.Fatal("please provide -url=page")
		}
		key, err := detectKey(options, zapLogger)
		if err != nil {
			zapLogger.Fatal("detection failed", zap.Error(err))
		}
		fmt.Println(key)
	default:
		log.Fatalf("unknown command: %s", cmd)
	}
}

// newBackend selects the vault backend: PostgreSQL when a DSN is
// configured, the JSON file otherwise.
func newBackend(ctx context.Context, options *config.Options, zapLogger *zap.Logger) (store.Backend, error) {
	if options.DatabaseDSN != "" {
		pgDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		db.StartBlankRecordCleaner(ctx, pgDB, time.Hour, zapLogger)
		return store.NewPostgresBackend(pgDB), nil
	}
	return store.NewFileBackend(options.VaultPath)
}

// runWatch attaches the injector to a live page and serves the
// management API from the same process. Additions made through the API
// reach the injector by dispatching the page's credentials-changed
// event, the same route a fully separate management context would use.
func runWatch(options *config.Options, credStore *store.Store, signals *syncsignal.Broadcaster, zapLogger *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.NewSession(browser.Options{Headless: options.Headless}, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot start browser", zap.Error(err))
	}
	defer func() {
		if err := session.Close(); err != nil {
			zapLogger.Warn("browser teardown failed", zap.Error(err))
		}
	}()

	if options.TargetURL != "" {
		if err := session.Navigate(options.TargetURL); err != nil {
			zapLogger.Fatal("cannot open target page", zap.Error(err))
		}
	}

	filler := autofill.New(session, zapLogger)
	inj := injector.New(session, credStore, filler, signals, zapLogger)
	if options.RefreshInterval > 0 {
		inj.SetRefreshInterval(options.RefreshInterval)
	}

	if err := session.OnSelect(func(index int) {
		inj.HandleSelection(ctx, index)
	}); err != nil {
		zapLogger.Fatal("cannot register selection binding", zap.Error(err))
	}
	if err := session.BindCredentialEvents(signals.Notify); err != nil {
		zapLogger.Fatal("cannot bridge credential events", zap.Error(err))
	}

	// Mutations go through the page event so they follow the same path
	// as a management context running outside this process; the page
	// binding forwards them into the broadcaster.
	notifier := syncsignal.NotifierFunc(func() {
		if err := session.DispatchCredentialEvent(ctx); err != nil {
			zapLogger.Debug("event dispatch failed, signaling in-process", zap.Error(err))
			signals.Notify()
		}
	})
	svc := service.NewCredentialService(credStore, notifier)

	// Management API alongside the watch loop.
	handler := &http.CredentialsHandler{Service: svc}
	server := &nethttp.Server{Addr: options.Addr, Handler: http.NewRouter(handler, zapLogger)}
	go func() {
		zapLogger.Info("starting management API", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			zapLogger.Error("management API stopped", zap.Error(err))
		}
	}()
	defer server.Close()

	zapLogger.Info("watching page", zap.String("url", options.TargetURL))
	inj.Run(ctx)
}

// runServe starts the management API without a browser attached.
func runServe(options *config.Options, svc *service.CredentialService, zapLogger *zap.Logger) {
	handler := &http.CredentialsHandler{Service: svc}
	server := &nethttp.Server{Addr: options.Addr, Handler: http.NewRouter(handler, zapLogger)}

	zapLogger.Info("starting management API", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start management API", zap.Error(err))
	}
}

// detectKey opens the target page headless and prints the instance key
// both contexts would derive for it.
func detectKey(options *config.Options, zapLogger *zap.Logger) (string, error) {
	session, err := browser.NewSession(browser.Options{Headless: true}, zapLogger)
	if err != nil {
		return "", err
	}
	defer session.Close()

	if err := session.Navigate(options.TargetURL); err != nil {
		return "", err
	}
	state, err := session.PageState(context.Background())
	if err != nil {
		return "", err
	}
	return instance.DetectKey(state), nil
}
