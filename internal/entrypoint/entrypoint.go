// Package entrypoint wires configuration, storage, services and the HTTP
// router together and runs the server until shutdown.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openshelf/librarium/internal/audit"
	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/config"
	"github.com/openshelf/librarium/internal/database"
	"github.com/openshelf/librarium/internal/database/books"
	"github.com/openshelf/librarium/internal/database/categories"
	"github.com/openshelf/librarium/internal/database/transactions"
	"github.com/openshelf/librarium/internal/database/users"
	http_controllers "github.com/openshelf/librarium/internal/http"
	"github.com/openshelf/librarium/internal/library"
	"github.com/openshelf/librarium/internal/scheduler"
)

func Run(cfg *config.Config, version string) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Repositories are constructed once and passed by reference.
	bookRepo := books.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	transactionRepo := transactions.NewRepository(db.DB)

	service := library.NewService(bookRepo, categoryRepo, userRepo, transactionRepo, library.Options{
		ReserveOnZero: cfg.Library.ReserveOnZero,
		Auditor:       audit.NewAuditor(cfg.Audit.Dir),
	})

	authService := auth.NewService(userRepo, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to access underlying database handle: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Service:        service,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthConfig:     cfg.Auth,
		Version:        version,
	})

	reconcileScheduler := scheduler.NewReconcileScheduler(service, cfg.Reconcile)
	if err := reconcileScheduler.Start(); err != nil {
		log.Fatalf("Failed to start reconcile scheduler: %v", err)
	}
	defer reconcileScheduler.Stop()

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("Listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
}
