package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"go.uber.org/zap"

	"invoiceservice/internal/app/config"
	httpapi "invoiceservice/internal/app/http"
	"invoiceservice/internal/app/http/handler"
	"invoiceservice/internal/domain/customer"
	"invoiceservice/internal/domain/invoice"
	"invoiceservice/internal/domain/notification"
	"invoiceservice/internal/domain/user"
	"invoiceservice/internal/infrastructure/async"
	"invoiceservice/internal/infrastructure/db/pg"
	"invoiceservice/internal/infrastructure/logging"
	"invoiceservice/internal/infrastructure/mail"
	"invoiceservice/internal/listener"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open error", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("db ping error", zap.Error(err))
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("goose dialect error", zap.Error(err))
	}
	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatal("goose up error", zap.Error(err))
	}

	uow := pg.NewTxManager(db)

	pool := async.NewWorkerPool(ctx, cfg.EventWorkers, cfg.EventTaskTimeout, log)
	eventBus := async.NewEventBus(pool, log)
	defer eventBus.Close()

	userRepo := pg.NewUserRepository(db)
	customerRepo := pg.NewCustomerRepository(db)
	invoiceRepo := pg.NewInvoiceRepository(db)
	notificationRepo := pg.NewNotificationRepository(db)

	userSvc := user.NewService(userRepo, []byte(cfg.JWTSecret))
	customerSvc := customer.NewService(customerRepo)
	invoiceSvc := invoice.NewService(uow, invoiceRepo, customerRepo, eventBus)
	notificationSvc := notification.NewService(notificationRepo)

	var gateway mail.Gateway
	if cfg.SMTPHost != "" {
		gateway = mail.NewSMTPGateway(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFromName, log)
	} else {
		gateway = mail.NewNoopGateway(log)
	}

	listener.Register(eventBus,
		listener.NewInvoiceCreated(notificationSvc, gateway, userRepo, customerRepo, cfg.NotifyOnInvoiceCreated, log),
		listener.NewInvoiceStatusChanged(notificationSvc, gateway, log),
	)

	h := handler.New(userSvc, customerSvc, invoiceSvc, notificationSvc, log)
	router := httpapi.NewRouter(h, []byte(cfg.JWTSecret), log)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
