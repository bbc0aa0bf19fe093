package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Lynndabel/Bloconnect/internal/config"
	"github.com/Lynndabel/Bloconnect/internal/db"
	httpHandlers "github.com/Lynndabel/Bloconnect/internal/http/handlers"
	httpRouter "github.com/Lynndabel/Bloconnect/internal/http/router"
	"github.com/Lynndabel/Bloconnect/internal/journal"
	"github.com/Lynndabel/Bloconnect/internal/ledger"
	"github.com/Lynndabel/Bloconnect/internal/logger"
	"github.com/Lynndabel/Bloconnect/internal/service"
	"github.com/Lynndabel/Bloconnect/internal/wallet"
	"github.com/Lynndabel/Bloconnect/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Журнал событий опционален: без DATABASE_URL леджер работает
	// только в памяти.
	var dbConn *sqlx.DB
	var eventJournal *journal.Journal
	if cfg.DatabaseURL != "" {
		dbConn, err = db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if err := db.EnsureSchema(ctx, dbConn); err != nil {
			log.Fatalf("main: ошибка создания схемы: %v", err)
		}

		eventJournal = journal.New(dbConn)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Кошельки и леджер.
	bank := wallet.New()
	core := ledger.New(bank, cfg.ArbitratorID, cfg.FeeBps)

	// Вебсокеты: события леджера уходят подписчикам и в журнал.
	hub := ws.NewHub(ctx)
	if eventJournal != nil {
		hub.SetEventSaver(eventJournal)
	}
	go hub.Run()
	core.SetNotifier(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(tokenManager, cfg.ArbitratorID, cfg.OperatorKeyHash)
	profileHandler := httpHandlers.NewProfileHandler(core)
	jobHandler := httpHandlers.NewJobHandler(core)
	proposalHandler := httpHandlers.NewProposalHandler(core)
	milestoneHandler := httpHandlers.NewMilestoneHandler(core)
	disputeHandler := httpHandlers.NewDisputeHandler(core)
	adminHandler := httpHandlers.NewAdminHandler(core)
	statsHandler := httpHandlers.NewStatsHandler(core)
	walletHandler := httpHandlers.NewWalletHandler(bank)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	var journalHandler *httpHandlers.JournalHandler
	if eventJournal != nil {
		journalHandler = httpHandlers.NewJournalHandler(eventJournal)
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, profileHandler, jobHandler, proposalHandler, milestoneHandler, disputeHandler, adminHandler, statsHandler, walletHandler, journalHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
