package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-rental/config"
	"github.com/Astemirdum/library-rental/internal/handler"
	"github.com/Astemirdum/library-rental/internal/repository"
	"github.com/Astemirdum/library-rental/internal/server"
	"github.com/Astemirdum/library-rental/internal/service"
	"github.com/Astemirdum/library-rental/migrations"
	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/pkg/logger"
	"github.com/Astemirdum/library-rental/pkg/postgres"
	"github.com/Astemirdum/library-rental/pkg/stripe"
	"github.com/Astemirdum/library-rental/pkg/telegram"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}

	borrowingRepo, err := repository.NewBorrowingRepository(db, log)
	if err != nil {
		log.Fatal("borrowing repo", zap.Error(err))
	}
	bookRepo, err := repository.NewBookRepository(db, log)
	if err != nil {
		log.Fatal("book repo", zap.Error(err))
	}
	paymentRepo, err := repository.NewPaymentRepository(db, log)
	if err != nil {
		log.Fatal("payment repo", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	queue := kafka.NewEnqueuer(producer)

	checkout := stripe.NewClient(cfg.Stripe, log)
	notifier := telegram.NewClient(cfg.Telegram, log)

	borrowingSvc := service.NewBorrowingService(borrowingRepo, paymentRepo, checkout, notifier, queue, cfg.Business, log)
	bookSvc := service.NewBookService(bookRepo, log)
	scanner := service.NewScanner(borrowingRepo, notifier, log)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Business.OverdueCronSpec, func() {
		if _, err := scanner.Scan(context.Background()); err != nil {
			log.Error("overdue scan", zap.Error(err))
		}
	}); err != nil {
		log.Fatal("cron schedule", zap.Error(err))
	}
	c.Start()

	h := handler.New(borrowingSvc, bookSvc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	<-c.Stop().Done()
	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
