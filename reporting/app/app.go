package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/kafka"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/logger"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/postgres"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/config"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/handler"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/repository"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/server"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/service"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/migrations"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "reporting")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	svc := service.NewService(repo, log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.ReportingConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	consumeCtx, stopConsume := context.WithCancel(context.Background())
	go kafka.Consume(consumeCtx, consumer, handler.NewConsumer(svc.Record, log), kafka.AuditTopic)

	h := handler.New(svc, log)
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

	stopConsume()
	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
