package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/config"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/handler"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/repository"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/server"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/service"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/migrations"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/circuit_breaker"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/kafka"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/logger"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "circulation")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	cb := circuit_breaker.New(20, time.Minute, 0.5, 5)
	sink := service.NewKafkaSink(producer, cb, log)

	svc := service.NewService(repo, sink, cfg.Engine, log)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	go sweepLoop(jobCtx, svc, cfg.Engine.SweepInterval, log)
	go reconcileLoop(jobCtx, svc, cfg.Engine.ReconcileInterval, log)

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

	stopJobs()
	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}

// sweepLoop runs the hold-expiry/overdue sweep on a timer. The sweep also
// runs on demand via the staff endpoint; both paths are idempotent.
func sweepLoop(ctx context.Context, svc *service.Service, interval time.Duration, log *zap.Logger) {
	ctx = auth.SetAuthContext(ctx, auth.User{ID: "system", Role: auth.RoleAdmin})
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			result, err := svc.SweepExpiredHolds(ctx)
			if err != nil {
				log.Error("sweep expired holds", zap.Error(err))
				continue
			}
			if result.ExpiredHolds > 0 || result.OverdueLoans > 0 {
				log.Info("sweep",
					zap.Int("expired_holds", result.ExpiredHolds),
					zap.Int("overdue_loans", result.OverdueLoans))
			}
		case <-ctx.Done():
			return
		}
	}
}

func reconcileLoop(ctx context.Context, svc *service.Service, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := svc.Reconcile(ctx); err != nil {
				log.Error("reconcile counts", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
