package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/polyakovs/library-lending/library/config"
	"github.com/polyakovs/library-lending/library/internal/handler"
	"github.com/polyakovs/library-lending/library/internal/repository"
	"github.com/polyakovs/library-lending/library/internal/server"
	"github.com/polyakovs/library-lending/library/internal/service"
	"github.com/polyakovs/library-lending/library/migrations"
	"github.com/polyakovs/library-lending/pkg/kafka"
	"github.com/polyakovs/library-lending/pkg/logger"
	"github.com/polyakovs/library-lending/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, cfg.FinePolicy(), log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	pub := service.Publisher(service.NewNopPublisher())
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close() //nolint:errcheck
		pub = service.NewKafkaPublisher(producer, kafka.LendingTopic)
	}

	svc := service.NewService(repo, pub, log)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server run", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
