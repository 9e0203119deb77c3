package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/club-cms/config"
	"github.com/Eursukkul/club-cms/internal/auth"
	"github.com/Eursukkul/club-cms/internal/commands"
	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/internal/repository"
	"github.com/Eursukkul/club-cms/internal/server"
	"github.com/Eursukkul/club-cms/internal/service"
	"github.com/Eursukkul/club-cms/pkg/database"
	"github.com/Eursukkul/club-cms/pkg/rabbitmq"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hash-password":
			commands.HashPassword(os.Args[2:])
			return
		case "admin":
			os.Exit(commands.Admin(os.Args[2:]))
		case "watch":
			os.Exit(commands.Watch(os.Args[2:]))
		}
	}

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	events    repository.RecordRepository[models.Event]
	workshops repository.RecordRepository[models.Workshop]
	close     func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.OpenMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.MongoDatabase)
		return &stores{
			events:    repository.NewMongoRecordRepository[models.Event](db),
			workshops: repository.NewMongoRecordRepository[models.Workshop](db),
			close:     func() { _ = client.Disconnect(context.Background()) },
		}, nil
	default:
		open := func() (*gorm.DB, error) { return database.NewPostgresDB(cfg.DSN()) }
		if cfg.StoreDriver == config.DriverSQLite {
			open = func() (*gorm.DB, error) { return database.NewSQLiteDB(cfg.SQLitePath) }
		}
		db, err := open()
		if err != nil {
			return nil, err
		}
		return &stores{
			events:    repository.NewGormRecordRepository[models.Event](db),
			workshops: repository.NewGormRecordRepository[models.Workshop](db),
			close:     func() { _ = database.Close(db) },
		}, nil
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	// a nil interface disables change notifications
	var publisher service.Publisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			return fmt.Errorf("connect to RabbitMQ: %w", err)
		}
		defer p.Close()
		publisher = p
	} else {
		slog.Info("RABBITMQ_URL not set, change notifications disabled")
	}

	var authenticator *auth.Authenticator
	if cfg.AuthDisabled {
		slog.Warn("AUTH_DISABLED=true: write endpoints are unprotected, for local development only")
	} else {
		authenticator = auth.NewAuthenticator(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTTTL)
	}

	e := server.New(server.Deps{
		Events:      service.NewRecordService[models.Event](st.events, publisher),
		Workshops:   service.NewRecordService[models.Workshop](st.workshops, publisher),
		Auth:        authenticator,
		CORSOrigins: cfg.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("club-cms starting", "port", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
