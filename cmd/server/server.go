package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/collabboard/server/collabboard/strokes"
	"codeberg.org/collabboard/server/internal/broadcast"
	"codeberg.org/collabboard/server/internal/config"
	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/registry"
	"codeberg.org/collabboard/server/internal/roomsync"
	ws "codeberg.org/collabboard/server/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// bound on connecting to the configured stroke store at start-up
const storeConnectTimeout = 15 * time.Second

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeConnectTimeout)
	defer cancel()

	log, err := openStrokeLog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("stroke log ready", "store", cfg.StrokeStore)

	// persistence runs behind the fan-out on its own ordered queue
	writer := strokes.NewWriter(log, cfg.StrokeQueue)

	hub := ws.NewHub()

	rooms := roomsync.New(registry.New(), broadcast.New(hub), log, writer, roomsync.Options{
		ReplayTimeout: cfg.ReplayTimeout,
	})

	ws.RegisterRoomHandlers(hub, rooms)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config: cfg,
		log:    log,
		writer: writer,
		rooms:  rooms,
		hub:    hub,
		router: router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		log.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, err
	}

	return server, nil
}

// opens the stroke log backend selected by STROKE_STORE
func openStrokeLog(ctx context.Context, cfg *config.Config) (strokes.Repository, error) {
	switch cfg.StrokeStore {
	case config.StoreMemory:
		return strokes.NewMemoryRepository(), nil

	case config.StoreSQLite:
		repo, err := strokes.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite stroke log: %w", err)
		}

		return repo, nil

	case config.StoreRedis:
		client, err := strokes.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}

		return strokes.NewRedisRepository(client), nil

	case config.StorePostgres:
		db, err := connectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		repo, err := strokes.NewPostgresRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}

		return repo, nil
	}

	return nil, fmt.Errorf("unknown stroke store %q", cfg.StrokeStore)
}

func connectPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// one writer worker plus replay and REST reads
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// poolers in transaction mode (pgbouncer) do not support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
