package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hijjiri/todo-api/internal/config"
	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"github.com/hijjiri/todo-api/internal/infrastructure/memory"
	mongorepo "github.com/hijjiri/todo-api/internal/infrastructure/mongodb"
	mysqlrepo "github.com/hijjiri/todo-api/internal/infrastructure/mysql"
	redisrepo "github.com/hijjiri/todo-api/internal/infrastructure/redis"
	"github.com/hijjiri/todo-api/internal/infrastructure/retry"
	grpcadapter "github.com/hijjiri/todo-api/internal/interface/grpc"
	httpadapter "github.com/hijjiri/todo-api/internal/interface/http"
	"github.com/hijjiri/todo-api/internal/telemetry"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	_ "github.com/go-sql-driver/mysql"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// store はバックエンドごとの Repository / Pinger / 後始末をまとめたもの
type store struct {
	repo   domain_todo.Repository
	pinger domain_todo.Pinger
	close  func(ctx context.Context) error
}

//----------------------
// ストア接続
//----------------------

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, coll, err := mongorepo.Connect(ctx, mongorepo.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		repo := mongorepo.NewTodoRepository(coll, logger)
		return &store{repo: repo, pinger: repo, close: client.Disconnect}, nil

	case config.BackendMySQL:
		db, err := sql.Open("mysql", mysqlrepo.BuildDSN(mysqlrepo.DBConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Name:     cfg.DB.Name,
		}))
		if err != nil {
			return nil, fmt.Errorf("mysql: open: %w", err)
		}
		repo := mysqlrepo.NewTodoRepository(db, logger)
		return &store{repo: repo, pinger: repo, close: func(context.Context) error { return db.Close() }}, nil

	case config.BackendRedis:
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo := redisrepo.NewTodoRepository(rdb, redisrepo.WithPrefix(cfg.Redis.Prefix))
		return &store{repo: repo, pinger: repo, close: func(context.Context) error { return rdb.Close() }}, nil

	case config.BackendMemory:
		repo := memory.NewTodoRepository()
		return &store{repo: repo, pinger: repo, close: func(context.Context) error { return nil }}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

//----------------------
// main
//----------------------

func main() {
	// ---- Logger ----
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// ---- Config 読み込み ----
	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.IsDev() {
		if dl, err := zap.NewDevelopment(); err == nil {
			logger = dl
		}
	}
	defer logger.Sync()
	logger.Info("loaded config",
		zap.String("app_env", cfg.AppEnv),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("ops_grpc_addr", cfg.OpsGRPCAddr),
		zap.String("metrics_addr", cfg.MetricsAddr),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Duration("http_request_timeout", cfg.HTTPRequestTimeout),
		zap.Float64("rate_rps", cfg.RateRPS),
		zap.Bool("tracing_enabled", cfg.TracingEnabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Tracing ----
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.TracingEnabled, logger)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}

	// ---- Store 接続 ----
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}

	if err := retry.PingWithRetry(ctx, st.pinger, logger, retry.DefaultStartup); err != nil {
		logger.Fatal("failed to connect store", zap.Error(err))
	}
	if r, ok := st.repo.(*mysqlrepo.TodoRepository); ok {
		if err := r.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure schema", zap.Error(err))
		}
	}
	logger.Info("connected to store", zap.String("backend", cfg.StoreBackend))

	// ---- Usecase / Handler ----
	uc := todo_usecase.New(st.repo, logger)
	todoHandler := httpadapter.NewTodoHandler(uc, logger)

	metrics := telemetry.NewMetrics()
	router := httpadapter.NewRouter(todoHandler, httpadapter.RouterOptions{
		Logger:         logger,
		Metrics:        metrics,
		Pinger:         st.pinger,
		RequestTimeout: cfg.HTTPRequestTimeout,
		AllowedOrigin:  cfg.CORSAllowedOrigin,
		RateRPS:        cfg.RateRPS,
		RateBurst:      cfg.RateBurst,
		ServiceName:    cfg.ServiceName,
	})

	// ---- metrics HTTP サーバ (/metrics) ----
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("metrics server started", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	// ---- ops gRPC サーバ (health / reflection) ----
	opsSrv, healthSrv := grpcadapter.NewOpsServer(logger, cfg.ServiceName, cfg.HTTPRequestTimeout)
	watcher := grpcadapter.NewStoreHealthWatcher(st.pinger, healthSrv, cfg.ServiceName, logger, 10*time.Second)
	go watcher.Run(ctx)

	lis, err := net.Listen("tcp", cfg.OpsGRPCAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.OpsGRPCAddr), zap.Error(err))
	}
	go func() {
		logger.Info("ops gRPC server started", zap.String("addr", cfg.OpsGRPCAddr))
		if err := opsSrv.Serve(lis); err != nil {
			logger.Error("ops gRPC server exited with error", zap.Error(err))
		}
	}()

	// ---- API HTTP サーバ ----
	apiSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server is starting", zap.String("addr", cfg.HTTPAddr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("HTTP server exited with error", zap.Error(err))
	}

	// ---- graceful shutdown ----
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
	opsSrv.GracefulStop()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown", zap.Error(err))
	}
	if err := st.close(shutdownCtx); err != nil {
		logger.Warn("store close", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
