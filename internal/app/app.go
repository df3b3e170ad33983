package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/storefront/internal/auth"
	"github.com/hitoshi/storefront/internal/catalog"
	"github.com/hitoshi/storefront/internal/config"
	"github.com/hitoshi/storefront/internal/customer"
	"github.com/hitoshi/storefront/internal/database"
	"github.com/hitoshi/storefront/internal/handler"
	"github.com/hitoshi/storefront/internal/logger"
	"github.com/hitoshi/storefront/internal/messaging/kafka"
	"github.com/hitoshi/storefront/internal/metrics"
	"github.com/hitoshi/storefront/internal/middleware"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/order"
	"github.com/hitoshi/storefront/internal/repository"
	"github.com/hitoshi/storefront/internal/repository/memory"
	"github.com/hitoshi/storefront/internal/token"
)

// dotEnvPath は起動時に読み込む.envファイルのパス。
const dotEnvPath = ".env"

// Init はアプリケーションの初期化を行う。
// .envと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. .envと環境変数から設定を読み込む
	if err := config.LoadDotEnv(dotEnvPath); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで再初期化する
	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	switch cmd {
	case CommandMigrate:
		return runMigrate(w, cfg, rest)
	case CommandToken:
		return runToken(w, cfg, rest)
	default:
		slog.Info("starting application",
			slog.String("command", string(cmd)),
			slog.String("port", cfg.ServerPort),
			slog.String("storage", cfg.Storage),
		)
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	}
}

// stores はリポジトリ一式とその後始末をまとめたもの。
type stores struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	// pinger はインメモリ構成ではnil。
	pinger repository.Pinger
	close  func() error
}

// openStores は設定に応じてPostgreSQLまたはインメモリのリポジトリを構築する。
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		customers := memory.NewCustomerRepository()
		if err := seedCustomer(customers, cfg); err != nil {
			return nil, err
		}
		slog.Warn("using in-memory storage; data is lost on restart")
		return &stores{
			products:  memory.NewProductRepository(),
			customers: customers,
			orders:    memory.NewOrderRepository(),
			close:     func() error { return nil },
		}, nil
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	return &stores{
		products:  repository.NewPostgresProductRepo(db),
		customers: repository.NewPostgresCustomerRepo(db),
		orders:    repository.NewPostgresOrderRepo(db),
		pinger:    db,
		close:     db.Close,
	}, nil
}

// seedCustomer はインメモリ構成でログイン可能な顧客を1件登録する。
// SEED_CUSTOMER_USERNAMEとSEED_CUSTOMER_PASSWORDの両方が設定されている場合のみ。
func seedCustomer(repo *memory.CustomerRepository, cfg *config.Config) error {
	if cfg.SeedCustomerUsername == "" || cfg.SeedCustomerPassword == "" {
		return nil
	}

	hash, err := customer.HashPassword(cfg.SeedCustomerPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	seeded := model.Customer{
		ID:       model.NewID(),
		Username: cfg.SeedCustomerUsername,
		Password: hash,
		Active:   1,
	}
	if err := repo.Add(seeded); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	slog.Info("seeded customer",
		slog.String("customer_id", seeded.ID),
		slog.String("username", seeded.Username),
	)
	return nil
}

// server はHTTPハンドラーと、停止時に解放するリソースをまとめたもの。
type server struct {
	handler http.Handler
	close   func()
}

// newServer は全依存関係をワイヤリングしたHTTPハンドラーを構築する。
func newServer(cfg *config.Config, st *stores, reg *prometheus.Registry) (*server, error) {
	tokens, err := token.NewService(token.Config{
		Secret: []byte(cfg.TokenSecret),
		TTL:    cfg.TokenTTL,
		Issuer: cfg.TokenIssuer,
	})
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(reg)

	// ブローカー未設定時はpublisherをnilのまま渡し、イベント発行を行わない
	var publisher order.EventPublisher
	var producer *kafka.Producer
	if cfg.KafkaEnabled() {
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		if err != nil {
			return nil, err
		}
		publisher = producer
		slog.Info("order events enabled",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.KafkaOrderTopic),
		)
	}

	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitCheckout),
	)

	deps := &handler.RouterDeps{
		Logger:            slog.Default(),
		TokenVerifier:     tokens,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Metrics:           collector,
		MetricsHandler:    metrics.SetupMetricsRoute(reg),
		Pinger:            st.pinger,

		AuthService:     auth.NewService(tokens, st.customers),
		CatalogService:  catalog.NewService(st.products, collector),
		CustomerService: customer.NewService(st.customers, cfg.BcryptCost),
		OrderService:    order.NewService(st.orders, publisher, collector),
	}
	return &server{
		handler: handler.NewRouter(deps),
		close: func() {
			rateLimiter.Stop()
			if producer != nil {
				if err := producer.Close(); err != nil {
					slog.Error("failed to close kafka producer", slog.String("error", err.Error()))
				}
			}
		},
	}, nil
}

// newRegistry はプロセス・ランタイムのコレクターを登録済みのレジストリを返す。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// runServe はAPIサーバーモードで起動する。
// リポジトリを開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// ctxがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	srv, err := newServer(cfg, st, newRegistry())
	if err != nil {
		return err
	}
	defer srv.close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
func runMigrate(w io.Writer, cfg *config.Config, args []string) error {
	if cfg.Storage != config.StoragePostgres {
		return fmt.Errorf("migrate requires STORAGE=%s", config.StoragePostgres)
	}

	margs, err := ParseMigrateArgs(args)
	if err != nil {
		return err
	}

	slog.Info("running database migrations",
		slog.String("action", string(margs.Action)),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	switch margs.Action {
	case MigrateDown:
		if err := database.RollbackMigrations(cfg.DatabaseURL, margs.Steps); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		slog.Info("database migrations rolled back", slog.Int("steps", margs.Steps))
	case MigrateVersion:
		version, dirty, err := database.MigrationVersion(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}
		fmt.Fprintf(w, "version=%d dirty=%t\n", version, dirty)
	default:
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		slog.Info("database migrations completed successfully")
	}
	return nil
}

// runToken は指定ユーザーIDのアクセストークンを発行してwに出力する。
// 運用時の動作確認や負荷試験用。
func runToken(w io.Writer, cfg *config.Config, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return errors.New("usage: token <user-id>")
	}

	tokens, err := token.NewService(token.Config{
		Secret: []byte(cfg.TokenSecret),
		TTL:    cfg.TokenTTL,
		Issuer: cfg.TokenIssuer,
	})
	if err != nil {
		return err
	}

	signed, err := tokens.Issue(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, signed)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
