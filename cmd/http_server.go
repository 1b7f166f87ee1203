package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
	authpg "github.com/edustride/crm-backend/internal/auth/postgres"
	"github.com/edustride/crm-backend/internal/branch"
	branchpg "github.com/edustride/crm-backend/internal/branch/postgres"
	"github.com/edustride/crm-backend/internal/caseboard"
	casepg "github.com/edustride/crm-backend/internal/caseboard/postgres"
	"github.com/edustride/crm-backend/internal/lead"
	leadpg "github.com/edustride/crm-backend/internal/lead/postgres"
	"github.com/edustride/crm-backend/internal/leave"
	leavepg "github.com/edustride/crm-backend/internal/leave/postgres"
	"github.com/edustride/crm-backend/internal/student"
	studentpg "github.com/edustride/crm-backend/internal/student/postgres"
	"github.com/edustride/crm-backend/internal/transport/rest"
	"github.com/edustride/crm-backend/internal/university"
	universitypg "github.com/edustride/crm-backend/internal/university/postgres"
	"github.com/edustride/crm-backend/internal/user"
	userpg "github.com/edustride/crm-backend/internal/user/postgres"
	"github.com/edustride/crm-backend/internal/voucher"
	voucherpg "github.com/edustride/crm-backend/internal/voucher/postgres"
	"github.com/edustride/crm-backend/pkg/logger"
	"github.com/edustride/crm-backend/pkg/metrics"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	if config.Observability.Metrics.Enabled {
		metrics.Init()
	}

	hierarchy := auth.NewRoleHierarchy(config.Access.RoleRanks)
	resolver := auth.NewResolver(hierarchy)

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenTTL)
	authRepo := authpg.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokens, resolver, config.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService)

	userRepo := userpg.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, authRepo, resolver, config.Security.BCryptCost, lg)
	userHandler := user.NewHandler(userService)

	leadService := lead.NewService(leadpg.NewLeadRepository(gormDB), resolver, lg)
	caseService := caseboard.NewService(casepg.NewCaseRepository(gormDB), resolver, lg)
	studentService := student.NewService(studentpg.NewStudentRepository(gormDB), resolver, lg)
	universityService := university.NewService(universitypg.NewUniversityRepository(gormDB), lg)
	voucherService := voucher.NewService(voucherpg.NewVoucherRepository(gormDB), resolver, lg)
	leaveService := leave.NewService(leavepg.NewLeaveRepository(gormDB), resolver, lg)
	branchService := branch.NewService(branchpg.NewBranchRepository(gormDB), lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, resolver, rest.Handlers{
		Auth:       authHandler,
		User:       userHandler,
		Lead:       lead.NewHandler(leadService),
		Case:       caseboard.NewHandler(caseService),
		Student:    student.NewHandler(studentService),
		University: university.NewHandler(universityService),
		Voucher:    voucher.NewHandler(voucherService),
		Leave:      leave.NewHandler(leaveService),
		Branch:     branch.NewHandler(branchService),
	}, rest.Options{
		AllowedOrigins: config.Server.AllowedOrigins,
		MetricsEnabled: config.Observability.Metrics.Enabled,
	}, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// initDB opens the shared pgx-backed pool. GORM reuses the same *sql.DB so
// there is exactly one pool per process.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
