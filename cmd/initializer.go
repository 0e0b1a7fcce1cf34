package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"alphaDash/internal/assignments"
	"alphaDash/internal/cart"
	"alphaDash/internal/config"
	"alphaDash/internal/events"
	"alphaDash/internal/handlers"
	"alphaDash/internal/platform"
	"alphaDash/internal/repositories"
	"alphaDash/internal/services"
	"alphaDash/internal/session"
	"alphaDash/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	session    *handlers.SessionMiddleware
	otpLimiter *handlers.RateLimiter
	hub        *events.Hub
	sweeper    *services.SessionSweeper

	authHandler       *handlers.AuthHandler
	profileHandler    *handlers.ProfileHandler
	assignmentHandler *handlers.AssignmentHandler
	earningsHandler   *handlers.EarningsHandler
	snackHandler      *handlers.SnackHandler
}

// appLogger adapts the application's log pair to services.Logger.
type appLogger struct {
	info *log.Logger
	err  *log.Logger
}

func (l appLogger) Infof(format string, args ...interface{}) {
	l.info.Output(2, fmt.Sprintf(format, args...))
}

func (l appLogger) Errorf(format string, args ...interface{}) {
	l.err.Output(2, fmt.Sprintf(format, args...))
}

func initializeApp(cfg config.Config, store session.Store, errorLog, infoLog *log.Logger) (*application, error) {
	logger := appLogger{info: infoLog, err: errorLog}

	client, err := platform.NewClient(platform.Config{
		BaseURL: cfg.Platform.BaseURL,
		Timeout: cfg.PlatformTimeout(),
		Logger:  slog.New(slog.NewTextHandler(os.Stdout, nil)),
	})
	if err != nil {
		return nil, err
	}
	tokens, err := utils.NewManager(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}

	hub := events.NewHub(cfg.CORS.AllowedOrigins, logger)
	carts := cart.NewRegistry()
	boards := assignments.NewRegistry()

	// Services
	authService := &services.AuthService{Platform: client, Store: store, Carts: carts, Boards: boards, Events: hub, Logger: logger}
	profileService := &services.ProfileService{Platform: client, Logger: logger}
	assignmentService := &services.AssignmentService{Platform: client, Boards: boards, Events: hub, Logger: logger}
	sweeper := &services.SessionSweeper{Carts: carts, Boards: boards, TTL: cfg.SessionTTL()}
	if expirer, ok := store.(services.SessionExpirer); ok {
		sweeper.Store = expirer
	}
	earningsService := &services.EarningsService{Platform: client, Logger: logger}
	snackService := &services.SnackService{Platform: client, Carts: carts, Events: hub, Logger: logger}

	// Handlers
	authHandler := &handlers.AuthHandler{
		Service: authService,
		Tokens:  tokens,
		Cookie: handlers.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.SecureCookie,
			TTL:    cfg.SessionTTL(),
		},
	}

	return &application{
		errorLog:          errorLog,
		infoLog:           infoLog,
		session:           &handlers.SessionMiddleware{Auth: authService, Tokens: tokens, CookieName: cfg.Session.CookieName, Logger: logger},
		otpLimiter:        handlers.NewRateLimiter(cfg.OTPInterval(), cfg.RateLimit.OTPBurst),
		hub:               hub,
		sweeper:           sweeper,
		authHandler:       authHandler,
		profileHandler:    &handlers.ProfileHandler{Service: profileService},
		assignmentHandler: &handlers.AssignmentHandler{Service: assignmentService},
		earningsHandler:   &handlers.EarningsHandler{Service: earningsService},
		snackHandler:      &handlers.SnackHandler{Service: snackService},
	}, nil
}

// openStore builds the session store named in the config and returns a func
// that releases it.
func openStore(cfg config.Config, infoLog *log.Logger) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := openRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		infoLog.Printf("Sessions in redis %s", cfg.Redis.Addr)
		return &repositories.SessionCache{RDB: rdb, TTL: cfg.SessionTTL()}, func() { _ = rdb.Close() }, nil

	case config.StoreSQL:
		db, err := openDB(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		repo := &repositories.SessionRepository{DB: db, Driver: cfg.Database.Driver}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate sessions: %w", err)
		}
		infoLog.Printf("Sessions in %s database", cfg.Database.Driver)
		return repo, func() { _ = db.Close() }, nil
	}

	infoLog.Print("Sessions in memory; they are lost on restart")
	return session.NewMemoryStore(), func() {}, nil
}

func openRedis(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		_ = db.Close()
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
		next.ServeHTTP(w, r)
	})
}
