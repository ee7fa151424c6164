package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	httpapi "github.com/manitto-app/manitto-server/internal/api/http"
	"github.com/manitto-app/manitto-server/internal/code"
	"github.com/manitto-app/manitto-server/internal/config"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/manitto-app/manitto-server/internal/matching"
	"github.com/manitto-app/manitto-server/internal/repository"
	"github.com/manitto-app/manitto-server/internal/repository/model"
	"github.com/manitto-app/manitto-server/internal/service"
	"github.com/manitto-app/manitto-server/lib/logger/sl"
	"github.com/manitto-app/manitto-server/lib/logger/slogpretty"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	var (
		userRepo  repository.UserRepository
		roomRepo  repository.RoomRepository
		cheerRepo repository.CheerRepository
	)

	if cfg.Database.DSN != "" {
		db, err := connectDatabase(cfg.Database)
		if err != nil {
			log.Error("failed to connect database", sl.Err(err))
			os.Exit(1)
		}

		userRepo = repository.NewPostgresUserRepository(db)
		roomRepo = repository.NewPostgresRoomRepository(db)
		cheerRepo = repository.NewPostgresCheerRepository(db)
	} else {
		log.Warn("database dsn is empty, falling back to in-memory storage")

		users := repository.NewInMemoryUserRepository()
		rooms := repository.NewInMemoryRoomRepository(users)
		userRepo = users
		roomRepo = rooms
		cheerRepo = repository.NewInMemoryCheerRepository(users, rooms)
	}

	if err := cheerRepo.SeedTypes(context.Background(), domain.DefaultCheerTypes()); err != nil {
		log.Error("failed to seed cheer types", sl.Err(err))
		os.Exit(1)
	}

	codes := code.New(cfg.Codes.Length, cfg.Codes.MaxAttempts)
	matcher := matching.New(cfg.Matching.MaxAttempts)

	userService := service.NewUserService(userRepo, codes, log)
	roomService := service.NewRoomService(roomRepo, userRepo, codes, matcher, log)
	cheerService := service.NewCheerService(cheerRepo, roomRepo, userRepo, log)

	userController := httpapi.NewUserController(userService)
	roomController := httpapi.NewRoomController(roomService)
	cheerController := httpapi.NewCheerController(cheerService)

	router := httpapi.SetupRouter(userController, roomController, cheerController, httpapi.RateLimitConfig{
		PerMinute: cfg.RateLimit.PerMinute,
		Burst:     cfg.RateLimit.Burst,
	})

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", sl.Err(err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.Manitto{},
		&model.CheerType{},
		&model.Cheer{},
		&model.UserRoomSetting{},
	); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
