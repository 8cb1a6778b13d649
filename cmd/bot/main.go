package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/quranlingo-bot/internal/config"
	"github.com/aliskhannn/quranlingo-bot/internal/curriculum"
	"github.com/aliskhannn/quranlingo-bot/internal/delivery/api"
	"github.com/aliskhannn/quranlingo-bot/internal/delivery/telegram"
	"github.com/aliskhannn/quranlingo-bot/internal/infra/memory"
	"github.com/aliskhannn/quranlingo-bot/internal/infra/postgres"
	"github.com/aliskhannn/quranlingo-bot/internal/infra/redis"
	"github.com/aliskhannn/quranlingo-bot/internal/infra/sqlite"
	"github.com/aliskhannn/quranlingo-bot/internal/logger"
	"github.com/aliskhannn/quranlingo-bot/internal/repository"
	"github.com/aliskhannn/quranlingo-bot/internal/service"
	"github.com/aliskhannn/quranlingo-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("application stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cur, err := curriculum.Load(cfg.CurriculumPath)
	if err != nil {
		return fmt.Errorf("load curriculum: %w", err)
	}
	lg.Info("curriculum loaded",
		zap.Int("levels", len(cur.Levels())),
		zap.Int("words", len(cur.Words())),
	)

	store, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	progressRepo := repository.NewProgressRepository(store)
	reviewRepo := repository.NewReviewRepository(store)

	clock := service.NewSystemClock(cfg.Location())
	rewards := service.Rewards{
		ReviewKnownXP:        cfg.Rewards.ReviewKnownXP,
		ReviewSessionBonusXP: cfg.Rewards.ReviewSessionBonusXP,
		FlashcardXP:          cfg.Rewards.FlashcardXP,
	}
	sessions := service.NewSessionManager(progressRepo, reviewRepo, cur, rewards, clock, lg)

	seed := cfg.Quiz.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	quizService := service.NewQuizService(
		cur,
		service.NewOptionGenerator(cur.Words(), rand.New(rand.NewSource(seed))),
		service.NewAnswerValidator(),
		storage.NewQuizStorage(),
		clock,
		lg,
	)

	reminderService := service.NewReminderService(reviewRepo, progressRepo, cur, clock, cfg.Reminders.Schedule, lg)

	warnRemindersWithoutNotifier(cfg, lg)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Telegram.Enabled {
		bot, err := newBot(cfg.Telegram.APIToken, cfg.Env, lg)
		if err != nil {
			return err
		}

		handler := telegram.NewHandler(bot, lg, sessions, quizService, cur, storage.NewReminderStorage())
		reminderService.SetNotifier(handler)

		g.Go(func() error {
			return handler.Run(ctx)
		})

		if cfg.Reminders.Enabled {
			g.Go(func() error {
				return reminderService.Start(ctx)
			})
		}
	}

	if cfg.HTTP.Addr != "" {
		server := api.NewServer(cfg.HTTP, api.NewHandler(sessions, cur, lg).Routes(), lg)
		g.Go(func() error {
			return server.Run(ctx)
		})
	}

	lg.Info("application started",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("telegram", cfg.Telegram.Enabled),
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.String("timezone", cfg.Location().String()),
	)

	if err := g.Wait(); err != nil {
		return err
	}

	lg.Info("shutdown signal received")
	return nil
}

// warnRemindersWithoutNotifier reports whether reminders are enabled with no
// Telegram bot to deliver them.
func warnRemindersWithoutNotifier(cfg *config.Config, lg *zap.Logger) bool {
	if !cfg.Reminders.Enabled || cfg.Telegram.Enabled {
		return false
	}
	lg.Warn("reminders are enabled but telegram is disabled, no reminders will be sent")
	return true
}

// openStore connects the configured document store. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (repository.DocumentStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.Migrate(pool, lg); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return postgres.NewDocumentStore(pool), pool.Close, nil

	case config.DriverRedis:
		rcfg := redis.DefaultConfig()
		rcfg.Addr = cfg.Redis.Addr
		rcfg.Password = cfg.Redis.Password
		rcfg.DB = cfg.Redis.DB
		rcfg.KeyPrefix = cfg.Redis.KeyPrefix

		client, err := redis.NewClient(ctx, rcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return redis.NewDocumentStore(client, rcfg.KeyPrefix), func() { _ = client.Close() }, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlite.NewDocumentStore(db), func() { _ = db.Close() }, nil

	case config.DriverMemory:
		lg.Warn("using in-memory storage, progress is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStorageDriver, cfg.Storage.Driver)
}

func newBot(token, env string, lg *zap.Logger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	bot.Debug = env != "production"

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "lessons", Description: "Levels and lessons"},
		{Command: "review", Description: "Review due words"},
		{Command: "progress", Description: "Show progress"},
		{Command: "reset", Description: "Reset progress"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))
	return bot, nil
}
