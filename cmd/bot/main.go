package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/reaction-games-bot/internal/config"
	"github.com/aliskhannn/reaction-games-bot/internal/delivery/commands"
	"github.com/aliskhannn/reaction-games-bot/internal/delivery/discord"
	"github.com/aliskhannn/reaction-games-bot/internal/delivery/telegram"
	"github.com/aliskhannn/reaction-games-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/reaction-games-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/reaction-games-bot/internal/logger"
	"github.com/aliskhannn/reaction-games-bot/internal/metrics"
	"github.com/aliskhannn/reaction-games-bot/internal/repository"
	"github.com/aliskhannn/reaction-games-bot/internal/service"
	"github.com/aliskhannn/reaction-games-bot/internal/storage"
	"github.com/aliskhannn/reaction-games-bot/internal/watcher"
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
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Catalog of quizzes, tests and games.
	catalogRepo := repository.NewCatalogRepository(cfg.Catalog.Path)
	catalog, err := service.NewCatalogService(ctx, catalogRepo, cfg.Admins, m, lg.Named("catalog"))
	if err != nil {
		return err
	}

	// Result history: PostgreSQL when configured, memory otherwise.
	var results service.ResultStore = storage.NewResultStorage(cfg.Session.HistoryLimit)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
			MaxConns:        cfg.DB.MaxConnections,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
			ConnectTimeout:  cfg.DB.ConnectTimeout,
		})
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := pgrepo.NewResultRepository(pool, postgres.NewTransactor(pool), cfg.Session.HistoryLimit)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		results = repo
		lg.Info("recording results in postgres")
	}

	scrambler := service.NewScrambler(nil)
	matcher := service.NewTitleMatcher(scrambler)
	timeouts := service.Timeouts{
		Answer:   cfg.Session.AnswerTimeout,
		HelpIdle: cfg.Session.HelpIdleTimeout,
	}

	newRouter := func(messenger service.Messenger, prefix string, platform *zap.Logger) *commands.Router {
		sessions := service.NewSessions(messenger, scrambler, results, m, platform.Named("session"), timeouts)
		return commands.NewRouter(sessions, catalog, matcher, results, commands.Options{
			Prefix:          prefix,
			CommandsPerPage: cfg.Help.CommandsPerPage,
			HistoryLimit:    cfg.Session.HistoryLimit,
		}, platform.Named("router"))
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.UsesTelegram() {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			return err
		}
		tlg := lg.Named("telegram").With(zap.String("account", bot.Self.UserName))

		botCommands := make([]tgbotapi.BotCommand, 0)
		for _, c := range commands.List("") {
			botCommands = append(botCommands, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
		}
		if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
			tlg.Warn("failed to set bot commands", zap.Error(err))
		}

		messenger := telegram.NewMessenger(bot, storage.NewSignalBoard(), newLimiter(cfg.RateLimit), tlg)
		handler := telegram.NewHandler(bot, messenger, newRouter(messenger, telegram.CommandPrefix, tlg), tlg)
		g.Go(func() error { return handler.Run(ctx) })
	}

	if cfg.UsesDiscord() {
		session, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			return err
		}
		dlg := lg.Named("discord")

		messenger := discord.NewMessenger(session, storage.NewSignalBoard(), newLimiter(cfg.RateLimit), dlg)
		handler := discord.NewHandler(session, messenger, newRouter(messenger, discord.CommandPrefix, dlg), dlg)
		g.Go(func() error { return handler.Run(ctx) })
	}

	if cfg.Catalog.Path != "" && cfg.Catalog.Watch {
		w := watcher.New(cfg.Catalog.Path, catalog, watcher.DefaultDebounce, lg.Named("watcher"))
		g.Go(func() error { return w.Run(ctx) })
	}

	if cfg.Catalog.ReloadSchedule != "" {
		g.Go(func() error { return catalog.StartSchedule(ctx, cfg.Catalog.ReloadSchedule) })
	}

	if cfg.Metrics.Addr != "" {
		g.Go(func() error { return m.Serve(ctx, cfg.Metrics.Addr, lg.Named("metrics")) })
	}

	lg.Info("bot started", zap.String("platform", cfg.Platform), zap.String("env", cfg.Env))
	return g.Wait()
}

func newLimiter(cfg config.RateLimit) *rate.Limiter {
	if cfg.PerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.PerSecond), max(cfg.Burst, 1))
}
