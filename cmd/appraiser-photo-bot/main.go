// Command appraiser-photo-bot runs the Telegram bot that assembles user
// photos into paginated .docx photo tables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v4"

	"github.com/oleg-dixon/appraiser-photo-bot/bot"
	"github.com/oleg-dixon/appraiser-photo-bot/core/config"
	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
	"github.com/oleg-dixon/appraiser-photo-bot/core/telegram"
	"github.com/oleg-dixon/appraiser-photo-bot/core/telegram/helpers"
	"github.com/oleg-dixon/appraiser-photo-bot/core/telegram/sender"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/docgen"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/flow"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/messages"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/session"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/tempfiles"
)

// sessionGraceDelay is how long a finished session's slot lingers before the
// delayed purge fires; a quick /start within it cancels the purge.
const sessionGraceDelay = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "appraiser-photo-bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a local development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Debug: cfg.Debug})
	logger.L.Info("starting",
		"log_level", cfg.LogLevel,
		"max_photos", cfg.MaxPhotos,
		"use_temp_files", cfg.UseTempFiles,
	)

	tmp, err := tempfiles.New("appraiser-photo-bot")
	if err != nil {
		return err
	}
	defer tmp.Close()
	tmp.StartSweeper(cfg.CleanupInterval, cfg.SessionTimeout)

	store := session.NewStore(sessionGraceDelay)
	msgs := messages.Default()
	engine := flow.New(cfg, store, msgs, docgen.NewBuilder(tmp), tmp)

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: telegram.BuildPoller(cfg.LongPollTimeout),
		Client: telegram.BuildHTTPClient(),
		OnError: func(err error, c tele.Context) {
			logger.TG.Error("handler.error", "err", sender.SanitizeError(err))
			if c == nil {
				return
			}
			// Best-effort notice with a truncated summary so the user is
			// not left waiting on a silently dropped update.
			summary := logger.SanitizeLimit(sender.SanitizeError(err), 200)
			if sendErr := c.Send(msgs.FormatInternalError(summary)); sendErr != nil {
				logger.TG.Warn("handler.error_notice_failed", "err", sendErr)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	disp := sender.NewDispatcher(sender.Options{})
	defer disp.Close()
	helpers.SetDispatcher(disp)

	bot.Register(b, bot.NewHandlers(b, cfg, engine, msgs))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Periodic reap of idle sessions.
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				store.Reap(cfg.SessionTimeout)
			}
		}
	}()

	if cfg.AdminID != 0 {
		if _, err := b.Send(&tele.User{ID: cfg.AdminID}, "🤖 Bot is up."); err != nil {
			logger.TG.Warn("admin.notify_failed", "err", err)
		}
	}

	go func() {
		<-ctx.Done()
		logger.L.Info("shutting down")
		b.Stop()
	}()

	logger.L.Info("bot started", "username", b.Me.Username)
	b.Start()
	return nil
}
