package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
	"github.com/oleg-dixon/appraiser-photo-bot/core/telegram/middleware"
)

// Register attaches middleware and routes, and publishes the command menu.
func Register(b *tele.Bot, h *Handlers) {
	b.Use(middleware.Recover)
	b.Use(middleware.Logger)

	b.Handle("/start", h.onStart)
	b.Handle("/done", h.onDone)
	b.Handle("/cancel", h.onCancel)
	b.Handle("/status", h.onStatus)
	b.Handle("/cleanup", h.onCleanup)
	b.Handle("/help", h.onHelp)

	b.Handle(tele.OnText, h.onText)
	b.Handle(tele.OnPhoto, h.onPhoto)
	b.Handle(tele.OnDocument, h.onDocument)
	b.Handle(&btnSize, h.onSize)

	if err := b.SetCommands([]tele.Command{
		{Text: "start", Description: "Build a new photo table document"},
		{Text: "done", Description: "Finish sending photos"},
		{Text: "cancel", Description: "Drop the current session"},
		{Text: "status", Description: "Show bot status"},
		{Text: "help", Description: "How the bot works"},
	}); err != nil {
		logger.TG.Warn("bot.set_commands_failed", "err", err)
	}
}
