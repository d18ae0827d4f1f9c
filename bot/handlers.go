// Package bot wires the Telegram transport to the dialog engine: routing,
// keyboards, file transfer, and delivery of finished documents.
package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/oleg-dixon/appraiser-photo-bot/core/config"
	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
	"github.com/oleg-dixon/appraiser-photo-bot/core/telegram/helpers"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/flow"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/messages"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/session"
)

const (
	// buildTimeout bounds one document build plus its staging I/O.
	buildTimeout = 3 * time.Minute
	// maxDownloadBytes caps one photo download; the Bot API refuses to
	// serve files above 20 MB anyway.
	maxDownloadBytes = 20 << 20
)

var errFileTooLarge = errors.New("bot: file exceeds download limit")

// Handlers holds the transport-side dependencies. The *tele.Bot reference is
// needed for file downloads, which tele.Context does not expose.
type Handlers struct {
	bot  *tele.Bot
	cfg  *config.Config
	flow *flow.Flow
	msgs *messages.Catalog
}

// NewHandlers builds the handler set.
func NewHandlers(b *tele.Bot, cfg *config.Config, f *flow.Flow, msgs *messages.Catalog) *Handlers {
	return &Handlers{bot: b, cfg: cfg, flow: f, msgs: msgs}
}

// render sends a dialog reply with its keyboard. Empty replies send nothing.
func (h *Handlers) render(c tele.Context, r flow.Reply) error {
	if r.Text == "" {
		return nil
	}
	if markup := h.markupFor(r.Keyboard); markup != nil {
		return helpers.SendText(c, r.Text, &tele.SendOptions{ReplyMarkup: markup})
	}
	return helpers.SendText(c, r.Text)
}

func (h *Handlers) onStart(c tele.Context) error {
	return h.render(c, h.flow.Start(c.Sender().ID))
}

func (h *Handlers) onHelp(c tele.Context) error {
	return h.render(c, h.flow.Help())
}

func (h *Handlers) onStatus(c tele.Context) error {
	return h.render(c, h.flow.Status(c.Sender().ID))
}

func (h *Handlers) onCancel(c tele.Context) error {
	return h.render(c, h.flow.Cancel(c.Sender().ID))
}

func (h *Handlers) onDone(c tele.Context) error {
	return h.render(c, h.flow.Done(c.Sender().ID))
}

// onCleanup triggers the maintenance sweep. Admin only.
func (h *Handlers) onCleanup(c tele.Context) error {
	if h.cfg.AdminID == 0 || c.Sender().ID != h.cfg.AdminID {
		return helpers.SendText(c, h.msgs.NotAdmin)
	}
	return h.render(c, h.flow.Cleanup())
}

// onText dispatches reply-keyboard button presses first, then hands anything
// else to the dialog as free-form input.
func (h *Handlers) onText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	switch text {
	case btnStart:
		return h.onStart(c)
	case btnStatus:
		return h.onStatus(c)
	case btnHelp:
		return h.onHelp(c)
	case btnBack:
		return h.render(c, h.flow.Back(userID))
	case btnDone:
		return h.onDone(c)
	case btnClear:
		return h.render(c, h.flow.Clear(userID))
	case btnNoTitle:
		return h.render(c, h.flow.SkipTitle(userID))
	case btnNo:
		return h.render(c, h.flow.ConfirmNo(userID))
	case btnYes:
		return h.onConfirmYes(c)
	}
	return h.render(c, h.flow.Text(userID, text))
}

// onSize handles the inline size picker callback.
func (h *Handlers) onSize(c tele.Context) error {
	if msg := c.Message(); msg != nil && h.cfg.ButtonTimeout > 0 && time.Since(msg.Time()) > h.cfg.ButtonTimeout {
		return c.Respond(&tele.CallbackResponse{Text: h.msgs.ButtonExpired})
	}

	key := strings.TrimSpace(c.Data())
	// Defensive: some clients resend the raw callback payload.
	if i := strings.LastIndexByte(key, '|'); i >= 0 {
		key = key[i+1:]
	}
	// Stop the client-side spinner before the follow-up message goes out.
	_ = c.Respond()
	return h.render(c, h.flow.SelectSize(c.Sender().ID, key))
}

func (h *Handlers) onPhoto(c tele.Context) error {
	p := c.Message().Photo
	if p == nil {
		return h.render(c, h.flow.Unknown())
	}
	data, err := h.download(&p.File)
	if err != nil {
		logger.TG.Warn("bot.photo_download_failed", "user_id", c.Sender().ID, "err", err)
		return helpers.SendText(c, h.msgs.BuildFailed)
	}
	return h.render(c, h.flow.Photo(c.Sender().ID, data))
}

// onDocument accepts image files sent without compression and rejects
// everything else.
func (h *Handlers) onDocument(c tele.Context) error {
	doc := c.Message().Document
	if doc == nil || !strings.HasPrefix(doc.MIME, "image/") {
		return h.render(c, h.flow.RejectAttachment())
	}
	data, err := h.download(&doc.File)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			return helpers.SendText(c, h.msgs.AttachmentRejected)
		}
		logger.TG.Warn("bot.document_download_failed", "user_id", c.Sender().ID, "err", err)
		return helpers.SendText(c, h.msgs.BuildFailed)
	}
	return h.render(c, h.flow.Photo(c.Sender().ID, data))
}

// onConfirmYes resolves an affirmative answer: for the discard question it
// drops the photos, for the build question it runs the build and delivers
// the document.
func (h *Handlers) onConfirmYes(c tele.Context) error {
	userID := c.Sender().ID

	var stage session.Stage
	if !h.flow.Store().View(userID, func(s *session.Session) { stage = s.Stage }) {
		return h.render(c, flow.Reply{Text: h.msgs.NoSession, Keyboard: flow.KbStart})
	}
	switch stage {
	case session.StageConfirmBack:
		return h.render(c, h.flow.ConfirmDiscard(userID))
	case session.StageConfirm:
		return h.buildAndDeliver(c, userID)
	default:
		return h.render(c, h.flow.Unknown())
	}
}

func (h *Handlers) buildAndDeliver(c tele.Context, userID int64) error {
	if err := helpers.SendText(c, h.msgs.Creating, &tele.SendOptions{ReplyMarkup: h.markupFor(flow.KbRemove)}); err != nil {
		return err
	}
	_ = c.Notify(tele.UploadingDocument)

	ctx, cancel := context.WithTimeout(helpers.BuildContext(c), buildTimeout)
	defer cancel()

	art, err := h.flow.BuildDocument(ctx, userID)
	if err != nil {
		return h.render(c, flow.Reply{Text: h.buildErrorText(err), Keyboard: flow.KbStart})
	}

	if h.cfg.MaxDocumentMB > 0 && art.SizeMB > float64(h.cfg.MaxDocumentMB) {
		logger.TG.Warn("bot.document_too_big",
			"user_id", userID, "size_mb", fmt.Sprintf("%.1f", art.SizeMB), "limit_mb", h.cfg.MaxDocumentMB)
		return h.render(c, flow.Reply{
			Text:     h.msgs.FormatDocumentTooBig(art.SizeMB, h.cfg.MaxDocumentMB),
			Keyboard: flow.KbStart,
		})
	}

	// The document goes out synchronously: delivery errors decide the final
	// reply, so they cannot ride the async queue.
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(art.Data)),
		FileName: art.Filename,
		Caption:  art.Caption,
	}
	if err := c.Send(doc); err != nil {
		logger.TG.Error("bot.document_send_failed", "user_id", userID, "err", err)
		text := h.msgs.BuildFailed
		if isTooBigAPIError(err) {
			text = h.msgs.UploadTooBig
		}
		return h.render(c, flow.Reply{Text: text, Keyboard: flow.KbStart})
	}
	return h.render(c, flow.Reply{Text: h.msgs.Done, Keyboard: flow.KbStart})
}

func (h *Handlers) buildErrorText(err error) string {
	var tooMany *flow.TooManyPhotosError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return h.msgs.BuildTimeout
	case errors.As(err, &tooMany):
		return h.msgs.FormatTooManyPhotos(tooMany.Count, tooMany.Max)
	case errors.Is(err, flow.ErrNoPhotos):
		return h.msgs.NoPhotosYet
	case errors.Is(err, flow.ErrNoSession):
		return h.msgs.NoSession
	default:
		return h.msgs.BuildFailed
	}
}

func (h *Handlers) download(f *tele.File) ([]byte, error) {
	rc, err := h.bot.File(f)
	if err != nil {
		return nil, fmt.Errorf("bot: open file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("bot: read file: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, errFileTooLarge
	}
	return data, nil
}

func isTooBigAPIError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "too big") ||
		strings.Contains(msg, "too large") ||
		strings.Contains(msg, "entity too large")
}
