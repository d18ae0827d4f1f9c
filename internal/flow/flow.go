// Package flow implements the transport-free conversation state machine:
// title, grid dimensions, photo size, photo collection, and confirmation.
// Handlers feed it user input and render the Reply values it returns.
package flow

import (
	"strconv"
	"strings"

	"github.com/oleg-dixon/appraiser-photo-bot/core/config"
	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/docgen"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/messages"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/photo"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/session"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/tempfiles"
)

// Keyboard tells the transport layer which reply markup to attach.
type Keyboard int

const (
	// KbKeep leaves the current keyboard untouched.
	KbKeep Keyboard = iota
	// KbStart shows the idle menu (Start / Status / Help).
	KbStart
	// KbTitle shows the title prompt row (No title / Back-less).
	KbTitle
	// KbInput shows the numeric input row (Back).
	KbInput
	// KbSize attaches the inline size picker.
	KbSize
	// KbUpload shows the photo collection row (Done / Back / Clear).
	KbUpload
	// KbConfirm shows the confirmation row (Yes / No).
	KbConfirm
	// KbRemove removes the custom keyboard.
	KbRemove
)

// Reply is one outgoing message the transport should send.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Flow drives the dialog. It is safe for concurrent use; all state lives in
// the session store.
type Flow struct {
	cfg     *config.Config
	store   *session.Store
	msgs    *messages.Catalog
	builder *docgen.Builder
	tmp     *tempfiles.Manager
}

// New assembles the dialog engine.
func New(cfg *config.Config, store *session.Store, msgs *messages.Catalog, builder *docgen.Builder, tmp *tempfiles.Manager) *Flow {
	return &Flow{cfg: cfg, store: store, msgs: msgs, builder: builder, tmp: tmp}
}

// Store exposes the session registry for maintenance loops.
func (f *Flow) Store() *session.Store {
	return f.store
}

// Start begins a new dialog, replacing any previous session.
func (f *Flow) Start(userID int64) Reply {
	f.store.Start(userID)
	logger.Flow.Info("flow.start", "user_id", userID)
	return Reply{Text: f.msgs.Welcome, Keyboard: KbTitle}
}

// Text routes free-form input to the current stage.
func (f *Flow) Text(userID int64, text string) Reply {
	var stage session.Stage
	if !f.store.View(userID, func(s *session.Session) { stage = s.Stage }) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}

	text = strings.TrimSpace(text)
	switch stage {
	case session.StageTitle:
		return f.acceptTitle(userID, text)
	case session.StageRows:
		return f.acceptRows(userID, text)
	case session.StageCols:
		return f.acceptCols(userID, text)
	case session.StageSize:
		return Reply{Text: f.msgs.FormatSizePrompt(f.gridOf(userID)), Keyboard: KbSize}
	case session.StagePhotos:
		return Reply{Text: f.msgs.Unknown, Keyboard: KbUpload}
	case session.StageConfirm, session.StageConfirmBack:
		return Reply{Text: f.msgs.Unknown, Keyboard: KbConfirm}
	default:
		return Reply{Text: f.msgs.Unknown, Keyboard: KbStart}
	}
}

func (f *Flow) acceptTitle(userID int64, text string) Reply {
	if text == "" || strings.EqualFold(text, "no") {
		return f.SkipTitle(userID)
	}
	f.store.Update(userID, func(s *session.Session) {
		s.Title = text
		s.Stage = session.StageRows
	})
	return Reply{Text: f.msgs.FormatTitleAccepted(text), Keyboard: KbInput}
}

// SkipTitle records an untitled document and moves on to the grid questions.
func (f *Flow) SkipTitle(userID int64) Reply {
	if !f.store.Update(userID, func(s *session.Session) {
		s.Title = ""
		s.Stage = session.StageRows
	}) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	return Reply{Text: f.msgs.TitleSkipped, Keyboard: KbInput}
}

func (f *Flow) acceptRows(userID int64, text string) Reply {
	rows, ok := parsePositive(text)
	if !ok {
		return Reply{Text: f.msgs.InvalidNumber, Keyboard: KbInput}
	}
	f.store.Update(userID, func(s *session.Session) {
		s.Rows = rows
		s.Stage = session.StageCols
	})

	msg := f.msgs.FormatColsPrompt(rows)
	if rows > f.cfg.MaxRows {
		msg = f.msgs.FormatSoftCapWarn(rows) + "\n\n" + msg
	}
	return Reply{Text: msg, Keyboard: KbInput}
}

func (f *Flow) acceptCols(userID int64, text string) Reply {
	cols, ok := parsePositive(text)
	if !ok {
		return Reply{Text: f.msgs.InvalidNumber, Keyboard: KbInput}
	}

	var rows int
	f.store.View(userID, func(s *session.Session) { rows = s.Rows })

	// The page capacity may not exceed the total photo limit, otherwise a
	// single page could never be filled.
	if rows*cols > f.cfg.MaxPhotos {
		return Reply{
			Text:     f.msgs.FormatGridTooLarge(rows, cols, rows*cols, f.cfg.MaxPhotos),
			Keyboard: KbInput,
		}
	}

	f.store.Update(userID, func(s *session.Session) {
		s.Cols = cols
		s.Stage = session.StageSize
	})

	msg := f.msgs.FormatSizePrompt(rows, cols)
	if cols > f.cfg.MaxCols {
		msg = f.msgs.FormatSoftCapWarn(cols) + "\n\n" + msg
	}
	return Reply{Text: msg, Keyboard: KbSize}
}

// SelectSize handles the inline size pick and opens the photo stage.
func (f *Flow) SelectSize(userID int64, key string) Reply {
	size, ok := docgen.ParseSize(key)
	if !ok {
		return Reply{Text: f.msgs.Unknown, Keyboard: KbKeep}
	}
	var stage session.Stage
	if !f.store.View(userID, func(s *session.Session) { stage = s.Stage }) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	if stage != session.StageSize {
		// Stale button from an earlier message.
		return Reply{Keyboard: KbKeep}
	}

	f.store.Update(userID, func(s *session.Session) {
		s.Size = size
		s.Stage = session.StagePhotos
	})
	logger.Flow.Info("flow.size_selected", "user_id", userID, "size", string(size))
	return Reply{Text: f.msgs.FormatPhotosPrompt(f.cfg.MaxPhotos), Keyboard: KbUpload}
}

// Photo normalizes and stores one incoming photo. Accumulation is unbounded
// here; the total-photos limit is enforced at confirmation, where it rejects
// the build and purges the session.
func (f *Flow) Photo(userID int64, data []byte) Reply {
	var stage session.Stage
	if !f.store.View(userID, func(s *session.Session) { stage = s.Stage }) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	if stage != session.StagePhotos {
		return Reply{Text: f.msgs.Unknown, Keyboard: KbKeep}
	}

	normalized := photo.Normalize(data, photo.Options{
		Quality: f.cfg.ImageQuality,
		MaxDim:  f.cfg.ImageMaxSize,
	})
	count := f.store.AppendPhoto(userID, normalized)
	if count == 0 {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	return Reply{Text: f.msgs.FormatPhotoAccepted(count), Keyboard: KbUpload}
}

// RejectAttachment answers a non-image attachment.
func (f *Flow) RejectAttachment() Reply {
	return Reply{Text: f.msgs.AttachmentRejected, Keyboard: KbKeep}
}

// Done closes the photo stage and shows the build summary.
func (f *Flow) Done(userID int64) Reply {
	var snap session.Session
	if !f.store.View(userID, func(s *session.Session) { snap = *s }) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	if snap.Stage != session.StagePhotos && snap.Stage != session.StageConfirm {
		return Reply{Text: f.msgs.Unknown, Keyboard: KbKeep}
	}
	if len(snap.Photos) == 0 {
		return Reply{Text: f.msgs.NoPhotosYet, Keyboard: KbUpload}
	}

	f.store.Update(userID, func(s *session.Session) { s.Stage = session.StageConfirm })
	st := docgen.Stats(len(snap.Photos), snap.Rows, snap.Cols)
	return Reply{
		Text: f.msgs.FormatConfirmSummary(
			snap.Title, snap.Rows, snap.Cols,
			len(snap.Photos), st.TotalPages, snap.Size.Label(),
		),
		Keyboard: KbConfirm,
	}
}

// Back steps the dialog one stage backwards. When photos have already been
// collected, it first asks for confirmation since going back discards them.
func (f *Flow) Back(userID int64) Reply {
	var snap session.Session
	if !f.store.View(userID, func(s *session.Session) { snap = *s }) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}

	if len(snap.Photos) > 0 && snap.Stage != session.StageConfirmBack {
		f.store.Update(userID, func(s *session.Session) { s.Stage = session.StageConfirmBack })
		return Reply{Text: f.msgs.FormatConfirmBack(len(snap.Photos)), Keyboard: KbConfirm}
	}

	// Stepping back invalidates everything entered after the stage being
	// returned to, so those fields are cleared along with the stage change.
	switch snap.Stage {
	case session.StageConfirmBack:
		// Second Back while the discard question is open backs out of it.
		f.store.Update(userID, func(s *session.Session) { s.Stage = session.StagePhotos })
		return Reply{Text: f.msgs.FormatPhotosPrompt(f.cfg.MaxPhotos), Keyboard: KbUpload}
	case session.StageConfirm, session.StagePhotos:
		f.store.Update(userID, func(s *session.Session) {
			s.Size = ""
			s.Stage = session.StageSize
		})
		return Reply{Text: f.msgs.FormatSizePrompt(snap.Rows, snap.Cols), Keyboard: KbSize}
	case session.StageSize:
		f.store.Update(userID, func(s *session.Session) {
			s.Cols = 0
			s.Size = ""
			s.Stage = session.StageCols
		})
		return Reply{Text: f.msgs.FormatColsPrompt(snap.Rows), Keyboard: KbInput}
	case session.StageCols:
		f.store.Update(userID, func(s *session.Session) {
			s.Rows = 0
			s.Cols = 0
			s.Stage = session.StageRows
		})
		return Reply{Text: f.msgs.RowsPrompt, Keyboard: KbInput}
	case session.StageRows:
		f.store.Update(userID, func(s *session.Session) {
			s.Title = ""
			s.Stage = session.StageTitle
		})
		return Reply{Text: f.msgs.RestartHint, Keyboard: KbTitle}
	default:
		return Reply{Text: f.msgs.RestartHint, Keyboard: KbTitle}
	}
}

// ConfirmDiscard resolves the pending discard question affirmatively: drop
// the photos and return to the size stage.
func (f *Flow) ConfirmDiscard(userID int64) Reply {
	var snap session.Session
	if !f.store.View(userID, func(s *session.Session) { snap = *s }) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	if snap.Stage != session.StageConfirmBack {
		return Reply{Text: f.msgs.Unknown, Keyboard: KbKeep}
	}
	f.store.Update(userID, func(s *session.Session) {
		s.Photos = nil
		s.Size = ""
		s.Stage = session.StageSize
	})
	return Reply{Text: f.msgs.FormatSizePrompt(snap.Rows, snap.Cols), Keyboard: KbSize}
}

// ConfirmNo rejects the pending confirmation: the build question restarts the
// dialog, the discard question returns to photo collection.
func (f *Flow) ConfirmNo(userID int64) Reply {
	var stage session.Stage
	if !f.store.View(userID, func(s *session.Session) { stage = s.Stage }) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	switch stage {
	case session.StageConfirmBack:
		f.store.Update(userID, func(s *session.Session) { s.Stage = session.StagePhotos })
		return Reply{Text: f.msgs.FormatPhotosPrompt(f.cfg.MaxPhotos), Keyboard: KbUpload}
	case session.StageConfirm:
		return f.Start(userID)
	default:
		return Reply{Text: f.msgs.Unknown, Keyboard: KbKeep}
	}
}

// Cancel drops the session entirely.
func (f *Flow) Cancel(userID int64) Reply {
	if !f.store.Exists(userID) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	f.store.Delete(userID)
	logger.Flow.Info("flow.cancelled", "user_id", userID)
	return Reply{Text: f.msgs.Cancelled, Keyboard: KbStart}
}

// Clear drops collected photos but keeps the session in the photo stage.
func (f *Flow) Clear(userID int64) Reply {
	var stage session.Stage
	if !f.store.View(userID, func(s *session.Session) { stage = s.Stage }) {
		return Reply{Text: f.msgs.NoSession, Keyboard: KbStart}
	}
	if stage != session.StagePhotos && stage != session.StageConfirm {
		return Reply{Text: f.msgs.Unknown, Keyboard: KbKeep}
	}
	f.store.Update(userID, func(s *session.Session) {
		s.Photos = nil
		s.Stage = session.StagePhotos
	})
	return Reply{Text: f.msgs.Cleared, Keyboard: KbUpload}
}

// Status summarizes live counters, plus the caller's own build progress when
// a session exists.
func (f *Flow) Status(userID int64) Reply {
	sessions, photos := f.store.Count()
	tempFiles := 0
	if f.tmp != nil {
		tempFiles = f.tmp.Count()
	}
	text := f.msgs.FormatStatus(sessions, photos, tempFiles)

	f.store.View(userID, func(s *session.Session) {
		text += "\n" + f.msgs.FormatStatusSession(s.Stage.String(), len(s.Photos))
	})
	return Reply{Text: text, Keyboard: KbKeep}
}

// Cleanup runs the idle-session reap and stale-file sweep on demand.
func (f *Flow) Cleanup() Reply {
	reaped := f.store.Reap(f.cfg.SessionTimeout)
	swept := 0
	if f.tmp != nil {
		swept = f.tmp.SweepOlderThan(f.cfg.SessionTimeout)
	}
	return Reply{Text: f.msgs.FormatCleanupDone(reaped, swept), Keyboard: KbKeep}
}

// Help returns the command reference.
func (f *Flow) Help() Reply {
	return Reply{Text: f.msgs.Help, Keyboard: KbKeep}
}

// Unknown answers anything the dialog cannot place.
func (f *Flow) Unknown() Reply {
	return Reply{Text: f.msgs.Unknown, Keyboard: KbKeep}
}

func (f *Flow) gridOf(userID int64) (rows, cols int) {
	f.store.View(userID, func(s *session.Session) {
		rows, cols = s.Rows, s.Cols
	})
	return rows, cols
}

// parsePositive accepts a plain positive decimal integer.
func parsePositive(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
