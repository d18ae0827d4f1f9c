package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/oleg-dixon/appraiser-photo-bot/core/telegram/keyboard"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/flow"
)

// Reply keyboard labels. onText matches these before falling through to the
// dialog, so they double as the button protocol.
const (
	btnStart   = "🟢 Start"
	btnStatus  = "📊 Status"
	btnHelp    = "❓ Help"
	btnBack    = "◀️ Back"
	btnDone    = "✅ Done"
	btnClear   = "🧹 Clear"
	btnNoTitle = "📝 No title"
	btnYes     = "✅ Yes"
	btnNo      = "❌ No"
)

// sizeUnique is the callback unique shared by all size buttons.
const sizeUnique = "size"

var btnSize = tele.Btn{Unique: sizeUnique}

func sizeMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Small (3 cm)", Unique: sizeUnique, Data: "small"},
			{Text: "Medium (5 cm)", Unique: sizeUnique, Data: "medium"},
		},
		[]keyboard.InlineBtn{
			{Text: "Large (8 cm)", Unique: sizeUnique, Data: "large"},
			{Text: "Auto fit", Unique: sizeUnique, Data: "auto"},
		},
	)
}

// markupFor maps a dialog keyboard hint onto telebot reply markup. With
// buttons disabled in config, every hint hides the keyboard so users fall
// back to commands; only the inline size picker stays, since the size stage
// has no command equivalent.
func (h *Handlers) markupFor(kb flow.Keyboard) *tele.ReplyMarkup {
	if kb == flow.KbSize {
		return sizeMarkup()
	}
	if !h.cfg.EnableButtons {
		if kb == flow.KbKeep {
			return nil
		}
		return keyboard.RemoveKeyboard()
	}

	switch kb {
	case flow.KbStart:
		return keyboard.ReplyButtons(
			[]string{btnStart},
			[]string{btnStatus, btnHelp},
		)
	case flow.KbTitle:
		return keyboard.ReplyButtons([]string{btnNoTitle})
	case flow.KbInput:
		return keyboard.ReplyButtons([]string{btnBack})
	case flow.KbUpload:
		return keyboard.ReplyButtons(
			[]string{btnDone},
			[]string{btnClear, btnBack},
		)
	case flow.KbConfirm:
		return keyboard.ReplyButtons(
			[]string{btnYes, btnNo},
			[]string{btnBack},
		)
	case flow.KbRemove:
		return keyboard.RemoveKeyboard()
	default:
		return nil
	}
}
