package keyboard

import "testing"

func TestReplyButtons(t *testing.T) {
	m := ReplyButtons([]string{"A", "B"}, []string{"C"})
	if !m.ResizeKeyboard {
		t.Error("reply keyboard must resize")
	}
	if len(m.ReplyKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.ReplyKeyboard))
	}
	if len(m.ReplyKeyboard[0]) != 2 || len(m.ReplyKeyboard[1]) != 1 {
		t.Errorf("row sizes = %d,%d", len(m.ReplyKeyboard[0]), len(m.ReplyKeyboard[1]))
	}
	if m.ReplyKeyboard[0][0].Text != "A" {
		t.Errorf("first button = %q", m.ReplyKeyboard[0][0].Text)
	}
}

func TestInlineButtonsRows(t *testing.T) {
	m := InlineButtonsRows(
		[]InlineBtn{{Text: "Small", Unique: "size", Data: "small"}, {Text: "Large", Unique: "size", Data: "large"}},
		[]InlineBtn{{Text: "Auto", Unique: "size", Data: "auto"}},
	)
	if len(m.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.InlineKeyboard))
	}
	btn := m.InlineKeyboard[0][0]
	if btn.Text != "Small" || btn.Unique != "size" || btn.Data != "small" {
		t.Errorf("button = %+v", btn)
	}
}

func TestInlineButtonsOnePerRow(t *testing.T) {
	m := InlineButtons([]InlineBtn{
		{Text: "A", Unique: "u", Data: "a"},
		{Text: "B", Unique: "u", Data: "b"},
	})
	if len(m.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want one per button", len(m.InlineKeyboard))
	}
}

func TestRemoveKeyboard(t *testing.T) {
	if !RemoveKeyboard().RemoveKeyboard {
		t.Error("markup must remove the keyboard")
	}
}
