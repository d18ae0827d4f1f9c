package messages

import (
	"reflect"
	"strings"
	"testing"
)

func TestDefaultCatalogComplete(t *testing.T) {
	c := Default()
	v := reflect.ValueOf(*c)
	typ := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).String() == "" {
			t.Errorf("catalog field %s is empty", typ.Field(i).Name)
		}
	}
}

func TestFormatConfirmSummary(t *testing.T) {
	c := Default()

	got := c.FormatConfirmSummary("Garage", 2, 3, 7, 2, "5 cm")
	for _, want := range []string{"Garage", "2x3", "6 photos per page", "5 cm", "7 on 2 page(s)"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	got = c.FormatConfirmSummary("", 1, 1, 1, 1, "auto")
	if !strings.Contains(got, c.NoTitlePlaceholder) {
		t.Error("empty title must render the placeholder")
	}
}

func TestFormatInternalError(t *testing.T) {
	got := Default().FormatInternalError("context deadline exceeded")
	if !strings.Contains(got, "context deadline exceeded") || !strings.Contains(got, "/start") {
		t.Errorf("internal error notice = %q", got)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	if _, err := Load([]byte("welcome: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadOverride(t *testing.T) {
	c, err := Load([]byte("welcome: hello\nhelp: custom help"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Welcome != "hello" || c.Help != "custom help" {
		t.Errorf("override not applied: %+v", c)
	}
}
