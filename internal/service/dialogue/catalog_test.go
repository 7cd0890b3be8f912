package dialogue

import (
	"strings"
	"testing"
)

func TestCatalog_ConfirmAndCancelVocabulary(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	for _, w := range []string{"yes", "Yes!", "  OK. ", "да", "Да.", "ja", "是", "sí", "oui", "はい"} {
		if !c.IsConfirm(w) {
			t.Errorf("expected %q to confirm", w)
		}
		if c.IsCancel(w) {
			t.Errorf("did not expect %q to cancel", w)
		}
	}
	for _, w := range []string{"no", "NO!", "нет", "nein", "不", "取消", "non", "いいえ", "cancel"} {
		if !c.IsCancel(w) {
			t.Errorf("expected %q to cancel", w)
		}
		if c.IsConfirm(w) {
			t.Errorf("did not expect %q to confirm", w)
		}
	}
	for _, w := range []string{"yes please move it to 16:00", "tomorrow", ""} {
		if c.IsConfirm(w) || c.IsCancel(w) {
			t.Errorf("expected %q to be neither confirm nor cancel", w)
		}
	}
}

func TestCatalog_TextFallsBackToEnglish(t *testing.T) {
	c, _ := LoadCatalog()

	if got := c.Text("fr", "cancelled"); got != c.Text("en", "cancelled") {
		t.Errorf("expected English fallback, got %q", got)
	}
	if got := c.Text("de", "task_created", "Steuer"); !strings.Contains(got, "Steuer") {
		t.Errorf("expected formatted German text, got %q", got)
	}
	if got := c.Label("zh", "date"); got != "日期" {
		t.Errorf("expected Chinese label, got %q", got)
	}
	if got := c.Label("es", "date"); got != "Date" {
		t.Errorf("expected English label fallback, got %q", got)
	}
}

func TestCatalog_EveryLocaleHasEnglishKeys(t *testing.T) {
	c, _ := LoadCatalog()
	en := c.locales["en"].Messages

	for code, l := range c.locales {
		if len(l.Messages) == 0 {
			continue
		}
		for key := range en {
			if _, ok := l.Messages[key]; !ok {
				t.Errorf("locale %s is missing message %q", code, key)
			}
		}
	}
}

func TestParseCatalog_RequiresEnglish(t *testing.T) {
	if _, err := ParseCatalog([]byte("de:\n  confirm: [ja]\n")); err == nil {
		t.Error("expected error without English section")
	}
}
