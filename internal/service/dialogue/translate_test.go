package dialogue

import "testing"

func TestParseTranslateRequest(t *testing.T) {
	tests := []struct {
		text       string
		wantTarget string
		wantBody   string
		wantOK     bool
	}{
		{"translate hello to German", "de", "hello", true},
		{"Translate: good morning into french", "fr", "good morning", true},
		{"translate 'go to bed' to Spanish", "es", "'go to bed'", true},
		{"переведи на немецкий: добрый день", "de", "добрый день", true},
		{"Übersetze ins Englische: Guten Morgen", "en", "Guten Morgen", true},
		{"bitte übersetzen auf Russisch: danke", "ru", "danke", true},
		{"翻译成英语 你好", "en", "你好", true},
		{"translate hello", "", "hello", false},
		{"translate", "", "translate", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			target, body, ok := parseTranslateRequest(tt.text)
			if ok != tt.wantOK || target != tt.wantTarget || body != tt.wantBody {
				t.Errorf("parseTranslateRequest(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.text, target, body, ok, tt.wantTarget, tt.wantBody, tt.wantOK)
			}
		})
	}
}
