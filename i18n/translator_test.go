package i18n

import "testing"

func TestT_SubstitutesKey(t *testing.T) {
	got := T("missing_required", map[string]string{"key": `"month"`})
	if got != `property "month" is required` {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestT_UnknownCodeFallsBackToCode(t *testing.T) {
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", got)
	}
}

func TestSetLanguage(t *testing.T) {
	t.Cleanup(func() { SetLanguage("en") })

	SetLanguage("ja")
	if got := T("duplicate_key", nil); got != "キーが重複しています" {
		t.Fatalf("unexpected ja message: %q", got)
	}
	SetLanguage("fr")
	if got := T("duplicate_key", nil); got != "duplicate key" {
		t.Fatalf("unsupported language should fall back to en, got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	t.Cleanup(func() { SetTranslator(nil) })

	SetTranslator(upper{})
	if got := T("truncated", nil); got != "X:truncated" {
		t.Fatalf("custom translator not used: %q", got)
	}
	SetTranslator(nil)
	if got := T("truncated", nil); got != "truncated" {
		t.Fatalf("nil translator should restore default, got %q", got)
	}
}
