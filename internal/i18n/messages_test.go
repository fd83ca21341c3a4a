package i18n

import "testing"

func TestGetFallsBack(t *testing.T) {
	m, err := Load("es")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := m.Get("en", "msg.region-controller.insert.codeExist"); got != "The region code already exists." {
		t.Errorf("en text = %q", got)
	}
	if got := m.Get("es", "msg.region-controller.insert.codeExist"); got != "El código de la región ya existe." {
		t.Errorf("es text = %q", got)
	}
	if got := m.Get("fr", "msg.supermarket-controller.notFound"); got != "Supermercado no encontrado." {
		t.Errorf("unknown locale should use default, got %q", got)
	}
	if got := m.Get("en", "msg.does.not.exist"); got != "msg.does.not.exist" {
		t.Errorf("unknown key should fall back to key, got %q", got)
	}
}

func TestFromRequest(t *testing.T) {
	m, err := Load("es")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		header string
		want   string
	}{
		{"", "es"},
		{"en-US,en;q=0.9", "en"},
		{"es-ES", "es"},
		{"de-DE", "es"},
		{"fr;q=0.9, en;q=0.5", "en"},
	}
	for _, tt := range tests {
		if got := m.FromRequest(tt.header); got != tt.want {
			t.Errorf("FromRequest(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestParseRequiresDefaultLocale(t *testing.T) {
	if _, err := Parse([]byte("en:\n  a: b\n"), "es"); err == nil {
		t.Error("expected error when default locale is missing")
	}
}

func TestControllerKeysPresentInAllLocales(t *testing.T) {
	m, err := Load("es")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	entities := []string{"region", "province", "supermarket", "location", "category"}
	suffixes := []string{"notFound", "delete.inUse", "insert.success", "update.success", "delete.success"}
	for _, locale := range []string{"es", "en"} {
		for _, entity := range entities {
			for _, suffix := range suffixes {
				key := "msg." + entity + "-controller." + suffix
				if got := m.Get(locale, key); got == key {
					t.Errorf("%s: missing %s", locale, key)
				}
			}
		}
	}
}
