package i18n

import "testing"

func TestInitAndT(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		lang string
		key  string
		want string
	}{
		{English, "nav.home", "Home"},
		{Bangla, "nav.home", "হোম"},
		{"fr", "nav.home", "Home"},
		{Bangla, "missing.key", "missing.key"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			if got := T(tt.lang, tt.key); got != tt.want {
				t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		name     string
		explicit string
		accept   string
		want     string
	}{
		{"explicit bangla", "bn", "en-US", Bangla},
		{"explicit upper case", "BN", "", Bangla},
		{"unsupported explicit", "fr", "", English},
		{"header bangla", "", "bn-BD,bn;q=0.9,en;q=0.8", Bangla},
		{"header english", "", "en-GB,en;q=0.9", English},
		{"header unsupported", "", "de-DE", English},
		{"empty", "", "", English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.explicit, tt.accept); got != tt.want {
				t.Errorf("Match(%q, %q) = %q, want %q", tt.explicit, tt.accept, got, tt.want)
			}
		})
	}
}

func TestPick(t *testing.T) {
	if got := Pick(Bangla, "Hello", "হ্যালো"); got != "হ্যালো" {
		t.Errorf("Pick bn = %q", got)
	}
	if got := Pick(Bangla, "Hello", ""); got != "Hello" {
		t.Errorf("Pick bn fallback = %q", got)
	}
	if got := Pick(English, "", "হ্যালো"); got != "হ্যালো" {
		t.Errorf("Pick en fallback = %q", got)
	}
}
