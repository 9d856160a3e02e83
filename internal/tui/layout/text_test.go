package layout

import (
	"strings"
	"testing"
)

func TestVisibleLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain", "shelf", 5},
		{"bold", "\x1b[1mshelf\x1b[0m", 5},
		{"wide runes take two cells", "本棚", 4},
		{"styled wide runes", "\x1b[31m本棚\x1b[0m", 4},
		{"empty", "", 0},
		{"only escapes", "\x1b[1m\x1b[0m", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleLength(tt.input); got != tt.want {
				t.Errorf("VisibleLength(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		name      string
		text      string
		maxWidth  int
		want      string
		truncated bool
	}{
		{"fits", "Reading", 10, "Reading", false},
		{"exact", "Reading", 7, "Reading", false},
		{"cut", "Rust Book Notes", 8, "Rust ...", true},
		{"only ellipsis fits", "Reading", 3, "...", true},
		{"ellipsis cut", "Reading", 2, "..", true},
		{"zero width", "Reading", 0, "", true},
		{"empty", "", 10, "", false},
		{"wide runes", "本棚の整理", 5, "本...", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateText(tt.text, tt.maxWidth, cfg)
			if got != tt.want || truncated != tt.truncated {
				t.Errorf("TruncateText(%q, %d) = (%q, %v), want (%q, %v)",
					tt.text, tt.maxWidth, got, truncated, tt.want, tt.truncated)
			}
		})
	}
}

func TestTruncateWithPrefixSuffix(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		name      string
		text      string
		maxWidth  int
		prefix    string
		suffix    string
		want      string
		truncated bool
	}{
		{"fits", "Dev", 10, "", "/", "Dev/", false},
		{"keeps suffix", "Development", 10, "", "/", "Develo.../", true},
		{"keeps prefix and suffix", "Development", 12, "* ", "/", "* Develo.../", true},
		{"no room for text", "Development", 5, "* ", "/", "* ...", true},
		{"zero width", "Development", 0, "", "/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateWithPrefixSuffix(tt.text, tt.maxWidth, tt.prefix, tt.suffix, cfg)
			if got != tt.want || truncated != tt.truncated {
				t.Errorf("TruncateWithPrefixSuffix(%q, %d, %q, %q) = (%q, %v), want (%q, %v)",
					tt.text, tt.maxWidth, tt.prefix, tt.suffix, got, truncated, tt.want, tt.truncated)
			}
			if VisibleLength(got) > tt.maxWidth {
				t.Errorf("result %q is wider than %d", got, tt.maxWidth)
			}
		})
	}
}

func TestTruncateANSIAware(t *testing.T) {
	cfg := DefaultConfig().Text
	highlighted := "Go \x1b[1mDocumentation\x1b[0m Index"

	t.Run("short input unchanged", func(t *testing.T) {
		in := "\x1b[1mGo\x1b[0m"
		if got := TruncateANSIAware(in, 10, cfg); got != in {
			t.Errorf("got %q, want %q", got, in)
		}
	})

	t.Run("cut keeps escapes and resets", func(t *testing.T) {
		got := TruncateANSIAware(highlighted, 10, cfg)
		if !strings.HasPrefix(got, "Go \x1b[1mDocu") {
			t.Errorf("expected the bold sequence to survive, got %q", got)
		}
		if !strings.Contains(got, "Docu...") || !strings.HasSuffix(got, resetStyle) {
			t.Errorf("expected ellipsis and a closing reset, got %q", got)
		}
		if w := VisibleLength(got); w != 10 {
			t.Errorf("visible width = %d, want 10", w)
		}
	})

	t.Run("zero width", func(t *testing.T) {
		if got := TruncateANSIAware(highlighted, 0, cfg); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
