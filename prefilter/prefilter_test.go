package prefilter

import (
	"testing"
	"unicode/utf16"
)

func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func TestNew_Exact(t *testing.T) {
	tests := []struct {
		name     string
		literal  string
		haystack string
		start    int
		wantPos  int
		wantEnd  int
	}{
		{"single_byte", "x", "abcxdef", 0, 3, 4},
		{"substring", "http://", "see http://x", 0, 4, 11},
		{"from_start", "ab", "ab ab ab", 1, 3, 5},
		{"not_found", "zz", "abc", 0, -1, -1},
		{"start_past_end", "a", "a", 1, -1, -1},
		{"multibyte", "数据", "前缀数据", 0, 6, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := New(units(tt.literal), false)
			if pf == nil {
				t.Fatal("New() = nil")
			}
			if !pf.IsComplete() {
				t.Error("IsComplete() = false, want true")
			}
			pos, end := pf.Find([]byte(tt.haystack), tt.start)
			if pos != tt.wantPos || end != tt.wantEnd {
				t.Errorf("Find() = (%d, %d), want (%d, %d)", pos, end, tt.wantPos, tt.wantEnd)
			}
		})
	}
}

func TestNew_TrailingHighSurrogate(t *testing.T) {
	// "ab" followed by the high half of U+1F600.
	lit := append(units("ab"), 0xD83D)
	pf := New(lit, false)
	if pf == nil {
		t.Fatal("New() = nil")
	}
	if pf.IsComplete() {
		t.Error("IsComplete() = true for a literal with an unpaired surrogate")
	}
	if pf.LiteralLen() != 2 {
		t.Errorf("LiteralLen() = %d, want 2", pf.LiteralLen())
	}
	if pos, _ := pf.Find([]byte("xxab😀"), 0); pos != 2 {
		t.Errorf("Find() = %d, want 2", pos)
	}

	if New([]uint16{0xDC00, 'a'}, false) != nil {
		t.Error("New() should return nil for a literal starting with a lone surrogate")
	}
}

func TestNew_ReplacementChar(t *testing.T) {
	// Invalid UTF-8 bytes read as U+FFFD, so its encoded form cannot be
	// searched for.
	if New(units("\uFFFDabc"), false) != nil {
		t.Error("New() should return nil for a literal starting with U+FFFD")
	}
	if New(units("\uFFFDabc"), true) != nil {
		t.Error("New(ignoreCase) should return nil for a literal starting with U+FFFD")
	}

	for _, ignoreCase := range []bool{false, true} {
		pf := New(units("ab\uFFFDc"), ignoreCase)
		if pf == nil {
			t.Fatalf("New(ignoreCase=%v) = nil", ignoreCase)
		}
		if pf.IsComplete() {
			t.Errorf("IsComplete(ignoreCase=%v) = true for a literal containing U+FFFD", ignoreCase)
		}
		if pf.LiteralLen() != 2 {
			t.Errorf("LiteralLen(ignoreCase=%v) = %d, want 2", ignoreCase, pf.LiteralLen())
		}
		if pos, _ := pf.Find([]byte("xab\xffc"), 0); pos != 1 {
			t.Errorf("Find(ignoreCase=%v) = %d, want 1", ignoreCase, pos)
		}
	}
}

func TestNew_SurrogatePair(t *testing.T) {
	pf := New(units("a😀"), false)
	if pf == nil || !pf.IsComplete() || pf.LiteralLen() != 3 {
		t.Fatalf("New() = %v, want complete prefilter over 3 units", pf)
	}
	pos, end := pf.Find([]byte("xa😀"), 0)
	if pos != 1 || end != 6 {
		t.Errorf("Find() = (%d, %d), want (1, 6)", pos, end)
	}
}

func TestNew_IgnoreCase(t *testing.T) {
	pf := New(units("GET /"), true)
	if pf == nil {
		t.Fatal("New() = nil")
	}
	if !pf.IsComplete() {
		t.Error("IsComplete() = false, want true")
	}

	tests := []struct {
		haystack string
		wantPos  int
	}{
		{"xx get /index", 3},
		{"GeT /", 0},
		{"gets /", -1},
	}
	for _, tt := range tests {
		if pos, _ := pf.Find([]byte(tt.haystack), 0); pos != tt.wantPos {
			t.Errorf("Find(%q) = %d, want %d", tt.haystack, pos, tt.wantPos)
		}
	}
}

func TestNew_IgnoreCaseKelvin(t *testing.T) {
	// K folds to k and to U+212A KELVIN SIGN, whose UTF-8 form is 3 bytes.
	pf := New(units("K1"), true)
	pos, end := pf.Find([]byte("a\u212A1"), 0)
	if pos != 1 || end != 5 {
		t.Errorf("Find() = (%d, %d), want (1, 5)", pos, end)
	}
}

func TestNew_IgnoreCaseTruncated(t *testing.T) {
	// 2^9 spellings exceed MaxVariants, so only 8 letters are kept.
	pf := New(units("abcdefghi"), true)
	if pf == nil {
		t.Fatal("New() = nil")
	}
	if pf.IsComplete() {
		t.Error("IsComplete() = true for a truncated literal")
	}
	if pf.LiteralLen() != 8 {
		t.Errorf("LiteralLen() = %d, want 8", pf.LiteralLen())
	}
}

func TestNewUnits(t *testing.T) {
	tests := []struct {
		name       string
		literal    string
		ignoreCase bool
		haystack   string
		start      int
		want       int
	}{
		{"exact", "http://", false, "see http://x", 0, 4},
		{"exact_from", "ab", false, "ab ab", 1, 3},
		{"exact_missing", "zz", false, "abc", 0, -1},
		{"fold", "GET /", true, "xx gEt /", 0, 3},
		{"fold_missing", "GET /", true, "GET/", 0, -1},
		{"fold_non_ascii", "ΣΑ", true, "xxσα", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := NewUnits(units(tt.literal), tt.ignoreCase)
			if got := pf.Find(units(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find() = %d, want %d", got, tt.want)
			}
			if pf.LiteralLen() != len(units(tt.literal)) {
				t.Errorf("LiteralLen() = %d, want %d", pf.LiteralLen(), len(units(tt.literal)))
			}
		})
	}

	if NewUnits(nil, false) != nil {
		t.Error("NewUnits(nil) should return nil")
	}
}
