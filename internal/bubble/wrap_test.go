package bubble

import (
	"image"
	"reflect"
	"strings"
	"testing"

	"github.com/Faultbox/deskpet/internal/config"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		columns int
		want    []string
	}{
		{"fits", "hello", 10, []string{"hello"}},
		{"break at space", "hello world", 5, []string{"hello", "world"}},
		{"break at last space", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"hard break", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"hard break after word", "hi abcdefgh", 4, []string{"hi", "abcd", "efgh"}},
		{"space exactly at limit", "abcd efgh", 4, []string{"abcd", "efgh"}},
		{"newlines", "one\n\ntwo", 10, []string{"one", "", "two"}},
		{"wide runes count double", "こんにちは世界", 6, []string{"こんに", "ちは世", "界"}},
		{"zero columns", "ab", 0, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.columns)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.columns, got, tt.want)
			}
		})
	}
}

func TestWrapNeverEmitsEmptyLine(t *testing.T) {
	text := "lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod"
	for cols := 1; cols <= 20; cols++ {
		for _, line := range Wrap(text, cols) {
			if line == "" {
				t.Errorf("empty line at %d columns", cols)
			}
			if n := len([]rune(line)); n > cols {
				t.Errorf("line %q exceeds %d columns", line, cols)
			}
		}
	}
}

func TestRasterizer(t *testing.T) {
	cfg := config.Default().Bubble
	r, err := NewRasterizer(cfg)
	if err != nil {
		t.Fatalf("NewRasterizer: %v", err)
	}
	defer r.Close()

	if r.Columns() != 37 {
		t.Errorf("Columns = %d, want 37", r.Columns())
	}

	short := r.Render("hi")
	if short.Bounds().Dx() != cfg.MinTextWidth {
		t.Errorf("short text width %d, want min %d", short.Bounds().Dx(), cfg.MinTextWidth)
	}
	if short.Bounds().Dy() != r.LineHeight() {
		t.Errorf("short text height %d, want one line (%d)", short.Bounds().Dy(), r.LineHeight())
	}
	if !hasInk(short) {
		t.Error("no glyph coverage in rendered text")
	}

	long := r.Render(strings.Repeat("word ", 20))
	lines := len(Wrap(strings.Repeat("word ", 20), r.Columns()))
	if lines < 2 {
		t.Fatalf("expected wrapping, got %d lines", lines)
	}
	if long.Bounds().Dy() != lines*r.LineHeight() {
		t.Errorf("height %d, want %d lines of %d", long.Bounds().Dy(), lines, r.LineHeight())
	}
}

func TestRasterizerMissingFont(t *testing.T) {
	cfg := config.Default().Bubble
	cfg.FontPath = "/nonexistent/font.ttf"
	if _, err := NewRasterizer(cfg); err == nil {
		t.Error("expected error for missing font")
	}
}

func hasInk(img *image.Alpha) bool {
	for _, a := range img.Pix {
		if a > 0 {
			return true
		}
	}
	return false
}
