package seed

import (
	"bytes"
	"image/png"
	"math/rand"
	"testing"
	"time"
)

func TestTimestampSpread_OrderedAndBounded(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	now := time.Now()
	maxAge := 30 * 24 * time.Hour

	timestamps := timestampSpread(r, 50, maxAge, now)
	if len(timestamps) != 50 {
		t.Fatalf("expected 50 timestamps, got %d", len(timestamps))
	}

	floor := now.Add(-maxAge).UnixMilli()
	ceiling := now.UnixMilli()
	for i, ts := range timestamps {
		if ts < floor || ts > ceiling {
			t.Fatalf("timestamp %d out of range: %d", i, ts)
		}
		if i > 0 && ts < timestamps[i-1] {
			t.Fatalf("timestamps not ascending at index %d", i)
		}
	}
}

func TestGradientPNG_Decodes(t *testing.T) {
	r := rand.New(rand.NewSource(2))

	data, err := gradientPNG(r, 48, 32)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 48 || img.Bounds().Dy() != 32 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}
}

func TestGeneratedFieldsRespectCaps(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		if name := randomArtistName(); name == "" || len([]rune(name)) > maxNameRunes {
			t.Fatalf("bad artist name: %q", name)
		}
		if title := randomTitle(r); title == "" || len([]rune(title)) > 60 {
			t.Fatalf("bad title: %q", title)
		}
		if desc := randomDesc(); desc == "" || len([]rune(desc)) > maxDescRunes {
			t.Fatalf("bad description length: %d", len([]rune(desc)))
		}
		if text := randomComment(r); text == "" || len([]rune(text)) > maxTextRunes {
			t.Fatalf("bad comment length: %d", len([]rune(text)))
		}
	}
}

func TestClampRunes(t *testing.T) {
	if got := clampRunes("hello", 10); got != "hello" {
		t.Fatalf("short string was modified: %q", got)
	}
	if got := clampRunes("hello", 3); got != "hel" {
		t.Fatalf("unexpected clamp: %q", got)
	}
	if got := clampRunes("ääää", 2); got != "ää" {
		t.Fatalf("clamp split a rune: %q", got)
	}
}
