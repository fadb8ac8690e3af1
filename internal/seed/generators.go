package seed

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Generated fields stay inside the same length caps the API enforces, so a
// seeded dataset is indistinguishable from one built through the edge.
const (
	maxNameRunes = 30
	maxDescRunes = 300
	maxTextRunes = 300
)

var (
	titleAdjectives = []string{
		"Quiet", "Golden", "Fading", "Electric", "Velvet", "Hollow",
		"Winter", "Neon", "Paper", "Crimson", "Silent", "Amber",
		"Midnight", "Restless", "Overgrown", "Borrowed",
	}

	titleSubjects = []string{
		"Harbor", "Orbit", "Garden", "Skyline", "Tide", "Meadow",
		"Signal", "Lantern", "Canyon", "Mirror", "Static", "Bloom",
		"Drift", "Horizon", "Thicket", "Interior",
	}

	reactions = []string{
		"Love the palette here.",
		"This one glows.",
		"Stunning composition.",
		"The texture on this is unreal.",
		"Saving this for reference.",
		"More like this, please.",
		"Beautiful light.",
		"The negative space does so much work.",
	}

	// Gradient endpoints for generated images. Muted pairs render better
	// than uniformly random channels.
	palette = []color.RGBA{
		{R: 0x2b, G: 0x2d, B: 0x42, A: 0xff},
		{R: 0x8d, G: 0x99, B: 0xae, A: 0xff},
		{R: 0xef, G: 0x23, B: 0x3c, A: 0xff},
		{R: 0xed, G: 0xf2, B: 0xf4, A: 0xff},
		{R: 0xff, G: 0xb7, B: 0x03, A: 0xff},
		{R: 0x02, G: 0x30, B: 0x47, A: 0xff},
		{R: 0x21, G: 0x9e, B: 0xbc, A: 0xff},
		{R: 0x9b, G: 0x5d, B: 0xe5, A: 0xff},
	}
)

func randomArtistName() string {
	return clampRunes(gofakeit.FirstName()+" "+gofakeit.LastName(), maxNameRunes)
}

func randomTitle(r *rand.Rand) string {
	adj := titleAdjectives[r.Intn(len(titleAdjectives))]
	subject := titleSubjects[r.Intn(len(titleSubjects))]

	switch r.Intn(4) {
	case 0:
		return fmt.Sprintf("The %s %s", adj, subject)
	case 1:
		return fmt.Sprintf("%s %s, No. %d", adj, subject, r.Intn(99)+1)
	case 2:
		return fmt.Sprintf("%s %s Study", adj, subject)
	default:
		return fmt.Sprintf("%s %s", adj, subject)
	}
}

func randomDesc() string {
	return clampRunes(gofakeit.Paragraph(1, 2, 8, " "), maxDescRunes)
}

func randomComment(r *rand.Rand) string {
	if r.Intn(2) == 0 {
		return reactions[r.Intn(len(reactions))]
	}
	return clampRunes(gofakeit.Sentence(r.Intn(8)+4), maxTextRunes)
}

func clampRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// timestampSpread returns n creation times in milliseconds, ascending, all
// within maxAge of now. Ascending order keeps generated feeds looking like
// they accumulated over time.
func timestampSpread(r *rand.Rand, n int, maxAge time.Duration, now time.Time) []int64 {
	offsets := make([]time.Duration, n)
	for i := range offsets {
		offsets[i] = time.Duration(r.Int63n(int64(maxAge)))
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] > offsets[j] })

	timestamps := make([]int64, n)
	for i, offset := range offsets {
		timestamps[i] = now.Add(-offset).UnixMilli()
	}
	return timestamps
}

// gradientPNG renders a small horizontal gradient between two palette colors
// and returns it PNG-encoded. Seeded posts carry real image bytes so the
// data URIs the store renders are genuine.
func gradientPNG(r *rand.Rand, w, h int) ([]byte, error) {
	from := palette[r.Intn(len(palette))]
	to := palette[r.Intn(len(palette))]

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		t := 0.0
		if w > 1 {
			t = float64(x) / float64(w-1)
		}
		c := color.RGBA{
			R: blend(from.R, to.R, t),
			G: blend(from.G, to.G, t),
			B: blend(from.B, to.B, t),
			A: 0xff,
		}
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blend(from, to uint8, t float64) uint8 {
	return uint8(float64(from) + (float64(to)-float64(from))*t)
}
