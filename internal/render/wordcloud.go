package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/psykhi/wordclouds"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	cloudWidth    = 800
	cloudHeight   = 400
	maxCloudWords = 120
	minWordLength = 3
)

var cloudPalette = []color.Color{
	color.RGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff},
	color.RGBA{R: 0x27, G: 0xae, B: 0x60, A: 0xff},
	color.RGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff},
	color.RGBA{R: 0x28, G: 0x6f, B: 0xb8, A: 0xff},
	color.RGBA{R: 0xd4, G: 0x8a, B: 0x1f, A: 0xff},
}

// wordCloudPNG draws the frequency cloud and returns it base64-encoded for
// an inline data URI. An empty frequency map yields an empty string.
func wordCloudPNG(freq map[string]int, fontPath string) (string, error) {
	if len(freq) == 0 {
		return "", nil
	}

	path, err := ensureFont(fontPath)
	if err != nil {
		return "", err
	}

	cloud := wordclouds.NewWordcloud(freq,
		wordclouds.FontFile(path),
		wordclouds.Width(cloudWidth),
		wordclouds.Height(cloudHeight),
		wordclouds.BackgroundColor(color.White),
		wordclouds.Colors(cloudPalette),
		wordclouds.FontMaxSize(96),
		wordclouds.FontMinSize(14),
	)

	var buf bytes.Buffer
	if err := png.Encode(&buf, cloud.Draw()); err != nil {
		return "", fmt.Errorf("encode word cloud: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

var (
	fallbackFontOnce sync.Once
	fallbackFontPath string
	fallbackFontErr  error
)

// ensureFont returns the configured TTF path, materializing the embedded
// Go Regular face into a fresh process-owned temp file when none is
// configured. A fixed shared path is avoided so a pre-existing file cannot
// be substituted for the font.
func ensureFont(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	fallbackFontOnce.Do(func() {
		f, err := os.CreateTemp("", "sentiment-dashboard-*.ttf")
		if err != nil {
			fallbackFontErr = fmt.Errorf("create fallback font: %w", err)
			return
		}
		if _, err := f.Write(goregular.TTF); err != nil {
			f.Close()
			fallbackFontErr = fmt.Errorf("write fallback font: %w", err)
			return
		}
		if err := f.Close(); err != nil {
			fallbackFontErr = fmt.Errorf("close fallback font: %w", err)
			return
		}
		fallbackFontPath = f.Name()
	})

	return fallbackFontPath, fallbackFontErr
}
