package genie

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// dataURIPrefix starts every snapshot data URI.
const dataURIPrefix = "data:image/png;base64,"

// Snapshot is a captured bitmap of one window at one instant. The pixels
// never change after capture.
type Snapshot struct {
	img      *image.NRGBA
	fallback bool

	uriOnce sync.Once
	uri     string

	tex *ebiten.Image
}

func newSnapshot(img *image.NRGBA, fallback bool) *Snapshot {
	return &Snapshot{img: img, fallback: fallback}
}

// Image returns the captured pixels. The image MUST NOT be mutated.
func (s *Snapshot) Image() *image.NRGBA { return s.img }

// Width returns the bitmap width in pixels.
func (s *Snapshot) Width() int { return s.img.Rect.Dx() }

// Height returns the bitmap height in pixels.
func (s *Snapshot) Height() int { return s.img.Rect.Dy() }

// Fallback reports whether the snapshot is the synthetic placeholder drawn
// after rasterization failed.
func (s *Snapshot) Fallback() bool { return s.fallback }

// DataURI returns the bitmap as a base64 PNG data URI.
func (s *Snapshot) DataURI() string {
	s.uriOnce.Do(func() {
		var buf bytes.Buffer
		if err := png.Encode(&buf, s.img); err != nil {
			// NRGBA images always encode; keep the prefix so callers can
			// still recognise the format.
			logger().Error().Err(err).Msg("encode snapshot")
			s.uri = dataURIPrefix
			return
		}
		s.uri = dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
	})
	return s.uri
}

// Texture returns the bitmap uploaded as an ebiten image, creating it on
// first use. Only call from the game thread.
func (s *Snapshot) Texture() *ebiten.Image {
	if s.tex == nil {
		s.tex = ebiten.NewImageFromImage(s.img)
	}
	return s.tex
}

// Dispose releases the GPU texture. The CPU pixels stay readable.
func (s *Snapshot) Dispose() {
	if s.tex != nil {
		s.tex.Deallocate()
		s.tex = nil
	}
}

// DecodeDataURI parses a snapshot data URI back into an image.
func DecodeDataURI(uri string) (image.Image, error) {
	if len(uri) < len(dataURIPrefix) || uri[:len(dataURIPrefix)] != dataURIPrefix {
		return nil, errBadDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(uri[len(dataURIPrefix):])
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(raw))
}
