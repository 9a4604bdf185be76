package shell

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadImages(t *testing.T) {
	fsys := fstest.MapFS{
		"icons/finder.png": {Data: encodePNG(t, 16, 16)},
		"icons/notes.png":  {Data: encodePNG(t, 32, 8)},
		"wallpaper.png":    {Data: encodePNG(t, 4, 4)},
	}
	imgs, err := LoadImages(fsys, "icons/finder.png", "icons/notes.png", "wallpaper.png")
	if err != nil {
		t.Fatal(err)
	}
	if len(imgs) != 3 {
		t.Fatalf("loaded %d images, want 3", len(imgs))
	}
	if b := imgs["icons/notes.png"].Bounds(); b.Dx() != 32 || b.Dy() != 8 {
		t.Errorf("notes bounds = %v", b)
	}
}

func TestLoadImages_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.png":  {Data: encodePNG(t, 2, 2)},
		"bad.png": {Data: []byte("not a png")},
	}
	if _, err := LoadImages(fsys, "ok.png", "missing.png"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadImages(fsys, "bad.png"); err == nil {
		t.Error("expected decode error")
	}
	imgs, err := LoadImages(fsys)
	if err != nil || len(imgs) != 0 {
		t.Errorf("empty load = %v, %v", imgs, err)
	}
}
