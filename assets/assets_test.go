package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, solid func(x, y int) bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if solid(x, y) {
				img.Set(x, y, color.NRGBA{R: 200, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{A: 40})
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeStockSet(t *testing.T, dir string) {
	t.Helper()
	all := func(x, y int) bool { return true }
	for _, name := range BirdFrames {
		writePNG(t, filepath.Join(dir, name), 34, 24, func(x, y int) bool { return x > 0 })
	}
	writePNG(t, filepath.Join(dir, PipeFile), 52, 320, func(x, y int) bool { return y < 10 })
	writePNG(t, filepath.Join(dir, BaseFile), 336, 112, all)
	writePNG(t, filepath.Join(dir, BackgroundFile), 10, 10, all)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeStockSet(t, dir)

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if b.Bird.W != BirdW || b.Bird.H != BirdH {
		t.Errorf("bird mask = %dx%d, want %dx%d", b.Bird.W, b.Bird.H, BirdW, BirdH)
	}
	if b.PipeBottom.W != PipeW || b.PipeBottom.H != PipeH {
		t.Errorf("pipe mask = %dx%d, want %dx%d", b.PipeBottom.W, b.PipeBottom.H, PipeW, PipeH)
	}
	if b.GroundW != GroundW || b.GroundH != GroundH {
		t.Errorf("ground = %dx%d, want %dx%d", b.GroundW, b.GroundH, GroundW, GroundH)
	}

	// Left column of the bird is translucent
	if b.Bird.Get(0, 0) || b.Bird.Get(1, 5) {
		t.Error("translucent pixels should not be solid")
	}
	if !b.Bird.Get(2, 0) {
		t.Error("opaque pixel missing from mask")
	}

	// Cap rows are at the top of the bottom pipe and the bottom of the top pipe
	if !b.PipeBottom.Get(0, 0) || b.PipeBottom.Get(0, 30) {
		t.Error("bottom pipe mask has wrong orientation")
	}
	if !b.PipeTop.Get(0, PipeH-1) || b.PipeTop.Get(0, 0) {
		t.Error("top pipe mask should be the vertical flip")
	}
	if b.Path(PipeFile) != filepath.Join(dir, PipeFile) {
		t.Errorf("Path = %q", b.Path(PipeFile))
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeStockSet(t, dir)
	if err := os.Remove(filepath.Join(dir, "bird2.png")); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for missing sprite")
	}
	if !strings.Contains(err.Error(), "bird2.png") {
		t.Errorf("error %q should name the missing file", err)
	}
}

func TestProcedural(t *testing.T) {
	a, b := Procedural(), Procedural()

	if a.Bird.W != BirdW || a.Bird.H != BirdH {
		t.Errorf("bird = %dx%d", a.Bird.W, a.Bird.H)
	}
	if a.Bird.Count() != b.Bird.Count() || a.PipeTop.Count() != b.PipeTop.Count() {
		t.Error("procedural bundle is not deterministic")
	}
	if a.Bird.Get(0, 0) || a.Bird.Get(BirdW-1, BirdH-1) {
		t.Error("bird corners should be rounded off")
	}
	if !a.Bird.Get(BirdW/2, BirdH/2) {
		t.Error("bird centre should be solid")
	}
	if a.Path(PipeFile) != "" {
		t.Error("procedural bundle has no files")
	}
}
