// Package assets loads sprite silhouettes and sizes used by the simulation
// and the front-ends. A Bundle is built once and passed explicitly.
package assets

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pthm-cable/flap/systems"
)

// Sprite files expected in an asset directory.
const (
	BirdFile       = "bird1.png"
	PipeFile       = "pipe.png"
	BaseFile       = "base.png"
	BackgroundFile = "bg.png"
)

// BirdFrames are the wing animation frames, in display order.
var BirdFrames = []string{"bird1.png", "bird2.png", "bird3.png"}

// Scale is the integer upscale applied to every sprite.
const Scale = 2

// alphaCutoff is the 8-bit alpha above which a pixel counts as solid.
const alphaCutoff = 127

// Bundle holds the collision silhouettes and sprite sizes.
// Dir is empty for procedurally generated bundles.
type Bundle struct {
	Dir string

	Bird       *systems.Mask
	PipeTop    *systems.Mask
	PipeBottom *systems.Mask

	GroundW, GroundH int
}

// Path returns the full path of a sprite file, or "" for procedural bundles.
func (b *Bundle) Path(name string) string {
	if b.Dir == "" {
		return ""
	}
	return filepath.Join(b.Dir, name)
}

// CollisionField builds the collision field for these silhouettes.
func (b *Bundle) CollisionField() *systems.CollisionField {
	return systems.NewCollisionField(b.Bird, b.PipeTop, b.PipeBottom)
}

// Load decodes the sprites in dir and derives their silhouettes.
// Every required file must be present.
func Load(dir string) (*Bundle, error) {
	required := append([]string{PipeFile, BaseFile, BackgroundFile}, BirdFrames...)
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("missing asset %s: %w", filepath.Join(dir, name), err)
		}
	}

	bird, err := loadMask(filepath.Join(dir, BirdFile))
	if err != nil {
		return nil, err
	}
	pipe, err := loadMask(filepath.Join(dir, PipeFile))
	if err != nil {
		return nil, err
	}
	base, err := decode(filepath.Join(dir, BaseFile))
	if err != nil {
		return nil, err
	}
	bounds := base.Bounds()

	return &Bundle{
		Dir:        dir,
		Bird:       bird,
		PipeTop:    pipe.FlipVertical(),
		PipeBottom: pipe,
		GroundW:    bounds.Dx() * Scale,
		GroundH:    bounds.Dy() * Scale,
	}, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func loadMask(path string) (*systems.Mask, error) {
	img, err := decode(path)
	if err != nil {
		return nil, err
	}
	return MaskFromImage(img, Scale), nil
}

// MaskFromImage builds a silhouette of img upscaled by an integer factor
// with nearest-neighbour sampling.
func MaskFromImage(img image.Image, scale int) *systems.Mask {
	b := img.Bounds()
	m := systems.NewMask(b.Dx()*scale, b.Dy()*scale)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a>>8 <= alphaCutoff {
				continue
			}
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					m.Set(x*scale+sx, y*scale+sy)
				}
			}
		}
	}
	return m
}
