package shell

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

// maxDecodeWorkers bounds concurrent image decodes in LoadImages.
const maxDecodeWorkers = 4

// LoadImages decodes the named files from fsys concurrently and uploads them
// as ebiten images keyed by path. The first open or decode error is returned.
func LoadImages(fsys fs.FS, paths ...string) (map[string]*ebiten.Image, error) {
	decoded := make([]image.Image, len(paths))

	var g errgroup.Group
	g.SetLimit(maxDecodeWorkers)
	for i, p := range paths {
		g.Go(func() error {
			f, err := fsys.Open(p)
			if err != nil {
				return fmt.Errorf("open %s: %w", p, err)
			}
			defer f.Close()
			img, _, err := image.Decode(f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", p, err)
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*ebiten.Image, len(paths))
	for i, p := range paths {
		out[p] = ebiten.NewImageFromImage(decoded[i])
	}
	logger.Debug().Int("count", len(out)).Msg("images loaded")
	return out, nil
}
