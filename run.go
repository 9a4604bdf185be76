package shell

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowFPS adds a fixed FPS/TPS readout in the top-left corner.
	ShowFPS bool
	// Resizable lets the user resize the window. The layout follows the
	// outside size.
	Resizable bool
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene  *Scene
	width  int
	height int
	follow bool
}

func (g *gameShell) Update() error { return g.scene.Update() }

func (g *gameShell) Draw(screen *ebiten.Image) { g.scene.Draw(screen) }

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.follow {
		g.scene.camera.Viewport = Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
		return outsideWidth, outsideHeight
	}
	return g.width, g.height
}

// Run opens a window and drives scene until the window is closed or the
// scene's update function returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("shell: run: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	scene.camera.Viewport = Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	if cfg.ShowFPS {
		scene.Root().AddChild(NewFPSWidget(scene))
	}
	logger.Info().Str("title", cfg.Title).Int("width", cfg.Width).Int("height", cfg.Height).Msg("starting")
	return ebiten.RunGame(&gameShell{
		scene:  scene,
		width:  cfg.Width,
		height: cfg.Height,
		follow: cfg.Resizable,
	})
}

// NewFPSWidget creates a fixed node that displays the current FPS and TPS.
// The readout is refreshed every ~0.5 seconds.
func NewFPSWidget(scene *Scene) *Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)

	node := NewImageBox("fps_widget", 100, 32, img)
	node.Fixed = true
	node.ZIndex = 1 << 20

	var lastUpdate float64
	var handle UpdateHandle
	handle = scene.OnUpdate(func(dt float64) {
		if node.IsDisposed() {
			handle.Remove()
			return
		}
		lastUpdate += dt
		if lastUpdate < 0.5 {
			return
		}
		lastUpdate = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	})
	return node
}
