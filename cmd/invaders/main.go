// Command invaders runs the Space Invaders ROM against the 8080 core in an
// SDL2 window, grounded on the teacher's vcs_main.go sdl.Main/fastImage/flag
// structure (spec.md §6).
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"flag"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/jmchacon/i8080invaders/frame"
	"github.com/jmchacon/i8080invaders/invaders"
	"github.com/jmchacon/i8080invaders/video"
)

var (
	romPath = flag.String("rom", "./ROMS/invaders", "Path to the Space Invaders ROM image")
	scale   = flag.Int("scale", 2, "Scale factor to render the screen")
	clockHz = flag.Int("clock", frame.DefaultClockHz, "Emulated CPU clock rate in Hz")
	fps     = flag.Int("fps", frame.DefaultFPS, "Target frames per second")
	ships   = flag.Int("ships", 3, "Ships-per-game DIP switch setting (3, 4, 5 or 6)")
	bonus   = flag.Bool("bonus_at_1000", false, "Bonus-life DIP switch: true for 1000 points, false for 1500")
	debug   = flag.Bool("debug", false, "If true, overlay per-frame timing on the window")
)

// keyBindings maps the host keyboard to cabinet buttons (spec.md §6).
var keyBindings = map[sdl.Keycode]invaders.Key{
	sdl.K_c:     invaders.Coin,
	sdl.K_1:     invaders.Start1,
	sdl.K_2:     invaders.Start2,
	sdl.K_LEFT:  invaders.Left1,
	sdl.K_RIGHT: invaders.Right1,
	sdl.K_SPACE: invaders.Shoot1,
	sdl.K_a:     invaders.Left2,
	sdl.K_d:     invaders.Right2,
	sdl.K_w:     invaders.Shoot2,
}

// fastImage pokes pixels directly into an SDL surface's backing bytes,
// avoiding the per-pixel color.Color allocation Surface.Set otherwise
// incurs.
type fastImage struct {
	surface *sdl.Surface
	data    []byte
}

func (f *fastImage) Set(x, y int, c color.Color) {
	i := int32(y)*f.surface.Pitch + int32(x)*int32(f.surface.Format.BytesPerPixel)
	px := color.NRGBAModel.Convert(c).(color.NRGBA)
	f.data[i+0] = px.R
	f.data[i+1] = px.G
	f.data[i+2] = px.B
	f.data[i+3] = px.A
}

func (f *fastImage) ColorModel() color.Model { return f.surface.ColorModel() }
func (f *fastImage) Bounds() image.Rectangle { return f.surface.Bounds() }
func (f *fastImage) At(x, y int) color.Color { return f.surface.At(x, y) }

// blit nearest-neighbor-scales src onto dst.
func blit(dst *fastImage, src *image.NRGBA, scale int) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.NRGBAAt(x, y)
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					dst.Set(x*scale+sx, y*scale+sy, c)
				}
			}
		}
	}
}

// pumpEvents drains pending SDL events, translating key presses into
// cabinet button latches and reporting whether a quit was requested.
func pumpEvents(cab *invaders.Cabinet) (quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			k, ok := keyBindings[e.Keysym.Sym]
			if !ok {
				continue
			}
			if e.State == sdl.PRESSED {
				cab.PressKey(k)
			} else {
				cab.ReleaseKey(k)
			}
		}
	}
	return quit
}

func main() {
	flag.Parse()

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("Can't load ROM: %v from path: %s", err, *romPath)
	}
	cab, err := invaders.Init(&invaders.CabinetDef{
		ROM:             rom,
		ShipsPerGame:    uint8(*ships),
		BonusLifeAt1000: *bonus,
	})
	if err != nil {
		log.Fatalf("Can't init cabinet: %v", err)
	}

	exitCode := 1
	sdl.Main(func() {
		exitCode = run(cab)
	})
	os.Exit(exitCode)
}

func run(cab *invaders.Cabinet) int {
	if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
		log.Printf("Can't init SDL: %v", err)
		return 1
	}
	defer sdl.Quit()

	w, h := int32(video.Width**scale), int32(video.Height**scale)
	window, err := sdl.CreateWindow("Space Invaders", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		log.Printf("Can't create window: %v", err)
		return 1
	}
	defer window.Destroy()

	surface, err := window.GetSurface()
	if err != nil {
		log.Printf("Can't get window surface: %v", err)
		return 1
	}
	fi := &fastImage{surface: surface, data: surface.Pixels()}
	drawer := &font.Drawer{
		Dst:  fi,
		Src:  image.NewUniform(color.NRGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}),
		Face: basicfont.Face7x13,
	}

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	frameCount := 0

	d, err := frame.Init(&frame.DriverDef{
		Cabinet: cab,
		ClockHz: *clockHz,
		FPS:     *fps,
		FrameDone: func(c *invaders.Cabinet) {
			if pumpEvents(c) {
				cancel()
				return
			}
			blit(fi, video.Render(c.Ram), *scale)
			frameCount++
			if *debug {
				elapsed := time.Since(start).Seconds()
				drawer.Dot = fixed.P(4, int(h)-4)
				drawer.DrawString(fmt.Sprintf("frame %d  %.1f fps", frameCount, float64(frameCount)/elapsed))
			}
			window.UpdateSurface()
		},
	})
	if err != nil {
		log.Printf("Can't init frame driver: %v", err)
		return 1
	}

	if err := d.Run(ctx); err != nil {
		log.Printf("Run error: %v", err)
		return 1
	}
	return 0
}
