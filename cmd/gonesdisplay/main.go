// Command gonesdisplay is an optional, explicitly out-of-core host demo:
// it opens a window and plays a ROM by reading the nescore core's
// palette-index framebuffer and converting it to RGB for display every
// frame. Window creation and presentation are outside the core's scope
// (spec.md section 1); this binary is the thin host that supplies them.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nescore/nescore/internal/cartridge"
	"github.com/nescore/nescore/internal/console"
	"github.com/nescore/nescore/internal/input"
)

const (
	nesWidth  = 256
	nesHeight = 240
)

type game struct {
	nes         *console.Console
	frameImage  *ebiten.Image
	imageBuffer *image.RGBA
}

var keyBindings = []struct {
	key    ebiten.Key
	button input.Button
}{
	{ebiten.KeyZ, input.ButtonA},
	{ebiten.KeyX, input.ButtonB},
	{ebiten.KeyShift, input.ButtonSelect},
	{ebiten.KeyEnter, input.ButtonStart},
	{ebiten.KeyUp, input.ButtonUp},
	{ebiten.KeyDown, input.ButtonDown},
	{ebiten.KeyLeft, input.ButtonLeft},
	{ebiten.KeyRight, input.ButtonRight},
}

func (g *game) Update() error {
	for _, kb := range keyBindings {
		g.nes.SetButtonState(kb.button, ebiten.IsKeyPressed(kb.key))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.nes.RunOneFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.nes.FrameBuffer()
	for y := 0; y < nesHeight; y++ {
		for x := 0; x < nesWidth; x++ {
			rgb := g.nes.Palette(fb[y*nesWidth+x])
			r := uint8(rgb >> 16)
			gg := uint8(rgb >> 8)
			b := uint8(rgb)
			i := (y*nesWidth + x) * 4
			g.imageBuffer.Pix[i+0] = r
			g.imageBuffer.Pix[i+1] = gg
			g.imageBuffer.Pix[i+2] = b
			g.imageBuffer.Pix[i+3] = 0xFF
		}
	}
	g.frameImage.WritePixels(g.imageBuffer.Pix)
	screen.DrawImage(g.frameImage, nil)
	// Audio device output is outside the core's scope (spec.md section 1);
	// samples accumulate in the APU's buffer unread by this demo.
	ebitenutil.DebugPrint(screen, fmt.Sprintf("cycles %d", g.nes.Cycles()))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return nesWidth, nesHeight
}

func main() {
	scale := flag.Int("scale", 2, "window scale factor")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gonesdisplay [-scale N] <rom.nes>")
		os.Exit(1)
	}

	romBytes, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}
	cart, err := cartridge.New(romBytes)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	g := &game{
		nes:         console.New(cart, console.Config{}),
		frameImage:  ebiten.NewImage(nesWidth, nesHeight),
		imageBuffer: image.NewRGBA(image.Rect(0, 0, nesWidth, nesHeight)),
	}

	ebiten.SetWindowSize(nesWidth*(*scale), nesHeight*(*scale))
	ebiten.SetWindowTitle(cart.Header.Name)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
