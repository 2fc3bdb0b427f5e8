package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/cbodonnell/snake/client/fonts"
	clientinput "github.com/cbodonnell/snake/client/input"
	"github.com/cbodonnell/snake/pkg/game"
	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// GameOverLinger is how long the game over banner stays up before the window closes.
const GameOverLinger = 2 * time.Second

var (
	backgroundColor = color.RGBA{20, 20, 28, 255}
	snakeColor      = color.RGBA{0, 200, 60, 255}
	headColor       = color.RGBA{120, 255, 140, 255}
	foodColor       = color.RGBA{230, 40, 40, 255}
)

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
// It only reads committed snapshots and writes direction requests.
type Game struct {
	debug        bool
	playfield    gametypes.Playfield
	scale        float64
	stateManager state.StateManager
	input        *input.Buffer
	// results delivers the driver's result once the game loop returns
	results <-chan game.Result
	// stop cancels the game loop when the window is closed early
	stop     context.CancelFunc
	result   *game.Result
	overAt   time.Time
	snapshot *gametypes.Snapshot
}

type NewGameOptions struct {
	Debug        bool
	Playfield    gametypes.Playfield
	Scale        float64
	StateManager state.StateManager
	Input        *input.Buffer
	Results      <-chan game.Result
	Stop         context.CancelFunc
}

func NewGame(opts NewGameOptions) *Game {
	return &Game{
		debug:        opts.Debug,
		playfield:    opts.Playfield,
		scale:        opts.Scale,
		stateManager: opts.StateManager,
		input:        opts.Input,
		results:      opts.Results,
		stop:         opts.Stop,
	}
}

// Result returns the game result, or nil if the game loop has not returned.
func (g *Game) Result() *game.Result {
	return g.result
}

func (g *Game) Update() error {
	if clientinput.IsNegativeJustPressed() {
		g.stop()
		return ebiten.Termination
	}

	if g.result == nil {
		clientinput.HandleDirectionInput(g.input)
		select {
		case result := <-g.results:
			g.result = &result
			g.overAt = time.Now()
		default:
		}
	} else if time.Since(g.overAt) > GameOverLinger || clientinput.IsPositiveJustPressed() {
		return ebiten.Termination
	}

	snapshot, err := g.stateManager.Get(context.Background())
	if err != nil {
		if !errors.Is(err, state.ErrNoState) {
			return fmt.Errorf("failed to get state: %v", err)
		}
		return nil
	}
	g.snapshot = snapshot
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	if g.snapshot == nil {
		return
	}

	size := float32(g.scale)
	if food := g.snapshot.Food; food != nil {
		x, y := g.playfield.CellToScreen(*food, g.scale)
		vector.DrawFilledRect(screen, float32(x), float32(y), size, size, foodColor, false)
	}
	for i, segment := range g.snapshot.Segments {
		c := snakeColor
		if i == 0 {
			c = headColor
		}
		x, y := g.playfield.CellToScreen(segment, g.scale)
		vector.DrawFilledRect(screen, float32(x)+1, float32(y)+1, size-2, size-2, c, false)
	}

	g.drawText(screen, fonts.HUDFont, fmt.Sprintf("Length %d", len(g.snapshot.Segments)), 8, 18)

	if g.result != nil {
		g.drawCentered(screen, fonts.TitleFont, "GAME OVER", 0)
		g.drawCentered(screen, fonts.HUDFont, g.result.Reason.String(), 32)
	}

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n   TPS: %0.1f\n   Tick: %d", ebiten.ActualTPS(), g.snapshot.Tick))
	}
}

func (g *Game) drawText(screen *ebiten.Image, face font.Face, t string, x, y float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(color.White)
	text.DrawWithOptions(screen, t, face, op)
}

func (g *Game) drawCentered(screen *ebiten.Image, face font.Face, t string, offsetY float64) {
	w, h := g.Layout(0, 0)
	bounds, _ := font.BoundString(face, t)
	x := float64(w)/2 - float64((bounds.Max.X-bounds.Min.X)>>6)/2
	y := float64(h)/2 + offsetY
	g.drawText(screen, face, t, x, y)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return int(float64(g.playfield.Width()) * g.scale), int(float64(g.playfield.Height()) * g.scale)
}

// Run opens a window and blocks until it is closed.
func Run(g *Game, title string) error {
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("failed to run game: %v", err)
	}
	log.Debug("Window closed")
	return nil
}
