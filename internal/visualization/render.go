package visualization

import (
	"fmt"
	"image/color"
	"math"

	"celldivision-sim/internal/common"
	"celldivision-sim/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	minCellRadiusOnScreen = 2.0  // Cells stay visible even when zoomed out
	padding               = 50.0 // Margin between world extent and window edge
)

var (
	backgroundColor = color.RGBA{230, 230, 230, 255}
	boundsColor     = color.RGBA{120, 120, 120, 255}
	// Fill colors indexed by the cell color tag.
	cellPalette = []color.RGBA{
		{220, 60, 60, 255},
		{60, 120, 220, 255},
		{60, 180, 90, 255},
		{230, 170, 40, 255},
		{160, 80, 200, 255},
	}
)

// Renderer implements ebiten.Game, stepping the simulation once per tick and
// drawing the cell layer as colored circles inside the confinement rectangle.
type Renderer struct {
	sim       *simulation.Simulation
	projector Projector

	stepsRemaining int

	screenWidth  int
	screenHeight int

	// Transformation parameters
	scale   float64
	offsetX float64
	offsetY float64

	// Cached projected coordinates
	projectedCoords map[string]common.Vector
}

// NewRenderer creates an Ebiten renderer that advances the simulation by one
// step per tick until numSteps steps have run, then keeps showing the final
// state.
func NewRenderer(sim *simulation.Simulation, projector Projector, numSteps int) *Renderer {
	return &Renderer{
		sim:             sim,
		projector:       projector,
		stepsRemaining:  numSteps,
		projectedCoords: make(map[string]common.Vector),
	}
}

// Update is called every tick. It advances the simulation and refreshes the
// projected coordinates.
func (r *Renderer) Update() error {
	if r.stepsRemaining > 0 {
		r.sim.Step()
		r.stepsRemaining--
	}

	cells := r.sim.Cells()
	if len(cells) > 0 {
		coords, err := r.projector.Project(cells)
		if err != nil {
			// Keep the previous frame's projection rather than stopping the
			// renderer.
			fmt.Printf("Renderer Update: projection failed: %v\n", err)
		} else {
			r.projectedCoords = coords
		}
	} else {
		r.projectedCoords = make(map[string]common.Vector)
	}

	r.calculateTransform()
	return nil
}

// calculateTransform determines the scaling and offset that fit the
// confinement rectangle and all projected points onto the screen.
func (r *Renderer) calculateTransform() {
	b := r.sim.Config().Bounds
	minX, maxX := b.XMin, b.XMax
	minY, maxY := b.YMin, b.YMax

	// Clamped-out cells can sit slightly past the rectangle; include them.
	for _, pos := range r.projectedCoords {
		if len(pos) < 2 {
			continue
		}
		minX = math.Min(minX, pos[0])
		maxX = math.Max(maxX, pos[0])
		minY = math.Min(minY, pos[1])
		maxY = math.Max(maxY, pos[1])
	}

	worldWidth := maxX - minX
	worldHeight := maxY - minY
	if worldWidth == 0 {
		worldWidth = 1
	}
	if worldHeight == 0 {
		worldHeight = 1
	}

	scaleX := (float64(r.screenWidth) - 2*padding) / worldWidth
	scaleY := (float64(r.screenHeight) - 2*padding) / worldHeight
	r.scale = math.Min(scaleX, scaleY) // Preserve aspect ratio

	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		r.scale = 1.0
	}

	// Center the world
	centerX := (minX + maxX) / 2.0
	centerY := (minY + maxY) / 2.0
	r.offsetX = float64(r.screenWidth)/2.0 - centerX*r.scale
	r.offsetY = float64(r.screenHeight)/2.0 - centerY*r.scale
}

// worldToScreen converts projected 2D world coordinates to screen coordinates.
func (r *Renderer) worldToScreen(worldX, worldY float64) (float32, float32) {
	screenX := worldX*r.scale + r.offsetX
	screenY := worldY*r.scale + r.offsetY
	return float32(screenX), float32(screenY)
}

// Draw is called every frame to render the simulation.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	r.drawBounds(screen)

	for _, cell := range r.sim.Cells() {
		projPos, ok := r.projectedCoords[cell.GetID()]
		if !ok || len(projPos) < 2 {
			continue
		}
		cx, cy := r.worldToScreen(projPos[0], projPos[1])

		radius := float32(cell.GetDiameter() / 2 * r.scale)
		if radius < minCellRadiusOnScreen {
			radius = minCellRadiusOnScreen
		}

		fill := cellPalette[((cell.GetCellColor()%len(cellPalette))+len(cellPalette))%len(cellPalette)]
		vector.DrawFilledCircle(screen, cx, cy, radius, fill, true)
	}

	r.drawDebugInfo(screen)
}

// drawBounds outlines the confinement rectangle.
func (r *Renderer) drawBounds(screen *ebiten.Image) {
	b := r.sim.Config().Bounds
	x0, y0 := r.worldToScreen(b.XMin, b.YMin)
	x1, y1 := r.worldToScreen(b.XMax, b.YMax)

	vector.StrokeLine(screen, x0, y0, x1, y0, 1, boundsColor, true)
	vector.StrokeLine(screen, x1, y0, x1, y1, 1, boundsColor, true)
	vector.StrokeLine(screen, x1, y1, x0, y1, 1, boundsColor, true)
	vector.StrokeLine(screen, x0, y1, x0, y0, 1, boundsColor, true)
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	msg := fmt.Sprintf("Step: %d (t=%.2f)\n", r.sim.StepCount(), r.sim.CurrentTime())
	msg += fmt.Sprintf("FPS: %.1f, TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	msg += fmt.Sprintf("Cells: %d, Divisions: %d\n", r.sim.CellCount(), r.sim.Divisions())
	msg += fmt.Sprintf("Mean diameter: %.2f\n", r.sim.MeanDiameter())
	if r.stepsRemaining == 0 {
		msg += "Run finished\n"
	}
	ebitenutil.DebugPrint(screen, msg)
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.screenWidth = outsideWidth
	r.screenHeight = outsideHeight
	return r.screenWidth, r.screenHeight
}
