package simulation

// Environment exposes the engine primitives a behavior may request from its
// host: volume growth and cell division. The Simulation implements it.
type Environment interface {
	// ChangeVolume requests a volume change for the cell at the given rate,
	// in volume units per unit time. The engine owns the mapping from volume
	// to diameter.
	ChangeVolume(c *Cell, rate float64)
	// Divide splits the cell, registers the daughter for the next step and
	// returns it.
	Divide(c *Cell) *Cell
}

// Behavior is a per-step procedure attached to a cell. It may mutate its own
// cell and create new cells through the environment, but never touches other
// cells.
type Behavior interface {
	Run(c *Cell, env Environment)
}

// GrowthDivision grows a cell until it reaches a threshold diameter, then
// divides it, and finally confines the cell to the configured rectangle in
// the x/y plane. It is stateless: each step is a function of the cell's
// current state only.
type GrowthDivision struct {
	threshold float64
	rate      float64
	margin    float64
	bounds    Bounds
}

// NewGrowthDivision creates the behavior from the run configuration.
func NewGrowthDivision(cfg Config) *GrowthDivision {
	return &GrowthDivision{
		threshold: cfg.GrowthThreshold,
		rate:      cfg.GrowthRate,
		margin:    cfg.BoundaryMargin,
		bounds:    cfg.Bounds,
	}
}

// Run executes one step of the behavior.
func (g *GrowthDivision) Run(cell *Cell, env Environment) {
	if cell.GetDiameter() < g.threshold {
		env.ChangeVolume(cell, g.rate)
	} else {
		if cell.GetCanDivide() {
			daughter := env.Divide(cell)

			// daughter takes the color value of her mother
			daughter.SetCellColor(cell.GetCellColor())
			daughter.SetCanDivide(true) // the daughter will be able to divide
		}
	}

	// bound cells to the x/y range of the rectangle
	coord := cell.GetPosition()
	updatePosition := false
	// check for x
	if coord[0] > g.bounds.XMax-g.margin { // if too far in x
		coord[0] = g.bounds.XMax - g.margin // reset position to valid value
		updatePosition = true
	} else if coord[0] < g.bounds.XMin+g.margin { // if too far in -x
		// low side snaps to just past the far x edge
		coord[0] = g.bounds.XMax + g.margin
		updatePosition = true
	}
	// check for y
	if coord[1] > g.bounds.YMax-g.margin { // if too far in y
		coord[1] = g.bounds.YMax - g.margin // reset position to valid value
		updatePosition = true
	} else if coord[1] < g.bounds.YMin+g.margin { // if too far in -y
		// low side snaps to just past the far x edge, same as the x branch
		coord[1] = g.bounds.XMax + g.margin
		updatePosition = true
	}
	if updatePosition {
		// SetPosition only fails on dimension mismatch, which cannot happen
		// for an in-place edit of the cell's own coordinates.
		_ = cell.SetPosition(coord)
	}
}
