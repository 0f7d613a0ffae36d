package simulation

import (
	"fmt"

	"celldivision-sim/internal/common"

	"github.com/google/uuid"
)

// Cell represents a single biological cell in the simulation. It carries the
// mechanical state consumed by the engine (position, diameter, mass,
// adherence) plus two custom fields: a color tag used for downstream
// visualization and classification, and a flag controlling whether the cell
// may divide. Behaviors attached to the cell are invoked once per step.
type Cell struct {
	id        string
	position  common.Vector
	diameter  float64
	mass      float64
	adherence float64
	color     int
	canDivide bool
	behaviors []Behavior
}

// NewCell creates a cell at a given position. New cells default to color 0
// and are allowed to divide.
func NewCell(pos common.Vector) *Cell {
	return &Cell{
		id:        fmt.Sprintf("cell-%s", uuid.NewString()[:8]),
		position:  pos.Clone(),
		color:     0,
		canDivide: true,
	}
}

// deriveDaughter builds the daughter record for a division event. The color
// tag and division flag are copied from the mother at the moment of division;
// geometric state starts as a copy and is reshaped by the engine's division
// rule afterwards.
func deriveDaughter(mother *Cell) *Cell {
	daughter := NewCell(mother.position)
	daughter.diameter = mother.diameter
	daughter.mass = mother.mass
	daughter.adherence = mother.adherence
	daughter.color = mother.color
	daughter.canDivide = mother.canDivide
	// Behaviors carry over so the daughter follows its own growth trajectory
	// from its first scheduled step. GrowthDivision is stateless, so sharing
	// instances is safe.
	daughter.behaviors = append([]Behavior(nil), mother.behaviors...)
	return daughter
}

// GetID returns the unique identifier of the cell.
func (c *Cell) GetID() string {
	return c.id
}

// GetPosition returns the current position of the cell.
func (c *Cell) GetPosition() common.Vector {
	// Return a clone to prevent modification of the internal state
	return c.position.Clone()
}

// SetPosition sets the position of the cell.
func (c *Cell) SetPosition(pos common.Vector) error {
	if pos.Dimension() != c.position.Dimension() {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", c.position.Dimension(), pos.Dimension())
	}
	c.position = pos.Clone()
	return nil
}

// GetDiameter returns the current diameter of the cell.
func (c *Cell) GetDiameter() float64 {
	return c.diameter
}

// SetDiameter sets the diameter of the cell. The diameter must stay positive.
func (c *Cell) SetDiameter(d float64) error {
	if d <= 0 {
		return fmt.Errorf("diameter must be positive, got %g", d)
	}
	c.diameter = d
	return nil
}

// GetMass returns the mass of the cell.
func (c *Cell) GetMass() float64 {
	return c.mass
}

// SetMass sets the mass of the cell.
func (c *Cell) SetMass(m float64) {
	c.mass = m
}

// GetAdherence returns the adherence coefficient of the cell.
func (c *Cell) GetAdherence() float64 {
	return c.adherence
}

// SetAdherence sets the adherence coefficient of the cell.
func (c *Cell) SetAdherence(a float64) {
	c.adherence = a
}

// GetCellColor returns the color tag of the cell.
func (c *Cell) GetCellColor() int {
	return c.color
}

// SetCellColor sets the color tag of the cell.
func (c *Cell) SetCellColor(color int) {
	c.color = color
}

// GetCanDivide reports whether the cell is allowed to divide.
func (c *Cell) GetCanDivide() bool {
	return c.canDivide
}

// SetCanDivide sets whether the cell is allowed to divide.
func (c *Cell) SetCanDivide(d bool) {
	c.canDivide = d
}

// AddBehavior attaches a behavior to the cell. Behaviors run in attachment
// order, once per step.
func (c *Cell) AddBehavior(b Behavior) {
	c.behaviors = append(c.behaviors, b)
}

// Behaviors returns the behaviors attached to the cell.
func (c *Cell) Behaviors() []Behavior {
	return c.behaviors
}

// String representation for logging
func (c *Cell) String() string {
	return fmt.Sprintf("Cell[%s] Pos: %s Diameter: %.2f Color: %d CanDivide: %t",
		c.id, c.position, c.diameter, c.color, c.canDivide)
}
