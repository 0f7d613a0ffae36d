package simulation

import (
	"io"
	"log/slog"
	"testing"

	"celldivision-sim/internal/common"
	"celldivision-sim/internal/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulation(t *testing.T, cfg Config) *Simulation {
	t.Helper()
	sim, err := NewSimulation(cfg,
		WithSeed(42),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return sim
}

func TestNewSimulation_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bounds.XMin = 10
	cfg.Bounds.XMax = -10

	_, err := NewSimulation(cfg)
	assert.Error(t, err)
}

func TestAddCell_RejectsDuplicateID(t *testing.T) {
	sim := newTestSimulation(t, DefaultConfig())
	cell := newTestCell(t, common.Vector{0, 0, 0}, 6)

	require.NoError(t, sim.AddCell(cell))
	err := sim.AddCell(cell)
	assert.ErrorContains(t, err, "already exists")
	assert.Equal(t, 1, sim.CellCount())
}

func TestAddCell_RejectsWrongDimension(t *testing.T) {
	sim := newTestSimulation(t, DefaultConfig())
	cell := newTestCell(t, common.Vector{0, 0}, 6)

	err := sim.AddCell(cell)
	assert.ErrorContains(t, err, "3-dimensional")
}

func TestAddRandomCell_SeedsWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	sim := newTestSimulation(t, cfg)

	cell, err := sim.AddRandomCell()
	require.NoError(t, err)

	pos := cell.GetPosition()
	assert.GreaterOrEqual(t, pos[0], cfg.Bounds.XMin)
	assert.LessOrEqual(t, pos[0], cfg.Bounds.XMax)
	assert.GreaterOrEqual(t, pos[1], cfg.Bounds.YMin)
	assert.LessOrEqual(t, pos[1], cfg.Bounds.YMax)
	assert.Equal(t, cfg.ZInit(), pos[2])

	assert.Equal(t, cfg.InitialDiameter, cell.GetDiameter())
	assert.Equal(t, cfg.InitialMass, cell.GetMass())
	assert.Equal(t, cfg.InitialAdherence, cell.GetAdherence())
	assert.True(t, cell.GetCanDivide())
	assert.Len(t, cell.Behaviors(), 1)
}

func TestSeedPopulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumCells = 10
	sim := newTestSimulation(t, cfg)

	require.NoError(t, sim.SeedPopulation())
	assert.Equal(t, 10, sim.CellCount())

	for _, cell := range sim.Cells() {
		_, ok := sim.GetCell(cell.GetID())
		assert.True(t, ok)
	}
}

func TestChangeVolume_DiameterDoesNotDecrease(t *testing.T) {
	cfg := DefaultConfig()
	sim := newTestSimulation(t, cfg)
	cell := newTestCell(t, common.Vector{0, 0, 0}, 6)

	sim.ChangeVolume(cell, cfg.GrowthRate)

	expected := geometry.DiameterFromVolume(geometry.VolumeFromDiameter(6) + cfg.GrowthRate*cfg.TimeStep)
	assert.InDelta(t, expected, cell.GetDiameter(), 1e-12)
	assert.Greater(t, cell.GetDiameter(), 6.0)
}

func TestChangeVolume_IgnoresCollapse(t *testing.T) {
	sim := newTestSimulation(t, DefaultConfig())
	cell := newTestCell(t, common.Vector{0, 0, 0}, 1)

	// A shrink request that would empty the cell leaves the diameter alone.
	sim.ChangeVolume(cell, -1e6)
	assert.Equal(t, 1.0, cell.GetDiameter())
}

func TestDivide_SplitsVolumeAndCopiesFields(t *testing.T) {
	cfg := DefaultConfig()
	sim := newTestSimulation(t, cfg)
	mother := newTestCell(t, common.Vector{1, 2, 3}, 8)
	mother.SetCellColor(4)
	mother.SetMass(0.1)
	mother.SetAdherence(0.0001)
	require.NoError(t, sim.AddCell(mother))

	motherVolume := geometry.VolumeFromDiameter(mother.GetDiameter())
	daughter := sim.Divide(mother)

	assert.Equal(t, 4, daughter.GetCellColor())
	assert.True(t, daughter.GetCanDivide())
	assert.Equal(t, mother.GetMass(), daughter.GetMass())
	assert.Equal(t, mother.GetAdherence(), daughter.GetAdherence())
	assert.NotEqual(t, mother.GetID(), daughter.GetID())

	splitVolume := geometry.VolumeFromDiameter(mother.GetDiameter()) +
		geometry.VolumeFromDiameter(daughter.GetDiameter())
	assert.InDelta(t, motherVolume, splitVolume, 1e-9, "division conserves volume")

	// Mother and daughter end up touching along the division axis.
	dist, err := mother.GetPosition().Distance(daughter.GetPosition())
	require.NoError(t, err)
	expected := mother.GetDiameter()/2 + daughter.GetDiameter()/2
	assert.InDelta(t, expected, dist, 1e-9)

	assert.Equal(t, 1, sim.Divisions())
}

func TestStep_DaughterNotEvaluatedInBirthStep(t *testing.T) {
	cfg := DefaultConfig()
	sim := newTestSimulation(t, cfg)

	mother := newTestCell(t, common.Vector{0, 0, 0}, cfg.GrowthThreshold)
	mother.AddBehavior(NewGrowthDivision(cfg))
	require.NoError(t, sim.AddCell(mother))

	motherVolume := geometry.VolumeFromDiameter(mother.GetDiameter())
	sim.Step()

	require.Equal(t, 2, sim.CellCount())
	var daughter *Cell
	for _, c := range sim.Cells() {
		if c.GetID() != mother.GetID() {
			daughter = c
		}
	}
	require.NotNil(t, daughter)
	require.Len(t, daughter.Behaviors(), 1, "daughter inherits the behavior")

	// If the daughter had been evaluated in its birth step, its growth phase
	// would have added volume and broken conservation.
	splitVolume := geometry.VolumeFromDiameter(mother.GetDiameter()) +
		geometry.VolumeFromDiameter(daughter.GetDiameter())
	assert.InDelta(t, motherVolume, splitVolume, 1e-9)

	// From the next step on the daughter grows like any other cell.
	before := daughter.GetDiameter()
	sim.Step()
	assert.Greater(t, daughter.GetDiameter(), before)
}

func TestRun_SingleCellDividesOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bounds = Bounds{XMin: -75, XMax: 75, YMin: -75, YMax: 75}
	sim := newTestSimulation(t, cfg)

	cell := newTestCell(t, common.Vector{0, 0, 0}, 6)
	cell.SetCellColor(3)
	cell.AddBehavior(NewGrowthDivision(cfg))
	require.NoError(t, sim.AddCell(cell))

	// Growth adds GrowthRate*TimeStep volume per step, so the threshold
	// diameter is crossed after 52 steps and the division happens on the
	// following step. Both halves stay below the threshold well past step 60.
	sim.Run(60)

	require.Equal(t, 2, sim.CellCount())
	for _, c := range sim.Cells() {
		assert.Equal(t, 3, c.GetCellColor())
		assert.True(t, c.GetCanDivide())
		assert.Less(t, c.GetDiameter(), cfg.GrowthThreshold)
	}
	assert.Equal(t, 1, sim.Divisions())
	assert.Equal(t, 60, sim.StepCount())
	assert.InDelta(t, 60*cfg.TimeStep, sim.CurrentTime(), 1e-9)
}

func TestMeanDiameter(t *testing.T) {
	sim := newTestSimulation(t, DefaultConfig())
	assert.Equal(t, 0.0, sim.MeanDiameter())

	require.NoError(t, sim.AddCell(newTestCell(t, common.Vector{0, 0, 0}, 4)))
	require.NoError(t, sim.AddCell(newTestCell(t, common.Vector{1, 1, 1}, 8)))
	assert.InDelta(t, 6.0, sim.MeanDiameter(), 1e-12)
}

func TestReserve(t *testing.T) {
	sim := newTestSimulation(t, DefaultConfig())
	sim.Reserve(100)

	require.NoError(t, sim.AddCell(newTestCell(t, common.Vector{0, 0, 0}, 6)))
	assert.Equal(t, 1, sim.CellCount())
}
