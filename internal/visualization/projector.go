package visualization

import (
	"fmt"

	"celldivision-sim/internal/common"
	"celldivision-sim/internal/simulation"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projector maps the 3D cell positions to the 2D screen plane.
type Projector interface {
	// Project returns a map from cell ID to its 2D position.
	Project(cells []*simulation.Cell) (map[string]common.Vector, error)
}

// PCAProjector uses Principal Component Analysis to project the cell layer
// to the 2D plane of greatest variance. For a flat layer seeded at a fixed z
// this recovers the x/y plane up to rotation.
type PCAProjector struct {
	targetDimension int
}

// NewPCAProjector creates a new PCA projector targeting 2D.
func NewPCAProjector() *PCAProjector {
	return &PCAProjector{targetDimension: 2}
}

// Project performs PCA on the positions of the given cells.
func (p *PCAProjector) Project(cells []*simulation.Cell) (map[string]common.Vector, error) {
	if len(cells) == 0 {
		return make(map[string]common.Vector), nil
	}

	sourceDim := cells[0].GetPosition().Dimension()
	if sourceDim < p.targetDimension {
		return nil, fmt.Errorf("source dimension (%d) is less than target dimension (%d)", sourceDim, p.targetDimension)
	}

	numSamples := len(cells)
	data := make([]float64, numSamples*sourceDim)
	cellIDs := make([]string, numSamples)
	for i, c := range cells {
		pos := c.GetPosition()
		cellIDs[i] = c.GetID()
		for j := 0; j < sourceDim; j++ {
			data[i*sourceDim+j] = pos[j]
		}
	}

	// Samples as rows, coordinates as columns.
	matrix := mat.NewDense(numSamples, sourceDim, data)

	var pc stat.PC
	if ok := pc.PrincipalComponents(matrix, nil); !ok {
		return nil, fmt.Errorf("PCA computation failed")
	}

	k := p.targetDimension
	var vec mat.Dense
	var reduced mat.Dense
	pc.VectorsTo(&vec)
	reduced.Mul(matrix, vec.Slice(0, sourceDim, 0, k))

	projected := make(map[string]common.Vector, numSamples)
	for i := 0; i < numSamples; i++ {
		pos2D := common.NewVector(p.targetDimension)
		for j := 0; j < p.targetDimension; j++ {
			pos2D[j] = reduced.At(i, j)
		}
		projected[cellIDs[i]] = pos2D
	}
	return projected, nil
}

// PlanarProjector drops the z coordinate, showing the cell layer in the x/y
// plane the containment rectangle lives in.
type PlanarProjector struct{}

// Project returns the x/y components of each cell position.
func (PlanarProjector) Project(cells []*simulation.Cell) (map[string]common.Vector, error) {
	projected := make(map[string]common.Vector, len(cells))
	for _, c := range cells {
		pos := c.GetPosition()
		if pos.Dimension() < 2 {
			return nil, fmt.Errorf("cell %s position has dimension %d, need at least 2", c.GetID(), pos.Dimension())
		}
		projected[c.GetID()] = common.Vector{pos[0], pos[1]}
	}
	return projected, nil
}
