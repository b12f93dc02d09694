package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// CircuitMatrix is a complex MNA system backed by a sparse matrix.
// RHS and solution vectors interleave real and imaginary parts: x[2i], x[2i+1].
type CircuitMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
}

var _ DeviceMatrix = (*CircuitMatrix)(nil)

func NewMatrix(size int) (*CircuitMatrix, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               true, // elements are re-added after Factor reorders the matrix
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	vectorSize := 2 * (size + 1) // 1-based indexing, interleaved complex

	return &CircuitMatrix{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, vectorSize),
		solution: make([]float64, vectorSize),
		config:   config,
	}, nil
}

// SetupElements allocates every element so the structure is fixed before factoring.
func (m *CircuitMatrix) SetupElements() {
	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			m.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (m *CircuitMatrix) AddComplexElement(i, j int, real, imag float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		panic(fmt.Sprintf("matrix index out of bounds (i=%d, j=%d, size=%d)", i, j, m.Size))
	}

	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real
	element.Imag += imag
}

func (m *CircuitMatrix) AddComplexRHS(i int, real, imag float64) {
	if i <= 0 || i > m.Size {
		panic(fmt.Sprintf("RHS index out of bounds (i=%d, size=%d)", i, m.Size))
	}

	m.rhs[2*i] += real
	m.rhs[2*i+1] += imag
}

func (m *CircuitMatrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

func (m *CircuitMatrix) Solve() error {
	var err error

	err = m.matrix.Factor()
	if err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}

	m.solution, _, err = m.matrix.SolveComplex(m.rhs, nil)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}

	return nil
}

// Solution returns the phasor of unknown i (1-based).
func (m *CircuitMatrix) Solution(i int) complex128 {
	if i <= 0 || i > m.Size {
		return 0
	}
	return complex(m.solution[2*i], m.solution[2*i+1])
}

func (m *CircuitMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}
