// Package seatmap implements the in-memory seat grid a client walks through
// before checkout: which cells are already reserved, which the user has
// picked, and how many picks the chosen ticket quantities allow.  It is a
// pure data structure with no persistence or concurrency concerns; its only
// job is to hand the reservation engine a finalized set of coordinates.
package seatmap

// Status is the selection state of a single seat cell.
type Status uint8

const (
    // Available means the cell can be picked.
    Available Status = iota
    // Picked means the user has selected the cell in this session.
    Picked
    // Reserved means another order already holds the cell.
    Reserved
)

// Coord identifies a seat cell.  Coordinates are 0-indexed, matching what
// clients render; the storage layer is 1-indexed and the API boundary
// translates.
type Coord struct {
    Row uint32 `json:"row"`
    Col uint32 `json:"col"`
}

// Map is a rows × cols grid of seat cells.
type Map struct {
    rows, cols uint32
    cells      []Status // row-major
}

// New builds a grid where every cell listed in reserved is marked Reserved
// and all others Available.  Reserved coordinates outside the grid are
// ignored.
func New(rows, cols uint32, reserved []Coord) *Map {
    m := &Map{
        rows:  rows,
        cols:  cols,
        cells: make([]Status, int(rows)*int(cols)),
    }
    for _, c := range reserved {
        if c.Row < rows && c.Col < cols {
            m.cells[c.Row*cols+c.Col] = Reserved
        }
    }
    return m
}

// Rows returns the number of rows in the grid.
func (m *Map) Rows() uint32 { return m.rows }

// Cols returns the number of columns in the grid.
func (m *Map) Cols() uint32 { return m.cols }

// At returns the status of the given cell.  Out-of-grid coordinates read
// as Reserved so callers cannot pick them.
func (m *Map) At(row, col uint32) Status {
    if row >= m.rows || col >= m.cols {
        return Reserved
    }
    return m.cells[row*m.cols+col]
}

// Toggle flips a cell between Available and Picked.  An Available cell is
// picked only while fewer than maxPicked cells are currently picked; a
// Picked cell always returns to Available; a Reserved cell is left alone.
// The call never errors; reserved and out-of-bound cells are simply
// ignored, matching a tolerant UI contract.
func (m *Map) Toggle(row, col, maxPicked uint32) {
    if row >= m.rows || col >= m.cols {
        return
    }
    i := row*m.cols + col
    switch m.cells[i] {
    case Picked:
        m.cells[i] = Available
    case Available:
        if m.PickedCount() < maxPicked {
            m.cells[i] = Picked
        }
    }
}

// PickedCount returns how many cells are currently picked.
func (m *Map) PickedCount() uint32 {
    var n uint32
    for _, s := range m.cells {
        if s == Picked {
            n++
        }
    }
    return n
}

// Picked returns the coordinates of all picked cells in row-major order.
func (m *Map) Picked() []Coord {
    out := make([]Coord, 0, m.PickedCount())
    for r := uint32(0); r < m.rows; r++ {
        for c := uint32(0); c < m.cols; c++ {
            if m.cells[r*m.cols+c] == Picked {
                out = append(out, Coord{Row: r, Col: c})
            }
        }
    }
    return out
}
