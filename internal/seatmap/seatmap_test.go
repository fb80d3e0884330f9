package seatmap

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewMarksReservedCells(t *testing.T) {
    m := New(3, 4, []Coord{{Row: 0, Col: 1}, {Row: 2, Col: 3}})
    assert.Equal(t, Reserved, m.At(0, 1))
    assert.Equal(t, Reserved, m.At(2, 3))
    assert.Equal(t, Available, m.At(1, 1))
}

func TestNewIgnoresOutOfGridReserved(t *testing.T) {
    m := New(2, 2, []Coord{{Row: 5, Col: 5}})
    assert.Equal(t, uint32(0), m.PickedCount())
    assert.Equal(t, Available, m.At(0, 0))
}

func TestTogglePickAndUnpick(t *testing.T) {
    m := New(2, 2, nil)
    m.Toggle(0, 0, 2)
    assert.Equal(t, Picked, m.At(0, 0))
    m.Toggle(0, 0, 2)
    assert.Equal(t, Available, m.At(0, 0))
}

func TestToggleRespectsMaxPicked(t *testing.T) {
    m := New(2, 2, nil)
    m.Toggle(0, 0, 1)
    m.Toggle(0, 1, 1) // bound reached, ignored
    assert.Equal(t, Picked, m.At(0, 0))
    assert.Equal(t, Available, m.At(0, 1))
    assert.Equal(t, uint32(1), m.PickedCount())
}

func TestToggleReservedIsNoOp(t *testing.T) {
    m := New(2, 2, []Coord{{Row: 1, Col: 1}})
    m.Toggle(1, 1, 4)
    assert.Equal(t, Reserved, m.At(1, 1))
}

func TestToggleOutOfGridIsNoOp(t *testing.T) {
    m := New(2, 2, nil)
    m.Toggle(9, 9, 4)
    assert.Equal(t, uint32(0), m.PickedCount())
}

func TestPickedReturnsRowMajorCoords(t *testing.T) {
    m := New(3, 3, nil)
    m.Toggle(2, 0, 3)
    m.Toggle(0, 1, 3)
    assert.Equal(t, []Coord{{Row: 0, Col: 1}, {Row: 2, Col: 0}}, m.Picked())
}

func TestShrunkBoundDoesNotEvictPicks(t *testing.T) {
    // Lowering the quantity after picking keeps the picks; the session only
    // refuses new picks and fails validation until the user deselects.
    s := NewSession(New(2, 3, nil))
    s.SetQuantity(1, 2)
    s.Toggle(0, 0)
    s.Toggle(0, 1)
    require.Equal(t, uint32(2), s.Map.PickedCount())

    s.SetQuantity(1, 1)
    assert.Equal(t, uint32(2), s.Map.PickedCount(), "existing picks survive the shrink")
    s.Toggle(1, 0)
    assert.Equal(t, Available, s.Map.At(1, 0), "no new picks above the bound")
    assert.ErrorIs(t, s.Validate(), ErrPickMismatch)

    s.Toggle(0, 1) // deselect down to the bound
    assert.NoError(t, s.Validate())
}

func TestSessionValidate(t *testing.T) {
    s := NewSession(New(2, 2, nil))
    s.SetQuantity(7, 2)
    require.ErrorIs(t, s.Validate(), ErrPickMismatch)

    s.Toggle(0, 0)
    s.Toggle(1, 1)
    assert.NoError(t, s.Validate())
    assert.Equal(t, uint32(2), s.TotalQuantity())
}

func TestSessionSetQuantityZeroRemoves(t *testing.T) {
    s := NewSession(New(1, 1, nil))
    s.SetQuantity(3, 2)
    s.SetQuantity(3, 0)
    assert.Empty(t, s.Quantities())
    assert.Equal(t, uint32(0), s.TotalQuantity())
}
