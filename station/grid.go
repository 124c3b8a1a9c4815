package station

import "fmt"

// Grid is the 20-slot view of one pillar with at most one slot selected for detail.
// Slots are only ever replaced wholesale by a fresh fetch.
type Grid struct {
	pillarID string
	slots    []Slot
	selected int
}

func NewGrid(pillarID string, slots []Slot) *Grid {
	g := &Grid{pillarID: pillarID}
	g.replace(slots)
	return g
}

func (g *Grid) replace(slots []Slot) {
	normalized := make([]Slot, SlotsPerPillar)
	for i := range normalized {
		normalized[i] = emptySlot(g.pillarID, i+1)
	}
	for _, s := range slots {
		if s.Number >= 1 && s.Number <= SlotsPerPillar {
			normalized[s.Number-1] = s
		}
	}
	g.slots = normalized
}

func (g *Grid) PillarID() string {
	return g.pillarID
}

// Slots returns a copy ordered by slot number.
func (g *Grid) Slots() []Slot {
	out := make([]Slot, len(g.slots))
	copy(out, g.slots)
	return out
}

func (g *Grid) Slot(number int) (Slot, error) {
	if number < 1 || number > SlotsPerPillar {
		return Slot{}, fmt.Errorf("%w: %d", ErrSlotOutOfRange, number)
	}
	return g.slots[number-1], nil
}

// Rows lays the slots out as rows A-E of four columns each.
func (g *Grid) Rows() [][]Slot {
	slots := g.Slots()
	rows := make([][]Slot, 0, gridRows)
	for r := 0; r < gridRows; r++ {
		rows = append(rows, slots[r*gridColumns:(r+1)*gridColumns])
	}
	return rows
}

// Select marks one slot for detail viewing, replacing any previous selection.
func (g *Grid) Select(number int) (Slot, error) {
	slot, err := g.Slot(number)
	if err != nil {
		return Slot{}, err
	}
	g.selected = number
	return slot, nil
}

// Selected reads the selected slot from the current slots, so it never shows pre-refresh data.
func (g *Grid) Selected() (Slot, bool) {
	if g.selected == 0 {
		return Slot{}, false
	}
	return g.slots[g.selected-1], true
}

func (g *Grid) ClearSelection() {
	g.selected = 0
}

func (g *Grid) Summary() Summary {
	return Summarize(g.slots)
}
