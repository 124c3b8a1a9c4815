package station

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	gridColumns = 4
	gridRows    = SlotsPerPillar / gridColumns

	LockStatusLocked         = "lock"
	BatteryStatusMaintenance = "maintenance"
)

// GridPosition is the printed label of a slot: rows A-E, columns 1-4.
type GridPosition struct {
	Row    int
	Column int
}

func (p GridPosition) Label() string {
	return fmt.Sprintf("%c%d", 'A'+rune(p.Row), p.Column)
}

// PositionOf maps slot numbers 1..20 onto the 5x4 grid.
func PositionOf(slotNumber int) GridPosition {
	return GridPosition{
		Row:    (slotNumber - 1) / gridColumns,
		Column: (slotNumber-1)%gridColumns + 1,
	}
}

// ParseSlot accepts a slot number ("7") or a grid label ("B3").
func ParseSlot(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty slot", ErrSlotOutOfRange)
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > SlotsPerPillar {
			return 0, fmt.Errorf("%w: %d", ErrSlotOutOfRange, n)
		}
		return n, nil
	}
	row := int(s[0] - 'A')
	col, err := strconv.Atoi(s[1:])
	if err != nil || row < 0 || row >= gridRows || col < 1 || col > gridColumns {
		return 0, fmt.Errorf("%w: %q", ErrSlotOutOfRange, s)
	}
	return row*gridColumns + col, nil
}

type Slot struct {
	PillarID      string       `json:"pillarId"`
	Number        int          `json:"slotNumber"`
	Position      GridPosition `json:"-"`
	SlotID        string       `json:"slotId,omitempty"`
	BatteryCode   string       `json:"batteryCode,omitempty"`
	StateOfCharge *int         `json:"stateOfCharge"`
	StateOfHealth *int         `json:"stateOfHealth"`
	BatteryStatus string       `json:"batteryStatus,omitempty"`
	LockStatus    string       `json:"pillarLockStatus,omitempty"`
	IsLocked      bool         `json:"isLocked"`
	IsEmpty       bool         `json:"isEmpty"`
}

func emptySlot(pillarID string, number int) Slot {
	return Slot{
		PillarID: pillarID,
		Number:   number,
		Position: PositionOf(number),
		IsEmpty:  true,
	}
}

func (s Slot) Label() string {
	return s.Position.Label()
}

// CanDock reports whether a warehouse battery may be inserted.
func (s Slot) CanDock() bool {
	return s.IsEmpty && !s.IsLocked
}

// CanUndock reports whether the battery may be taken out. Locks do not block undocking.
func (s Slot) CanUndock() bool {
	return !s.IsEmpty
}

func (s Slot) InMaintenance() bool {
	return strings.EqualFold(s.BatteryStatus, BatteryStatusMaintenance)
}
