package station

// SlotsPerPillar is the fixed slot count of a physical pillar.
const SlotsPerPillar = 20

// Summary counts the slots of a pillar per display state.
type Summary struct {
	Empty    int `json:"empty"`
	Full     int `json:"full"`
	Charging int `json:"charging"`
	Low      int `json:"low"`
}

func (s Summary) Occupied() int {
	return s.Full + s.Charging + s.Low
}

func (s Summary) IsZero() bool {
	return s == Summary{}
}

type Pillar struct {
	ID          string  `json:"pillarId"`
	DisplayName string  `json:"displayName"`
	TotalSlots  int     `json:"totalSlots"`
	Summary     Summary `json:"summary"`
}

const (
	// FullThreshold and LowThreshold split occupied slots by state of charge.
	FullThreshold = 80
	LowThreshold  = 30
)

// Summarize derives the display counts from a slot grid.
// Occupied slots with an unknown charge count as low.
func Summarize(slots []Slot) Summary {
	var s Summary
	for _, slot := range slots {
		switch {
		case slot.IsEmpty:
			s.Empty++
		case slot.StateOfCharge == nil || *slot.StateOfCharge < LowThreshold:
			s.Low++
		case *slot.StateOfCharge >= FullThreshold:
			s.Full++
		default:
			s.Charging++
		}
	}
	return s
}
