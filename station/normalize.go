package station

import (
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// Candidate field names, most specific first. Endpoints name the same thing differently.
var (
	pillarIDKeys    = []string{"pillarId", "pillarID", "pillar_id", "id", "_id"}
	pillarNameKeys  = []string{"pillarName", "displayName", "name", "pillarCode"}
	pillarTotalKeys = []string{"totalSlots", "slotCount", "totalSlot", "total_slots"}
	emptyKeys       = []string{"emptySlots", "empty", "emptyCount"}
	fullKeys        = []string{"fullSlots", "full", "green"}
	chargingKeys    = []string{"chargingSlots", "charging", "amber"}
	lowKeys         = []string{"lowSlots", "low", "red"}

	slotNumberKeys    = []string{"slotNumber", "slotNo", "slot_number", "number", "position"}
	slotIDKeys        = []string{"pillarSlotId", "slotId", "pillarSlotID", "id", "_id"}
	batteryCodeKeys   = []string{"batteryCode", "batteryId", "batteryID", "battery_code", "battery_id"}
	socKeys           = []string{"stateOfCharge", "soc", "currentCharge", "chargeLevel"}
	sohKeys           = []string{"stateOfHealth", "soh", "health"}
	batteryStatusKeys = []string{"batteryStatus", "status"}
	lockStatusKeys    = []string{"pillarLockStatus", "lockStatus", "pillarStatus"}

	warehouseIDKeys     = []string{"batteryId", "batteryID", "battery_id", "batteryCode", "id", "_id"}
	capacityKeys        = []string{"capacity", "capacityKwh", "nominalCapacity"}
	warehouseStatusKeys = []string{"status", "batteryStatus"}
	stationIDKeys       = []string{"stationId", "stationID", "station_id"}
	stationNameKeys     = []string{"stationName", "station_name"}

	heldBatteryKeys = []string{"batteryIds", "batteries", "batteryIdList", "heldBatteries"}
)

// NormalizePillars never fails: records without an identifier are dropped.
func NormalizePillars(payload any) []Pillar {
	records := asRecords(payload, "data", "pillars")
	pillars := make([]Pillar, 0, len(records))
	for _, r := range records {
		id := r.str(pillarIDKeys...)
		if id == "" {
			log.Warnf("dropping pillar record without identifier: %v", map[string]any(r))
			continue
		}

		total := SlotsPerPillar
		if n, ok := r.number(pillarTotalKeys...); ok && n > 0 {
			total = int(math.Round(n))
		}

		name := r.str(pillarNameKeys...)
		if name == "" {
			name = id
		}

		summarySource := r
		if nested, ok := r.nested("summary"); ok {
			summarySource = nested
		}

		pillars = append(pillars, Pillar{
			ID:          id,
			DisplayName: name,
			TotalSlots:  total,
			Summary: Summary{
				Empty:    count(summarySource.first(emptyKeys...)),
				Full:     count(summarySource.first(fullKeys...)),
				Charging: count(summarySource.first(chargingKeys...)),
				Low:      count(summarySource.first(lowKeys...)),
			},
		})
	}
	return pillars
}

// NormalizeSlots always returns SlotsPerPillar entries ordered by slot number.
// Records with a missing or out-of-range slot number are skipped.
func NormalizeSlots(payload any, pillarID string) []Slot {
	slots := make([]Slot, SlotsPerPillar)
	for i := range slots {
		slots[i] = emptySlot(pillarID, i+1)
	}

	for _, r := range asRecords(payload, "data", "slots") {
		raw, ok := r.number(slotNumberKeys...)
		if !ok {
			log.Debugf("pillar %s: skipping slot record without slot number", pillarID)
			continue
		}
		number := int(math.Trunc(raw))
		if number < 1 || number > SlotsPerPillar {
			log.Debugf("pillar %s: skipping slot number %v", pillarID, raw)
			continue
		}

		slot := emptySlot(pillarID, number)
		slot.SlotID = r.str(slotIDKeys...)
		slot.BatteryCode = r.str(batteryCodeKeys...)
		slot.BatteryStatus = r.str(batteryStatusKeys...)
		slot.LockStatus = r.str(lockStatusKeys...)
		slot.IsLocked = strings.ToLower(slot.LockStatus) == LockStatusLocked
		slot.IsEmpty = slot.BatteryCode == ""
		if !slot.IsEmpty {
			slot.StateOfCharge = percent(r.first(socKeys...))
			slot.StateOfHealth = percent(r.first(sohKeys...))
		}
		slots[number-1] = slot
	}
	return slots
}

type WarehouseBattery struct {
	BatteryID     string  `json:"batteryId"`
	StateOfHealth *int    `json:"stateOfHealth"`
	StateOfCharge *int    `json:"stateOfCharge"`
	Capacity      float64 `json:"capacity"`
	Status        string  `json:"status"`
	StationID     string  `json:"stationId"`
	StationName   string  `json:"stationName,omitempty"`
}

// StatusWarehouse is the only status eligible for docking. Any other value, known or not, is not.
const StatusWarehouse = "warehouse"

func isWarehouseStatus(status string) bool {
	return strings.EqualFold(status, StatusWarehouse)
}

// NormalizeWarehouse keeps warehouse-status batteries only, best state of health first.
func NormalizeWarehouse(payload any) []WarehouseBattery {
	records := asRecords(payload, "data", "batteries")
	batteries := make([]WarehouseBattery, 0, len(records))
	for _, r := range records {
		status := r.str(warehouseStatusKeys...)
		if status == "" {
			status = StatusWarehouse
		}
		if !isWarehouseStatus(status) {
			continue
		}

		id := r.str(warehouseIDKeys...)
		if id == "" {
			log.Warnf("dropping warehouse record without battery id: %v", map[string]any(r))
			continue
		}

		capacity, _ := r.number(capacityKeys...)
		batteries = append(batteries, WarehouseBattery{
			BatteryID:     id,
			StateOfHealth: percent(r.first(sohKeys...)),
			StateOfCharge: percent(r.first(socKeys...)),
			Capacity:      capacity,
			Status:        status,
			StationID:     r.str(stationIDKeys...),
			StationName:   r.str(stationNameKeys...),
		})
	}

	sort.SliceStable(batteries, func(i, j int) bool {
		return valueOrZero(batteries[i].StateOfHealth) > valueOrZero(batteries[j].StateOfHealth)
	})
	return batteries
}

// SubscriptionBatteries is the station-side view of a subscription.
type SubscriptionBatteries struct {
	StationID  string
	BatteryIDs []string
}

// NormalizeSubscriptionBatteries reads {stationId, batteryIds} either bare or under "data".
// Battery entries may be plain ids or objects carrying one.
func NormalizeSubscriptionBatteries(payload any) SubscriptionBatteries {
	r := asRecord(payload, "data")
	result := SubscriptionBatteries{
		StationID:  r.str(stationIDKeys...),
		BatteryIDs: []string{},
	}

	raw, _ := r.first(heldBatteryKeys...)
	list, _ := raw.([]any)
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		id := toString(item)
		if m, ok := item.(map[string]any); ok {
			id = record(m).str(warehouseIDKeys...)
		}
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result.BatteryIDs = append(result.BatteryIDs, id)
	}
	return result
}

func valueOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
