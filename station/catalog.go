package station

import (
	"sort"
	"strings"
)

// Filter narrows the warehouse list. Empty fields do not filter.
type Filter struct {
	StationID  string
	SearchText string
}

// FilterBatteries keeps batteries of Filter.StationID whose id, status, station id or
// station name contains the search text, case-insensitively.
func FilterBatteries(list []WarehouseBattery, f Filter) []WarehouseBattery {
	query := strings.ToLower(strings.TrimSpace(f.SearchText))
	out := make([]WarehouseBattery, 0, len(list))
	for _, b := range list {
		if f.StationID != "" && b.StationID != f.StationID {
			continue
		}
		if query != "" && !matchesSearch(b, query) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesSearch(b WarehouseBattery, query string) bool {
	for _, field := range []string{b.BatteryID, b.Status, b.StationID, b.StationName} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// TotalPages is never less than one.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= pageSize {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page of list. Pages past either end are empty.
func Paginate(list []WarehouseBattery, page, pageSize int) []WarehouseBattery {
	if pageSize <= 0 {
		if page == 1 {
			return list
		}
		return nil
	}
	start := (page - 1) * pageSize
	if page < 1 || start >= len(list) {
		return nil
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// FindDockable looks batteryID up in list. Only warehouse-status batteries are returned.
func FindDockable(list []WarehouseBattery, batteryID string) (WarehouseBattery, bool) {
	for _, b := range list {
		if b.BatteryID == batteryID && isWarehouseStatus(b.Status) {
			return b, true
		}
	}
	return WarehouseBattery{}, false
}

// PickerCandidates lists batteries a manual-assist operator may hand out:
// warehouse status, at least minSoC charged, highest charge first.
func PickerCandidates(list []WarehouseBattery, minSoC int) []WarehouseBattery {
	out := make([]WarehouseBattery, 0, len(list))
	for _, b := range list {
		if !isWarehouseStatus(b.Status) || b.StateOfCharge == nil || *b.StateOfCharge < minSoC {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].StateOfCharge > *out[j].StateOfCharge
	})
	return out
}

// Catalog is the paginated, filterable warehouse view with a selection that
// survives page navigation.
type Catalog struct {
	all      []WarehouseBattery
	filter   Filter
	page     int
	pageSize int
	selected map[string]struct{}
}

func NewCatalog(list []WarehouseBattery, pageSize int) *Catalog {
	return &Catalog{
		all:      list,
		page:     1,
		pageSize: pageSize,
		selected: map[string]struct{}{},
	}
}

// Replace swaps in a fresh fetch. Selected ids that disappeared are dropped.
func (c *Catalog) Replace(list []WarehouseBattery) {
	c.all = list
	present := make(map[string]struct{}, len(list))
	for _, b := range list {
		present[b.BatteryID] = struct{}{}
	}
	for id := range c.selected {
		if _, ok := present[id]; !ok {
			delete(c.selected, id)
		}
	}
	if c.page > c.TotalPages() {
		c.page = c.TotalPages()
	}
}

func (c *Catalog) All() []WarehouseBattery {
	return c.all
}

func (c *Catalog) Filter() Filter {
	return c.filter
}

// SetFilter applies a new filter and returns to the first page.
func (c *Catalog) SetFilter(f Filter) {
	c.filter = f
	c.page = 1
}

func (c *Catalog) SetStationFilter(stationID string) {
	c.SetFilter(Filter{StationID: stationID, SearchText: c.filter.SearchText})
}

func (c *Catalog) SetSearch(text string) {
	c.SetFilter(Filter{StationID: c.filter.StationID, SearchText: text})
}

func (c *Catalog) Filtered() []WarehouseBattery {
	return FilterBatteries(c.all, c.filter)
}

func (c *Catalog) Page() int {
	return c.page
}

func (c *Catalog) PageSize() int {
	return c.pageSize
}

func (c *Catalog) TotalPages() int {
	return TotalPages(len(c.Filtered()), c.pageSize)
}

func (c *Catalog) CurrentPage() []WarehouseBattery {
	return Paginate(c.Filtered(), c.page, c.pageSize)
}

func (c *Catalog) HasNext() bool {
	return c.page < c.TotalPages()
}

func (c *Catalog) HasPrev() bool {
	return c.page > 1
}

// NextPage and PrevPage do nothing at the bounds and report whether they moved.
func (c *Catalog) NextPage() bool {
	if !c.HasNext() {
		return false
	}
	c.page++
	return true
}

func (c *Catalog) PrevPage() bool {
	if !c.HasPrev() {
		return false
	}
	c.page--
	return true
}

// GoTo moves to page, clamped to the available pages.
func (c *Catalog) GoTo(page int) {
	switch total := c.TotalPages(); {
	case page < 1:
		c.page = 1
	case page > total:
		c.page = total
	default:
		c.page = page
	}
}

func (c *Catalog) Toggle(batteryID string) bool {
	if _, ok := c.selected[batteryID]; ok {
		delete(c.selected, batteryID)
		return false
	}
	c.selected[batteryID] = struct{}{}
	return true
}

func (c *Catalog) Select(batteryIDs ...string) {
	for _, id := range batteryIDs {
		c.selected[id] = struct{}{}
	}
}

func (c *Catalog) SelectPage() {
	for _, b := range c.CurrentPage() {
		c.selected[b.BatteryID] = struct{}{}
	}
}

func (c *Catalog) SelectFiltered() {
	for _, b := range c.Filtered() {
		c.selected[b.BatteryID] = struct{}{}
	}
}

func (c *Catalog) ClearSelection() {
	c.selected = map[string]struct{}{}
}

func (c *Catalog) IsSelected(batteryID string) bool {
	_, ok := c.selected[batteryID]
	return ok
}

// Selected returns the selected ids in catalog order.
func (c *Catalog) Selected() []string {
	out := make([]string, 0, len(c.selected))
	for _, b := range c.all {
		if _, ok := c.selected[b.BatteryID]; ok {
			out = append(out, b.BatteryID)
		}
	}
	return out
}

// TransferPlan is a validated station-to-station move.
type TransferPlan struct {
	FromStationID string
	ToStationID   string
	BatteryIDs    []string
}

// PlanTransfer validates a bulk move of the selection to destination. The selected batteries
// must share one station, which must equal the station filter when one is set.
func (c *Catalog) PlanTransfer(destination string) (TransferPlan, error) {
	if destination == "" {
		return TransferPlan{}, ErrNoDestination
	}
	ids := c.Selected()
	if len(ids) == 0 {
		return TransferPlan{}, ErrEmptySelection
	}

	stations := map[string]struct{}{}
	for _, b := range c.all {
		if c.IsSelected(b.BatteryID) {
			stations[b.StationID] = struct{}{}
		}
	}
	if len(stations) > 1 {
		return TransferPlan{}, ErrMixedSourceStation
	}

	// The selection outlives filter changes, so a filtered source must still match every battery.
	source := c.filter.StationID
	for s := range stations {
		if source != "" && s != source {
			return TransferPlan{}, ErrMixedSourceStation
		}
		source = s
	}
	if source == "" {
		return TransferPlan{}, ErrUnknownSource
	}
	if source == destination {
		return TransferPlan{}, ErrSameStation
	}

	return TransferPlan{
		FromStationID: source,
		ToStationID:   destination,
		BatteryIDs:    ids,
	}, nil
}
