package station

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

// Session carries the operator identifiers every call is made on behalf of.
type Session struct {
	UserID    string
	StaffID   string
	StationID string
}

// Source is the read side of the battery-ledger backend. Payloads are returned as decoded
// JSON and shaped by the normalizers here.
type Source interface {
	GetPillars(ctx context.Context, userID string) (any, error)
	GetPillarSlots(ctx context.Context, pillarID string) (any, error)
	GetWarehouseInventory(ctx context.Context, staffID string) (any, error)
}

const overviewConcurrency = 4

// Console is one operator's snapshot of a station: the pillar list (cached for the
// session) and the grid of the pillar currently open.
type Console struct {
	source  Source
	session Session
	pillars *cache.Cache

	mu         sync.Mutex
	grid       *Grid
	generation uint64
}

func NewConsole(source Source, session Session, pillarTTL time.Duration) *Console {
	return &Console{
		source:  source,
		session: session,
		pillars: cache.New(pillarTTL, 2*pillarTTL),
	}
}

func (c *Console) Session() Session {
	return c.session
}

// Pillars returns the cached pillar list, fetching it when missing, expired or refresh is set.
func (c *Console) Pillars(ctx context.Context, refresh bool) ([]Pillar, error) {
	key := c.session.UserID
	if !refresh {
		if cached, found := c.pillars.Get(key); found {
			return cached.([]Pillar), nil
		}
	}

	payload, err := c.source.GetPillars(ctx, c.session.UserID)
	if err != nil {
		return nil, err
	}
	pillars := NormalizePillars(payload)
	c.pillars.SetDefault(key, pillars)
	log.Debugf("loaded %d pillars for user %s", len(pillars), key)
	return pillars, nil
}

// Pillar looks pillarID up in the cached pillar list.
func (c *Console) Pillar(ctx context.Context, pillarID string) (Pillar, bool, error) {
	pillars, err := c.Pillars(ctx, false)
	if err != nil {
		return Pillar{}, false, err
	}
	for _, p := range pillars {
		if p.ID == pillarID {
			return p, true, nil
		}
	}
	return Pillar{}, false, nil
}

// OpenPillar fetches the slots of pillarID and makes it the open grid, clearing any selection.
// When another fetch starts before this one returns, this response is discarded with ErrSuperseded.
func (c *Console) OpenPillar(ctx context.Context, pillarID string) (*Grid, error) {
	return c.load(ctx, pillarID, false)
}

// Refresh re-fetches the open pillar, keeping the selected slot number.
func (c *Console) Refresh(ctx context.Context) (*Grid, error) {
	c.mu.Lock()
	grid := c.grid
	c.mu.Unlock()
	if grid == nil {
		return nil, ErrNoPillarOpen
	}
	return c.load(ctx, grid.PillarID(), true)
}

func (c *Console) load(ctx context.Context, pillarID string, keepSelection bool) (*Grid, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	payload, err := c.source.GetPillarSlots(ctx, pillarID)
	if err != nil {
		return nil, err
	}
	slots := NormalizeSlots(payload, pillarID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		log.Debugf("discarding slots of pillar %s from generation %d (current %d)", pillarID, gen, c.generation)
		return nil, ErrSuperseded
	}

	if keepSelection && c.grid != nil && c.grid.PillarID() == pillarID {
		c.grid.replace(slots)
		return c.grid, nil
	}
	c.grid = NewGrid(pillarID, slots)
	return c.grid, nil
}

// Grid returns the open grid, or nil.
func (c *Console) Grid() *Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid
}

func (c *Console) SelectSlot(number int) (Slot, error) {
	grid := c.Grid()
	if grid == nil {
		return Slot{}, ErrNoPillarOpen
	}
	return grid.Select(number)
}

// Warehouse fetches the dock-eligible batteries of the session's station.
func (c *Console) Warehouse(ctx context.Context) ([]WarehouseBattery, error) {
	payload, err := c.source.GetWarehouseInventory(ctx, c.session.StaffID)
	if err != nil {
		return nil, err
	}
	return NormalizeWarehouse(payload), nil
}

// PillarOverview is one pillar with its freshly fetched slots. Err is set when that fetch failed.
type PillarOverview struct {
	Pillar  Pillar
	Slots   []Slot
	Summary Summary
	Err     error
}

// Overview fetches the slots of every pillar. A failing pillar does not fail the others.
func (c *Console) Overview(ctx context.Context, refresh bool) ([]PillarOverview, error) {
	pillars, err := c.Pillars(ctx, refresh)
	if err != nil {
		return nil, fmt.Errorf("load pillars: %w", err)
	}

	out := make([]PillarOverview, len(pillars))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewConcurrency)
	for i, p := range pillars {
		g.Go(func() error {
			entry := PillarOverview{Pillar: p, Summary: p.Summary}
			payload, err := c.source.GetPillarSlots(gctx, p.ID)
			if err != nil {
				log.Warnf("overview: pillar %s: %v", p.ID, err)
				entry.Err = err
			} else {
				entry.Slots = NormalizeSlots(payload, p.ID)
				entry.Summary = Summarize(entry.Slots)
			}
			out[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
