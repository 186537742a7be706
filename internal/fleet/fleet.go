// Package fleet serves the read-only order book and driver roster shown on
// the admin dashboard.
package fleet

import (
	"errors"
	"math"
	"strings"
	"sync"

	"movemate-admin/internal/model"
)

var ErrNotFound = errors.New("not_found")

const (
	DefaultPerPage = 5
	MaxPerPage     = 50
)

// Filter narrows a listing. An empty Status or "all" matches every status.
// Search is a case-insensitive substring match.
type Filter struct {
	Status  string
	Search  string
	Page    int
	PerPage int
}

type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
}

type Summary struct {
	TotalOrders      int                        `json:"total_orders"`
	OrdersByStatus   map[model.OrderStatus]int  `json:"orders_by_status"`
	ActiveDeliveries int                        `json:"active_deliveries"`
	RevenueCents     int64                      `json:"revenue_cents"`
	TotalDrivers     int                        `json:"total_drivers"`
	DriversByStatus  map[model.DriverStatus]int `json:"drivers_by_status"`
	AvailableDrivers int                        `json:"available_drivers"`
	AverageRating    float64                    `json:"average_rating"`
}

type Catalog struct {
	mu      sync.RWMutex
	orders  []model.Order
	drivers []model.Driver
}

func NewCatalog(orders []model.Order, drivers []model.Driver) *Catalog {
	return &Catalog{
		orders:  append([]model.Order(nil), orders...),
		drivers: append([]model.Driver(nil), drivers...),
	}
}

// NewDefaultCatalog returns a catalog holding the demo data.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultOrders(), DefaultDrivers())
}

func (c *Catalog) ListOrders(f Filter) Page[model.Order] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []model.Order
	for _, o := range c.orders {
		if !matchStatus(f.Status, string(o.Status)) {
			continue
		}
		if !matchAny(q, o.ID, o.Customer, o.Pickup, o.Delivery) {
			continue
		}
		out = append(out, o)
	}
	return paginate(out, f)
}

func (c *Catalog) ListDrivers(f Filter) Page[model.Driver] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []model.Driver
	for _, d := range c.drivers {
		if !matchStatus(f.Status, string(d.Status)) {
			continue
		}
		if !matchAny(q, d.Name, d.Email, d.Location, d.Phone) {
			continue
		}
		out = append(out, d)
	}
	return paginate(out, f)
}

func (c *Catalog) Order(id string) (model.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Order{}, ErrNotFound
}

func (c *Catalog) Driver(id string) (model.Driver, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.drivers {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Driver{}, ErrNotFound
}

func (c *Catalog) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Summary{
		TotalOrders:     len(c.orders),
		OrdersByStatus:  make(map[model.OrderStatus]int, len(model.OrderStatuses)),
		TotalDrivers:    len(c.drivers),
		DriversByStatus: make(map[model.DriverStatus]int, 3),
	}
	for _, st := range model.OrderStatuses {
		s.OrdersByStatus[st] = 0
	}
	for _, o := range c.orders {
		s.OrdersByStatus[o.Status]++
		switch o.Status {
		case model.OrderStatusInProgress:
			s.ActiveDeliveries++
		case model.OrderStatusCompleted:
			s.RevenueCents += o.AmountCents
		}
	}

	var ratings float64
	for _, d := range c.drivers {
		s.DriversByStatus[d.Status]++
		if d.Available {
			s.AvailableDrivers++
		}
		ratings += d.Rating
	}
	if len(c.drivers) > 0 {
		s.AverageRating = math.Round(ratings/float64(len(c.drivers))*100) / 100
	}
	return s
}

func matchStatus(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, "all") || strings.EqualFold(want, got)
}

func matchAny(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, f Filter) Page[T] {
	per := f.PerPage
	if per <= 0 {
		per = DefaultPerPage
	}
	if per > MaxPerPage {
		per = MaxPerPage
	}

	total := len(items)
	pages := (total + per - 1) / per
	if pages == 0 {
		pages = 1
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * per
	end := min(start+per, total)
	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)

	return Page[T]{Items: out, Total: total, Page: page, PerPage: per, Pages: pages}
}
