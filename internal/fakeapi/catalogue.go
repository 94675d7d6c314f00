package fakeapi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/client/models"
)

// List types, as sent in the type field of list requests.
const (
	ListSales     = "0"
	ListPurchases = "1"
	ListInventory = "2"
)

// Seeded catalogue sizes per list type.
var seedSizes = map[string]int{
	ListPurchases: 25,
	ListSales:     12,
	ListInventory: 40,
}

func (s *Server) seedCatalogue(now time.Time) {
	id := 0
	for _, typ := range []string{ListPurchases, ListSales, ListInventory} {
		n := seedSizes[typ]
		products := make([]models.Product, 0, n)
		vehicles := make([]models.Vehicle, 0, n)
		for i := range n {
			id++
			created := now.Add(-time.Duration(i) * 24 * time.Hour).UTC().Format(time.RFC3339)
			products = append(products, models.Product{
				ID:            models.Flex(strconv.Itoa(id)),
				Name:          fmt.Sprintf("Phone %d", id),
				Category:      "Smartphones",
				SerialNumber:  fmt.Sprintf("SN-%05d", id),
				Price:         float64(100 + id),
				Status:        i % 2,
				ProductStatus: models.Flex(strconv.Itoa(i % 5)),
				CreatedAt:     created,
				MediaThumb:    fmt.Sprintf("https://cdn.example.com/p/%d_100.jpg", id),
			})
			vehicles = append(vehicles, models.Vehicle{
				ID:             models.Flex(strconv.Itoa(id)),
				Name:           fmt.Sprintf("Vehicle %d", id),
				Model:          fmt.Sprintf("Model %c", 'A'+rune(i%26)),
				Price:          float64(10000 + id*100),
				VehicleStatus:  models.Flex(strconv.Itoa(i % 5)),
				TyrePercentage: models.Flex(strconv.Itoa(100 - i)),
				CreatedAt:      created,
				MediaThumb:     fmt.Sprintf("https://cdn.example.com/v/%d_100.jpg", id),
			})
		}
		s.products[typ] = products
		s.vehicles[typ] = vehicles
	}
}

// window keeps the records created within the last days days. A nil days
// keeps everything; records with an unreadable date are kept.
func window[T any](items []T, days *int, now time.Time, created func(T) string) []T {
	if days == nil {
		return items
	}
	cutoff := now.Add(-time.Duration(*days) * 24 * time.Hour)
	out := make([]T, 0, len(items))
	for _, it := range items {
		ts, err := time.Parse(time.RFC3339, created(it))
		if err != nil || !ts.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}

// page slices items by skip/take. Out of range values give an empty page.
func page[T any](items []T, skip, take int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) || take <= 0 {
		return []T{}
	}
	end := min(skip+take, len(items))
	return items[skip:end]
}

func (s *Server) listProducts(typ string, skip, take int, days *int) ([]models.Product, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := window(s.products[typ], days, s.now(), func(p models.Product) string { return p.CreatedAt })
	return page(all, skip, take), len(all)
}

func (s *Server) listVehicles(typ string, skip, take int, days *int) ([]models.Vehicle, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := window(s.vehicles[typ], days, s.now(), func(v models.Vehicle) string { return v.CreatedAt })
	return page(all, skip, take), len(all)
}

func (s *Server) product(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, items := range s.products {
		for _, p := range items {
			if p.ID.String() == id {
				return p, true
			}
		}
	}
	return models.Product{}, false
}

func (s *Server) vehicle(id string) (models.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, items := range s.vehicles {
		for _, v := range items {
			if v.ID.String() == id {
				return v, true
			}
		}
	}
	return models.Vehicle{}, false
}

func (s *Server) stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Stats{
		"purchases": len(s.products[ListPurchases]),
		"sales":     len(s.products[ListSales]),
		"inventory": len(s.products[ListInventory]),
		"vehicles":  len(s.vehicles[ListInventory]),
	}
}
