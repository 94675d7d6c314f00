package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/client/pagination"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
)

// List discriminators sent with every list request.
const (
	ListTypeSales     = "0"
	ListTypePurchases = "1"
	ListTypeInventory = "2"
)

const (
	DefaultPageSize        = 10
	DefaultVehiclePageSize = 100
)

const (
	productsField = "products"
	vehiclesField = "vehicles"
)

// InventoryService exposes the list and detail reads of the catalogue the
// business works with.
//
// Contract:
//   - Purchases/Sales/Inventory: one long-lived Fetcher each; callers drive
//     Refresh/LoadMore and render Snapshot.
//   - Stats: dashboard counters.
//   - Product/Vehicle: one detail record.
type InventoryService interface {
	ServiceType() models.ServiceType
	Purchases() *pagination.Fetcher[models.Item]
	Sales() *pagination.Fetcher[models.Item]
	Inventory() *pagination.Fetcher[models.Item]
	Stats(ctx context.Context) (models.Stats, error)
	Product(ctx context.Context, id string) (*models.Product, error)
	Vehicle(ctx context.Context, id string) (*models.Vehicle, error)
}

type InventoryConfig struct {
	ServiceType     models.ServiceType
	PageSize        int
	VehiclePageSize int
}

type inventoryService struct {
	client    client.Client
	service   models.ServiceType
	purchases *pagination.Fetcher[models.Item]
	sales     *pagination.Fetcher[models.Item]
	inventory *pagination.Fetcher[models.Item]
}

// NewInventoryService builds the list fetchers for cfg.ServiceType once;
// the service type does not change for the lifetime of the session.
func NewInventoryService(c client.Client, cfg InventoryConfig, log logging.Logger) InventoryService {
	if cfg.ServiceType == "" {
		cfg.ServiceType = models.ServiceMobile
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.VehiclePageSize <= 0 {
		cfg.VehiclePageSize = DefaultVehiclePageSize
	}
	log = log.With("service", "inventory", "catalogue", string(cfg.ServiceType))

	s := &inventoryService{client: c, service: cfg.ServiceType}

	if cfg.ServiceType == models.ServiceVehicle {
		list := func(typ string) *pagination.Fetcher[models.Item] {
			src := pagination.NewRemoteSource(c, pagination.Endpoint{
				Method:     http.MethodGet,
				Path:       client.PathVehicleList,
				Type:       typ,
				ItemsField: vehiclesField,
			}, vehicleItem)
			return pagination.New(src, cfg.VehiclePageSize, pagination.WithLogger(log.With("list", typ)))
		}
		s.purchases = list(ListTypePurchases)
		s.sales = list(ListTypeSales)
		s.inventory = list(ListTypeInventory)
		return s
	}

	list := func(typ string, mapFn func(models.Product) models.Item) *pagination.Fetcher[models.Item] {
		src := pagination.NewRemoteSource(c, pagination.Endpoint{
			Method:     http.MethodPost,
			Path:       client.PathItemList,
			Type:       typ,
			ItemsField: productsField,
		}, mapFn)
		return pagination.New(src, cfg.PageSize, pagination.WithLogger(log.With("list", typ)))
	}
	s.purchases = list(ListTypePurchases, purchaseItem)
	s.sales = list(ListTypeSales, salesItem)
	s.inventory = list(ListTypeInventory, salesItem)
	return s
}

func (s *inventoryService) ServiceType() models.ServiceType { return s.service }

func (s *inventoryService) Purchases() *pagination.Fetcher[models.Item] { return s.purchases }

func (s *inventoryService) Sales() *pagination.Fetcher[models.Item] { return s.sales }

func (s *inventoryService) Inventory() *pagination.Fetcher[models.Item] { return s.inventory }

func (s *inventoryService) Stats(ctx context.Context) (models.Stats, error) {
	return s.client.ProductStats(ctx)
}

func (s *inventoryService) Product(ctx context.Context, id string) (*models.Product, error) {
	return s.client.Product(ctx, id)
}

// Vehicle returns a vehicle record. When the record has no media the
// thumbnail is used as its only image.
func (s *inventoryService) Vehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	v, err := s.client.Vehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(v.MediaURLs) == 0 && v.MediaThumb != "" {
		v.MediaURLs = []string{v.MediaThumb}
	}
	return v, nil
}

// PurchaseWarranty labels a purchased product.
func PurchaseWarranty(status int) string {
	if status == 1 {
		return "IN WARRANTY"
	}
	return "OUT OF WARRANTY"
}

var statusLabels = []string{"Warranty", "Out of Warranty", "Damaged", "Lost", "Stolen"}

// StatusLabel labels a sold product or a vehicle by its status code.
func StatusLabel(status models.Flex) string {
	n, ok := status.Int()
	if !ok || n < 0 || n >= len(statusLabels) {
		return "Unknown"
	}
	return statusLabels[n]
}

func purchaseItem(p models.Product) models.Item {
	return models.Item{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Warranty:    PurchaseWarranty(p.Status),
		Thumbnail:   p.MediaThumb,
	}
}

func salesItem(p models.Product) models.Item {
	return models.Item{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Warranty:    StatusLabel(p.ProductStatus),
		Thumbnail:   p.MediaThumb,
	}
}

func vehicleItem(v models.Vehicle) models.Item {
	desc := v.Description
	if desc == "" {
		desc = v.Model
	}
	return models.Item{
		ID:          v.ID.String(),
		Name:        v.Name,
		Description: desc,
		Price:       v.Price,
		Warranty:    StatusLabel(v.VehicleStatus),
		Thumbnail:   v.MediaThumb,
	}
}
