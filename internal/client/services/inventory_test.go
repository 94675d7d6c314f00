package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listResponder answers list requests with a fixed JSON document and records
// the requests it saw.
func listResponder(t *testing.T, seen *[]client.Request, doc map[string]any) func(client.Request, any) error {
	t.Helper()
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return func(req client.Request, out any) error {
		*seen = append(*seen, req)
		return json.Unmarshal(b, out)
	}
}

func TestPurchaseWarranty(t *testing.T) {
	assert.Equal(t, "IN WARRANTY", PurchaseWarranty(1))
	assert.Equal(t, "OUT OF WARRANTY", PurchaseWarranty(0))
	assert.Equal(t, "OUT OF WARRANTY", PurchaseWarranty(7))
}

func TestStatusLabel(t *testing.T) {
	cases := map[models.Flex]string{
		"0":  "Warranty",
		"1":  "Out of Warranty",
		"2":  "Damaged",
		"3":  "Lost",
		"4":  "Stolen",
		"5":  "Unknown",
		"-1": "Unknown",
		"":   "Unknown",
		"x":  "Unknown",
	}
	for in, want := range cases {
		assert.Equal(t, want, StatusLabel(in), string(in))
	}
}

func TestInventory_MobileLists(t *testing.T) {
	var seen []client.Request
	c := &fakeClient{}
	c.DoFn = listResponder(t, &seen, map[string]any{
		"totalCount": 2,
		"products": []map[string]any{
			{"id": 1, "name": "Phone", "price": 99.5, "status": 1, "productStatus": "2", "mediaThumb_100": "t1"},
			{"id": "2", "name": "Tablet", "status": 0, "productStatus": 4},
		},
	})
	svc := NewInventoryService(c, InventoryConfig{}, logging.Nop())
	assert.Equal(t, models.ServiceMobile, svc.ServiceType())
	ctx := context.Background()

	require.NoError(t, svc.Purchases().Refresh(ctx))
	got := svc.Purchases().Snapshot()
	want := []models.Item{
		{ID: "1", Name: "Phone", Price: 99.5, Warranty: "IN WARRANTY", Thumbnail: "t1"},
		{ID: "2", Name: "Tablet", Warranty: "OUT OF WARRANTY"},
	}
	if diff := cmp.Diff(want, got.Items); diff != "" {
		t.Fatalf("purchases mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.HasMore)
	assert.Equal(t, DefaultPageSize, got.PageSize)

	require.NoError(t, svc.Sales().Refresh(ctx))
	sales := svc.Sales().Snapshot().Items
	require.Len(t, sales, 2)
	assert.Equal(t, "Damaged", sales[0].Warranty)
	assert.Equal(t, "Stolen", sales[1].Warranty)

	require.NoError(t, svc.Inventory().Refresh(ctx))

	require.Len(t, seen, 3)
	for i, typ := range []string{ListTypePurchases, ListTypeSales, ListTypeInventory} {
		assert.Equal(t, http.MethodPost, seen[i].Method)
		assert.Equal(t, client.PathItemList, seen[i].Path)
		b, err := json.Marshal(seen[i].Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"`+typ+`","skip":0,"take":10}`, string(b))
	}
}

func TestInventory_VehicleLists(t *testing.T) {
	var seen []client.Request
	c := &fakeClient{}
	c.DoFn = listResponder(t, &seen, map[string]any{
		"totalCount": 1,
		"vehicles": []map[string]any{
			{"id": 9, "name": "Truck", "model": "T-1", "vehicleStatus": 1, "mediaThumb_100": "v"},
		},
	})
	svc := NewInventoryService(c, InventoryConfig{ServiceType: models.ServiceVehicle}, logging.Nop())
	ctx := context.Background()

	require.NoError(t, svc.Sales().Refresh(ctx))
	st := svc.Sales().Snapshot()
	assert.Equal(t, DefaultVehiclePageSize, st.PageSize)
	assert.Equal(t, []models.Item{{ID: "9", Name: "Truck", Description: "T-1", Warranty: "Out of Warranty", Thumbnail: "v"}}, st.Items)

	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodGet, seen[0].Method)
	assert.Equal(t, client.PathVehicleList, seen[0].Path)
	assert.Equal(t, ListTypeSales, seen[0].Query.Get("type"))
	assert.Equal(t, "100", seen[0].Query.Get("take"))
}

func TestInventory_FetchersAreStable(t *testing.T) {
	svc := NewInventoryService(&fakeClient{}, InventoryConfig{PageSize: 5}, logging.Nop())
	assert.Same(t, svc.Purchases(), svc.Purchases())
	assert.NotSame(t, svc.Purchases(), svc.Sales())
	assert.Equal(t, 5, svc.Inventory().Snapshot().PageSize)
}

func TestInventory_VehicleMediaFallback(t *testing.T) {
	c := &fakeClient{VehicleRet: &models.Vehicle{ID: "1", MediaThumb: "thumb.jpg"}}
	svc := NewInventoryService(c, InventoryConfig{ServiceType: models.ServiceVehicle}, logging.Nop())

	v, err := svc.Vehicle(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"thumb.jpg"}, v.MediaURLs)

	c.VehicleRet = &models.Vehicle{ID: "1", MediaThumb: "thumb.jpg", MediaURLs: []string{"a.jpg", "b.jpg"}}
	v, err = svc.Vehicle(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, v.MediaURLs)

	c.VehicleRet = nil
	_, err = svc.Vehicle(context.Background(), "1")
	require.Error(t, err)
}

func TestInventory_StatsAndProduct(t *testing.T) {
	c := &fakeClient{
		StatsRet:   models.Stats{"sold": 3.0},
		ProductRet: &models.Product{ID: "5", Name: "Phone"},
	}
	svc := NewInventoryService(c, InventoryConfig{}, logging.Nop())

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sold"}, st.Keys())

	p, err := svc.Product(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Phone", p.Name)
}
