package models

import (
	"sort"
	"strings"
)

// ServiceType selects which catalogue a business works with.
type ServiceType string

const (
	ServiceMobile  ServiceType = "Mobile"
	ServiceVehicle ServiceType = "Vehicle"
)

// ParseServiceType maps a stored service name to a ServiceType. Anything
// unrecognised is treated as Mobile.
func ParseServiceType(s string) ServiceType {
	if strings.EqualFold(strings.TrimSpace(s), string(ServiceVehicle)) {
		return ServiceVehicle
	}
	return ServiceMobile
}

// Product is a mobile-catalogue record as returned by the list and detail
// endpoints.
type Product struct {
	ID            Flex     `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	SerialNumber  string   `json:"serialNumber,omitempty"`
	Price         float64  `json:"price"`
	Status        int      `json:"status"`
	ProductStatus Flex     `json:"productStatus"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	MediaThumb    string   `json:"mediaThumb_100,omitempty"`
	MediaURLs     []string `json:"mediaUrls,omitempty"`
}

// Vehicle is a vehicle-catalogue record.
type Vehicle struct {
	ID             Flex     `json:"id"`
	Name           string   `json:"name"`
	Model          string   `json:"model,omitempty"`
	Description    string   `json:"description,omitempty"`
	Price          float64  `json:"price"`
	VehicleStatus  Flex     `json:"vehicleStatus"`
	TyrePercentage Flex     `json:"tyrePercentage,omitempty"`
	CreatedAt      string   `json:"createdAt,omitempty"`
	MediaThumb     string   `json:"mediaThumb_100,omitempty"`
	MediaURLs      []string `json:"mediaUrls,omitempty"`
}

// Item is the list-row shape shared by every list screen.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Warranty    string
	Thumbnail   string
}

// Category is a selectable business category.
type Category struct {
	ID   Flex   `json:"id"`
	Name string `json:"name"`
}

// Stats is the free-form dashboard counters object.
type Stats map[string]any

// Keys returns the stat names in stable order.
func (s Stats) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
