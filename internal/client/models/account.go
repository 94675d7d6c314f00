package models

// NewRecordID is the id the backend expects for records being created.
const NewRecordID = "-1"

type UserDetails struct {
	ID           Flex   `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	ServiceName  string `json:"serviceName,omitempty"`
}

type BusinessDetails struct {
	ID         string `json:"id"`
	CategoryID Flex   `json:"categoryId"`
	Name       string `json:"name"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	State      string `json:"state"`
	Country    string `json:"country"`
	ZipCode    string `json:"zipCode"`
}

type BusinessDetailsResponse struct {
	ServiceName string `json:"serviceName,omitempty"`
	Message     string `json:"message,omitempty"`
}
