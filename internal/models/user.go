package models

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"` // admin, client, guest
	Avatar string `json:"avatar,omitempty"`
	Phone  string `json:"phone,omitempty"`

	Addresses []Address `json:"addresses,omitempty"`
}

// Address is a saved delivery address on a client profile.
type Address struct {
	ID           string `json:"id"`
	Label        string `json:"label"` // Casa, Trabalho
	ZipCode      string `json:"zipCode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Profile is the persisted per-user slice of a User. Only these fields
// survive across sessions; the rest comes from the login itself.
type Profile struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
}
