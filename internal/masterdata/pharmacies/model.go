package pharmacies

import "time"

const (
	LifecycleActive   = "active"
	LifecycleArchived = "archived"
)

// Pharmacy types mirror how the sales team segments customers.
const (
	TypeIndependent = "independent"
	TypeChain       = "chain"
	TypeHospital    = "hospital"
	TypeClinic      = "clinic"
	TypeOnline      = "online"
)

type Pharmacy struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PharmacyType  string    `json:"pharmacy_type"`
	ChainName     string    `json:"chain_name,omitempty"`
	LicenseNumber string    `json:"license_number,omitempty"`
	Lifecycle     string    `json:"lifecycle"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Location renders the city/state pair used in analytics rollups.
func (p Pharmacy) Location() string {
	if p.City == "" {
		return p.State
	}
	if p.State == "" {
		return p.City
	}
	return p.City + ", " + p.State
}

type ListFilters struct {
	Search       string
	PharmacyType string
	Lifecycle    string
	Page         int
	PerPage      int
}

// ValidType reports whether t is a known pharmacy type.
func ValidType(t string) bool {
	switch t {
	case TypeIndependent, TypeChain, TypeHospital, TypeClinic, TypeOnline:
		return true
	}
	return false
}
