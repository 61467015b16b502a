package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle states for a product record. Archived products stay queryable
// for historical analytics but are excluded from new sales.
const (
	LifecycleActive   = "active"
	LifecycleArchived = "archived"
)

type Product struct {
	ID                   int64           `json:"id"`
	Code                 string          `json:"code"`
	Name                 string          `json:"name"`
	Manufacturer         string          `json:"manufacturer"`
	Category             string          `json:"category"`
	Dosage               string          `json:"dosage"`
	PackageSize          string          `json:"package_size"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	PrescriptionRequired bool            `json:"prescription_required"`
	Lifecycle            string          `json:"lifecycle"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ListFilters narrows List queries.
type ListFilters struct {
	Search    string
	Category  string
	Lifecycle string
	Page      int
	PerPage   int
}
