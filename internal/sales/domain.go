package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle states for a sale. Archived sales are excluded from analytics
// and reports but remain on record.
const (
	LifecycleActive   = "active"
	LifecycleArchived = "archived"
)

// Sale is a single pharmacy purchase transaction.
type Sale struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"product_id"`
	PharmacyID     int64           `json:"pharmacy_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Lifecycle      string          `json:"lifecycle"`
	CreatedBy      int64           `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Recalculate derives the amount columns from quantity, unit price,
// discount and tax. total = quantity * unit_price; final = total - discount + tax.
func (s *Sale) Recalculate() {
	s.TotalAmount = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
	s.FinalAmount = s.TotalAmount.Sub(s.DiscountAmount).Add(s.TaxAmount)
}

type CreateSaleRequest struct {
	ProductID      int64     `json:"product_id" validate:"required,gt=0"`
	PharmacyID     int64     `json:"pharmacy_id" validate:"required,gt=0"`
	Quantity       int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice      string    `json:"unit_price" validate:"required"`
	DiscountAmount string    `json:"discount_amount"`
	TaxAmount      string    `json:"tax_amount"`
	OccurredAt     time.Time `json:"occurred_at" validate:"required"`
}

type UpdateSaleRequest struct {
	Quantity       *int       `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice      *string    `json:"unit_price,omitempty"`
	DiscountAmount *string    `json:"discount_amount,omitempty"`
	TaxAmount      *string    `json:"tax_amount,omitempty"`
	OccurredAt     *time.Time `json:"occurred_at,omitempty"`
}

// merge applies the mutable fields of an update request onto an existing
// sale. Product, pharmacy and creator references never change after
// creation; amounts are recomputed from the merged inputs.
func merge(sale Sale, req UpdateSaleRequest) (Sale, error) {
	if req.Quantity != nil {
		sale.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		price, err := decimal.NewFromString(*req.UnitPrice)
		if err != nil {
			return Sale{}, err
		}
		sale.UnitPrice = price
	}
	if req.DiscountAmount != nil {
		discount, err := decimal.NewFromString(*req.DiscountAmount)
		if err != nil {
			return Sale{}, err
		}
		sale.DiscountAmount = discount
	}
	if req.TaxAmount != nil {
		tax, err := decimal.NewFromString(*req.TaxAmount)
		if err != nil {
			return Sale{}, err
		}
		sale.TaxAmount = tax
	}
	if req.OccurredAt != nil {
		sale.OccurredAt = *req.OccurredAt
	}
	sale.Recalculate()
	return sale, nil
}

// ListFilters narrows sale listings.
type ListFilters struct {
	ProductID  int64
	PharmacyID int64
	From       time.Time
	To         time.Time
	Lifecycle  string
	Page       int
	PerPage    int
}
