package identity

import (
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Outlet represents a retail outlet that places orders
type Outlet struct {
	shared.BaseEntity
	Name         string
	Address      string
	Contact      string
	TaxInfo      string
	PaymentModes []string `gorm:"serializer:json"`
	CreditLimit  decimal.Decimal
}

// NewOutlet creates a new outlet
func NewOutlet(name, address, contact string) (*Outlet, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Outlet name cannot be empty")
	}
	return &Outlet{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Address:      address,
		Contact:      contact,
		PaymentModes: make([]string, 0),
		CreditLimit:  decimal.Zero,
	}, nil
}
