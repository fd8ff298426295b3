package partner

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
)

// SupplierStatus represents the supplier's lifecycle state
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// IsValid checks if the status is valid
func (s SupplierStatus) IsValid() bool {
	return s == SupplierStatusActive || s == SupplierStatusInactive
}

// Supplier is a vendor the factory procures materials from. Uploaded
// procurement spreadsheets can be attributed to a supplier.
type Supplier struct {
	shared.BaseAggregateRoot
	Code          string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string         `gorm:"type:varchar(300);not null;index"`
	ContactPerson string         `gorm:"type:varchar(200)"`
	Email         string         `gorm:"type:varchar(200)"`
	Phone         string         `gorm:"type:varchar(50)"`
	Address       string         `gorm:"type:varchar(500)"`
	TaxID         string         `gorm:"type:varchar(50)"`
	PaymentTerms  string         `gorm:"type:varchar(200)"` // e.g. "net 30", "50% prepayment"
	Notes         string         `gorm:"type:varchar(2000)"`
	Status        SupplierStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates an active supplier
func NewSupplier(code, name string) (*Supplier, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            SupplierStatusActive,
	}, nil
}

// Update changes supplier details
func (s *Supplier) Update(name, contactPerson, email, phone, address, taxID, paymentTerms, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	s.Name = name
	s.ContactPerson = contactPerson
	s.Email = email
	s.Phone = phone
	s.Address = address
	s.TaxID = taxID
	s.PaymentTerms = paymentTerms
	s.Notes = notes
	s.UpdatedAt = time.Now()
	return nil
}

// Activate marks the supplier usable for new procurement
func (s *Supplier) Activate() {
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
}

// Deactivate hides the supplier from new procurement
func (s *Supplier) Deactivate() {
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
}

// IsActive reports whether the supplier can be used for new comparisons
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}
