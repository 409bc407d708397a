package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor purchases are sourced from.
type Supplier struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null;uniqueIndex:idx_suppliers_name"`
	ContactName   *string   `gorm:"column:contact_name"`
	ContactEmail  *string   `gorm:"column:contact_email"`
	ContactPhone  *string   `gorm:"column:contact_phone"`
	PaymentTerms  *string   `gorm:"column:payment_terms"`
	LeadTimeDays  *int      `gorm:"column:lead_time_days"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
