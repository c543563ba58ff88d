package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant boundary: every ledger row carries an
// organization id and every query filters on it.
type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Code      string    `gorm:"type:varchar(50);unique;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

// Worker is a sewer who claims bundle quantity and closes it through
// packaging. Code appears in party numbers ("<lot_no>-<code>").
type Worker struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_worker_org_code,unique" json:"organization_id"`
	Code           string    `gorm:"type:varchar(20);not null;index:idx_worker_org_code,unique" json:"code"`
	FullName       string    `gorm:"type:varchar(200);not null" json:"full_name"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Worker) TableName() string {
	return "workers"
}

// Counterparty is an invoice customer of the workshop.
type Counterparty struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string    `gorm:"type:varchar(200);not null" json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Counterparty) TableName() string {
	return "counterparties"
}
