// Package entity holds the tenant-scoped base types embedded by ledger entities.
package entity

import (
	"time"

	"ledgerpos/internal/core/id"
)

// TenantEntity is the common identity of every persisted entity.
// Every query and write must filter by TenantID.
type TenantEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// TenantID partitions all data; cross-tenant references are rejected as not found
	TenantID id.ID `db:"tenant_id" json:"tenantId"`
}

// NewTenantEntity creates a TenantEntity with a generated ID.
func NewTenantEntity(tenantID id.ID) TenantEntity {
	return TenantEntity{
		ID:       id.New(),
		TenantID: tenantID,
	}
}

// BelongsTo reports whether the entity is owned by tenantID.
func (e TenantEntity) BelongsTo(tenantID id.ID) bool {
	return e.TenantID == tenantID
}

// BaseDocument extends TenantEntity with numbering and audit fields.
// Sales, purchases and purchase orders embed it.
type BaseDocument struct {
	TenantEntity

	// Number is the human document number (S-2026-00001)
	Number string `db:"number" json:"number"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument creates a new BaseDocument with generated ID and timestamps.
func NewBaseDocument(tenantID id.ID, userID string) BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		TenantEntity: NewTenantEntity(tenantID),
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    userID,
		UpdatedBy:    userID,
	}
}

// Touch records a modification by userID.
func (b *BaseDocument) Touch(userID string) {
	b.UpdatedAt = time.Now().UTC()
	b.UpdatedBy = userID
}
