package models

import "time"

// Audit is the shared audit/soft-delete record embedded in every persisted
// entity. Deletes only set DeletedAt; rows are never physically removed.
type Audit struct {
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	CreatedBy string     `db:"created_by" json:"created_by"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	UpdatedBy string     `db:"updated_by" json:"updated_by"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// NewAudit returns an Audit stamped with the current time and actor.
func NewAudit(actor string) Audit {
	now := time.Now().UTC()
	return Audit{
		CreatedAt: now,
		CreatedBy: actor,
		UpdatedAt: now,
		UpdatedBy: actor,
	}
}

// Touch updates the modification fields.
func (a *Audit) Touch(actor string) {
	a.UpdatedAt = time.Now().UTC()
	a.UpdatedBy = actor
}
