package models

import "gorm.io/datatypes"

// Publication records one promotion of a draft into the published table.
type Publication struct {
	Base
	Kind     ContentKind      `gorm:"not null;index" json:"kind"`
	Slug     string           `gorm:"not null;index" json:"slug"`
	Outcome  PromotionOutcome `gorm:"not null" json:"outcome"`
	ActorID  string           `json:"actorId"`
	Snapshot datatypes.JSON   `json:"snapshot"`
}
