package models

import (
	"time"

	"github.com/google/uuid"
)

// Dispute описывает спор по отправленному на приёмку этапу.
// Разрешается единственным арбитром ровно один раз.
type Dispute struct {
	ID           uint64     `json:"id"`
	JobID        uint64     `json:"job_id"`
	MilestoneID  uint64     `json:"milestone_id"`
	InitiatorID  uuid.UUID  `json:"initiator_id"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	ArbitratorID *uuid.UUID `json:"arbitrator_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}
