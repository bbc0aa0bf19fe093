package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает участника площадки. Запись никогда не удаляется.
type User struct {
	ID                 uuid.UUID `json:"id"`
	ProfileRef         string    `json:"profile_ref"`
	Reputation         uint64    `json:"reputation"`
	TotalJobsCompleted uint64    `json:"total_jobs_completed"`
	TotalEarned        uint64    `json:"total_earned"`
	PostedJobs         uint64    `json:"posted_jobs"`
	SubmittedProposals uint64    `json:"submitted_proposals"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}
