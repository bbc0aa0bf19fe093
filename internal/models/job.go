package models

import (
	"time"

	"github.com/google/uuid"
)

// Job описывает заказ. Бюджет мутабелен до принятия предложения,
// после принятия фиксируется бюджетом победившего предложения.
type Job struct {
	ID                 uint64     `json:"id"`
	ClientID           uuid.UUID  `json:"client_id"`
	Title              string     `json:"title"`
	DescriptionRef     string     `json:"description_ref"`
	RequiredSkills     []string   `json:"required_skills"`
	Budget             uint64     `json:"budget"`
	DeadlineAt         time.Time  `json:"deadline_at"`
	Status             string     `json:"status"`
	AssignedFreelancer *uuid.UUID `json:"assigned_freelancer,omitempty"`
	MilestoneCount     uint64     `json:"milestone_count"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Proposal представляет отклик фрилансера на заказ.
type Proposal struct {
	ID               uint64    `json:"id"`
	JobID            uint64    `json:"job_id"`
	FreelancerID     uuid.UUID `json:"freelancer_id"`
	ProposalRef      string    `json:"proposal_ref"`
	ProposedBudget   uint64    `json:"proposed_budget"`
	ProposedDuration uint64    `json:"proposed_duration"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}
