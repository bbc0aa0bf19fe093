package models

import (
	"time"
)

// Milestone описывает этап заказа с депонированной под него суммой.
// Amount неизменяем после создания и равен внесённому депозиту.
type Milestone struct {
	ID             uint64     `json:"id"`
	JobID          uint64     `json:"job_id"`
	Title          string     `json:"title"`
	DescriptionRef string     `json:"description_ref"`
	Amount         uint64     `json:"amount"`
	DeadlineAt     time.Time  `json:"deadline_at"`
	Status         string     `json:"status"`
	Paid           bool       `json:"paid"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}
