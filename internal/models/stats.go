package models

// PlatformStats содержит агрегированную статистику площадки.
type PlatformStats struct {
	TotalUsers       uint64 `json:"total_users"`
	TotalJobs        uint64 `json:"total_jobs"`
	ActiveJobs       uint64 `json:"active_jobs"`
	TotalProposals   uint64 `json:"total_proposals"`
	TotalMilestones  uint64 `json:"total_milestones"`
	TotalDisputes    uint64 `json:"total_disputes"`
	TotalEscrowed    uint64 `json:"total_escrowed"`
	FeesCollected    uint64 `json:"fees_collected"`
	TotalValueLocked uint64 `json:"total_value_locked"`
}

// UserStats содержит статистику отдельного участника.
type UserStats struct {
	Reputation         uint64 `json:"reputation"`
	TotalJobsCompleted uint64 `json:"total_jobs_completed"`
	TotalEarned        uint64 `json:"total_earned"`
	PostedJobs         uint64 `json:"posted_jobs"`
	SubmittedProposals uint64 `json:"submitted_proposals"`
	AverageRating      uint64 `json:"average_rating"`
}

// Counters — снимок счётчиков последовательных идентификаторов.
type Counters struct {
	Jobs       uint64 `json:"jobs"`
	Proposals  uint64 `json:"proposals"`
	Milestones uint64 `json:"milestones"`
	Disputes   uint64 `json:"disputes"`
}
