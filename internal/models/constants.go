package models

// JobStatus константы статусов заказов
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusDisputed   = "disputed"
	JobStatusCancelled  = "cancelled"
)

// ProposalStatus константы статусов предложений
const (
	ProposalStatusPending   = "pending"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusRejected  = "rejected"
	ProposalStatusWithdrawn = "withdrawn"
)

// MilestoneStatus константы статусов этапов
const (
	MilestoneStatusCreated    = "created"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusSubmitted  = "submitted"
	MilestoneStatusApproved   = "approved"
	MilestoneStatusDisputed   = "disputed"
)

// DisputeStatus константы статусов споров
const (
	DisputeStatusOpen     = "open"
	DisputeStatusResolved = "resolved"
)

// InitialReputation — стартовый рейтинг зарегистрированного пользователя.
const InitialReputation = 500

// MaxReputation — верхняя граница рейтинга.
const MaxReputation = 1000

// ValidJobStatuses список валидных статусов заказов
var ValidJobStatuses = map[string]struct{}{
	JobStatusOpen:       {},
	JobStatusInProgress: {},
	JobStatusCompleted:  {},
	JobStatusDisputed:   {},
	JobStatusCancelled:  {},
}

// ValidProposalStatuses список валидных статусов предложений
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusPending:   {},
	ProposalStatusAccepted:  {},
	ProposalStatusRejected:  {},
	ProposalStatusWithdrawn: {},
}

// ValidMilestoneStatuses список валидных статусов этапов
var ValidMilestoneStatuses = map[string]struct{}{
	MilestoneStatusCreated:    {},
	MilestoneStatusInProgress: {},
	MilestoneStatusSubmitted:  {},
	MilestoneStatusApproved:   {},
	MilestoneStatusDisputed:   {},
}
