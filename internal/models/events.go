package models

// Имена событий, публикуемых леджером при каждой успешной мутации.
// События потребляются внешними коллаборантами (websocket, журнал).
const (
	EventUserRegistered     = "user_registered"
	EventProfileUpdated     = "profile_updated"
	EventJobPosted          = "job_posted"
	EventJobCancelled       = "job_cancelled"
	EventJobCompleted       = "job_completed"
	EventProposalSubmitted  = "proposal_submitted"
	EventProposalAccepted   = "proposal_accepted"
	EventProposalRejected   = "proposal_rejected"
	EventProposalWithdrawn  = "proposal_withdrawn"
	EventMilestoneCreated   = "milestone_created"
	EventMilestoneStarted   = "milestone_started"
	EventMilestoneSubmitted = "milestone_submitted"
	EventMilestoneApproved  = "milestone_approved"
	EventDisputeRaised      = "dispute_raised"
	EventDisputeResolved    = "dispute_resolved"
	EventReputationUpdated  = "reputation_updated"
	EventFeeUpdated         = "fee_updated"
	EventPauseToggled       = "pause_toggled"
	EventEmergencyWithdraw  = "emergency_withdraw"
)
