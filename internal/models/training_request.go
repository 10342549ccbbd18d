package models

import "time"

type WorkflowStatus string

const (
	StatusUnderReview               WorkflowStatus = "UNDER_REVIEW"
	StatusPendingSupervisorApproval WorkflowStatus = "PENDING_SUPERVISOR_APPROVAL"
	StatusPendingTrainerSelection   WorkflowStatus = "PENDING_TRAINER_SELECTION"
	StatusPendingFinalApproval      WorkflowStatus = "PENDING_FINAL_APPROVAL"
	StatusFinalApproved             WorkflowStatus = "FINAL_APPROVED"
	StatusReceived                  WorkflowStatus = "RECEIVED"
	StatusScheduled                 WorkflowStatus = "SCHEDULED"
	StatusCompleted                 WorkflowStatus = "COMPLETED"
	StatusCancelled                 WorkflowStatus = "CANCELLED"
)

var workflowPipeline = []WorkflowStatus{
	StatusUnderReview,
	StatusPendingSupervisorApproval,
	StatusPendingTrainerSelection,
	StatusPendingFinalApproval,
	StatusFinalApproved,
	StatusReceived,
	StatusScheduled,
	StatusCompleted,
}

func (s WorkflowStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	for _, status := range workflowPipeline {
		if status == s {
			return true
		}
	}
	return false
}

func (s WorkflowStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether a request may move from one status to the
// next: one step forward along the pipeline, or to CANCELLED from any
// non-terminal status.
func CanTransition(from, to WorkflowStatus) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	for i := 0; i < len(workflowPipeline)-1; i++ {
		if workflowPipeline[i] == from {
			return workflowPipeline[i+1] == to
		}
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DerivePriority buckets the calendar-day distance between now and the
// requested date. Time of day is ignored on both sides.
func DerivePriority(now, requested time.Time) Priority {
	days := CalendarDaysBetween(now, requested)
	switch {
	case days <= 3:
		return PriorityHigh
	case days <= 7:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func CalendarDaysBetween(from, to time.Time) int {
	to = to.In(from.Location())
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

type TrainingRequest struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Province          string         `json:"province"`
	Specialization    string         `json:"specialization"`
	RequestedDate     time.Time      `json:"requested_date"`
	Status            WorkflowStatus `json:"status"`
	RequesterID       string         `json:"requester_id"`
	AssignedTrainerID *string        `json:"assigned_trainer_id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (r *TrainingRequest) Criteria(now time.Time) MatchingCriteria {
	return MatchingCriteria{
		Province:       r.Province,
		Specialization: r.Specialization,
		RequestedDate:  r.RequestedDate,
		Priority:       DerivePriority(now, r.RequestedDate),
	}
}
