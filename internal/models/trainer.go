package models

import "time"

type TrainerStatistics struct {
	AverageRating *float64 `json:"average_rating"`
	TotalHours    *int     `json:"total_hours"`
}

type Trainer struct {
	ID              string             `json:"id"`
	FullName        string             `json:"full_name"`
	Province        string             `json:"province"`
	Specializations Specializations    `json:"specializations"`
	Rating          *float64           `json:"rating"`
	TotalHours      *int               `json:"total_training_hours"`
	IsActive        bool               `json:"is_active"`
	Stats           *TrainerStatistics `json:"trainer_statistics,omitempty"`
}

// EffectiveRating prefers the statistics record over the profile rating.
func (t *Trainer) EffectiveRating() float64 {
	if t.Stats != nil && t.Stats.AverageRating != nil {
		return *t.Stats.AverageRating
	}
	if t.Rating != nil {
		return *t.Rating
	}
	return 0
}

func (t *Trainer) EffectiveHours() int {
	if t.Stats != nil && t.Stats.TotalHours != nil {
		return *t.Stats.TotalHours
	}
	if t.TotalHours != nil {
		return *t.TotalHours
	}
	return 0
}

const ApplicationStatusPending = "pending"

type TrainerApplication struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	TrainerID string    `json:"trainer_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Trainer   *Trainer  `json:"trainer,omitempty"`
}

type MatchFactors struct {
	Location       float64 `json:"location_match"`
	Specialization float64 `json:"specialization_match"`
	Availability   float64 `json:"availability_match"`
	Rating         float64 `json:"rating_score"`
	Experience     float64 `json:"experience_score"`
	Workload       float64 `json:"workload_score"`
}

type TrainerScore struct {
	TrainerID string       `json:"trainer_id"`
	Trainer   Trainer      `json:"trainer"`
	Score     float64      `json:"score"`
	Factors   MatchFactors `json:"factors"`
	Reasoning []string     `json:"reasoning"`
}

type MatchingCriteria struct {
	Province       string    `json:"province"`
	Specialization string    `json:"specialization"`
	RequestedDate  time.Time `json:"requested_date"`
	Priority       Priority  `json:"priority"`
}

type TrainerRecommendations struct {
	RequestID       string         `json:"request_id"`
	Recommendations []TrainerScore `json:"recommendations"`
	Summary         string         `json:"summary"`
}
