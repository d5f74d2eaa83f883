package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Recommendation priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation statuses
const (
	RecommendationStatusNew       = "new"
	RecommendationStatusViewed    = "viewed"
	RecommendationStatusApplied   = "applied"
	RecommendationStatusDismissed = "dismissed"
)

// Recommendation types
const (
	RecommendationCACReduction       = "cac_reduction"
	RecommendationBudgetReallocation = "budget_reallocation"
	RecommendationScaleBudget        = "scale_budget"
	RecommendationLaunchCampaign     = "launch_campaign"
	RecommendationAddDSP             = "add_dsp"
)

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

var ValidRecommendationTransitions = map[string][]string{
	RecommendationStatusNew:       {RecommendationStatusViewed, RecommendationStatusApplied, RecommendationStatusDismissed},
	RecommendationStatusViewed:    {RecommendationStatusApplied, RecommendationStatusDismissed},
	RecommendationStatusApplied:   {},
	RecommendationStatusDismissed: {},
}

func IsValidRecommendationTransition(from, to string) bool {
	for _, s := range ValidRecommendationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func IsValidRecommendationStatus(status string) bool {
	_, ok := ValidRecommendationTransitions[status]
	return ok
}

type Recommendation struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CampaignID  *uuid.UUID `json:"campaign_id,omitempty"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsOpen is true while the user has not acted on the recommendation.
func (r *Recommendation) IsOpen() bool {
	return r.Status == RecommendationStatusNew || r.Status == RecommendationStatusViewed
}

func rank(priority string) int {
	if r, ok := priorityRank[priority]; ok {
		return r
	}
	return len(priorityRank)
}

// SortByPriority orders high -> medium -> low, newest first within a priority.
func SortByPriority(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := rank(recs[i].Priority), rank(recs[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}
