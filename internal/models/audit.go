package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActorUser   = "user"
	ActorSystem = "system"
)

const (
	EntityCampaign = "campaign"
	EntityEarning  = "earning"
	EntityListing  = "listing"
	EntitySolution = "solution"
	EntityUser     = "user"
)

const (
	ActionCampaignCreated       = "campaign_created"
	ActionCampaignMetrics       = "campaign_metrics_updated"
	ActionCampaignStatusChanged = "campaign_status_changed"
	ActionCampaignDeleted       = "campaign_deleted"
	ActionEarningCreated        = "earning_created"
	ActionEarningsDistributed   = "earnings_distributed"
	ActionListingCreated        = "listing_created"
	ActionSolutionCreated       = "solution_created"
	ActionOnboardingCompleted   = "onboarding_completed"
)

// AuditLog is one row of the append-only activity trail.
type AuditLog struct {
	ID          uuid.UUID      `json:"id"`
	ActorUserID *uuid.UUID     `json:"actor_user_id,omitempty"`
	ActorType   string         `json:"actor_type"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    *uuid.UUID     `json:"entity_id,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// UserAction records something a signed-in user did to an entity.
func UserAction(actor uuid.UUID, action, entityType string, entityID uuid.UUID, meta map[string]any) AuditLog {
	return AuditLog{
		ActorUserID: &actor,
		ActorType:   ActorUser,
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
		Meta:        meta,
	}
}

// SystemAction records a background job or demo trigger.
func SystemAction(action, entityType string, entityID uuid.UUID, meta map[string]any) AuditLog {
	return AuditLog{
		ActorType:  ActorSystem,
		Action:     action,
		EntityType: entityType,
		EntityID:   &entityID,
		Meta:       meta,
	}
}
