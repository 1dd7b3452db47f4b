// internal/model/campaign.go
package model

import "time"

type Campaign struct {
	ID                               int        `db:"id" json:"id"`
	OrganizationID                   int        `db:"organization_id" json:"organization_id"`
	CreatorID                        int        `db:"creator_id" json:"creator_id"`
	Title                            string     `db:"title" json:"title"`
	Description                      string     `db:"description" json:"description"`
	DueBy                            *time.Time `db:"due_by" json:"due_by,omitempty"`
	IsStarted                        bool       `db:"is_started" json:"is_started"`
	IsArchived                       bool       `db:"is_archived" json:"is_archived"`
	JoinToken                        string     `db:"join_token" json:"join_token"`
	BatchSize                        int        `db:"batch_size" json:"batch_size"`
	ResponseWindow                   int        `db:"response_window" json:"response_window"`
	UseDynamicAssignment             bool       `db:"use_dynamic_assignment" json:"use_dynamic_assignment"`
	UseOwnMessagingService           bool       `db:"use_own_messaging_service" json:"use_own_messaging_service"`
	MessageserviceSid                string     `db:"messageservice_sid" json:"messageservice_sid"`
	OverrideOrganizationTextingHours bool       `db:"override_organization_texting_hours" json:"override_organization_texting_hours"`
	TextingHoursEnforced             bool       `db:"texting_hours_enforced" json:"texting_hours_enforced"`
	TextingHoursStart                int        `db:"texting_hours_start" json:"texting_hours_start"`
	TextingHoursEnd                  int        `db:"texting_hours_end" json:"texting_hours_end"`
	Timezone                         string     `db:"timezone" json:"timezone"`
	IntroHTML                        string     `db:"intro_html" json:"intro_html"`
	PrimaryColor                     string     `db:"primary_color" json:"primary_color"`
	LogoImageURL                     string     `db:"logo_image_url" json:"logo_image_url"`
	Features                         string     `db:"features" json:"features"` // opaque JSON blob of feature flags
	VanCampaignID                    *string    `db:"van_campaign_id" json:"van_campaign_id,omitempty"`
	CreatedAt                        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CampaignAdmin tracks contact ingestion state for a single campaign.
// A row is created alongside every campaign.
type CampaignAdmin struct {
	CampaignID          int     `db:"campaign_id" json:"campaign_id"`
	ContactsCount       *int    `db:"contacts_count" json:"contacts_count,omitempty"`
	IngestMethod        *string `db:"ingest_method" json:"ingest_method,omitempty"`
	IngestSuccess       *bool   `db:"ingest_success" json:"ingest_success,omitempty"`
	IngestDataReference *string `db:"ingest_data_reference" json:"ingest_data_reference,omitempty"`
}
