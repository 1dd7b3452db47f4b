package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	appErrors "github.com/outreachworks/canvass-backend/internal/errors"
	"github.com/outreachworks/canvass-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	// Campaign CRUD
	GetByID(id int) (*model.Campaign, error)
	Create(c *model.Campaign) error
	UpdateColumns(id int, updates map[string]any) error
	SetArchived(id int, archived bool) error
	ListByOrganization(organizationID int, offset, limit int) ([]*model.Campaign, int, error)

	// campaign_admin row
	CreateAdminRow(campaignID int) error
	ResetIngestState(campaignID int, ingestMethod string) error
	UpdateIngestResult(campaignID int, contactsCount int, success bool, resultRef string) error
	GetAdminRow(campaignID int) (*model.CampaignAdmin, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, organization_id, creator_id, title, description, due_by,
        is_started, is_archived, join_token, batch_size, response_window,
        use_dynamic_assignment, use_own_messaging_service, messageservice_sid,
        override_organization_texting_hours, texting_hours_enforced,
        texting_hours_start, texting_hours_end, timezone,
        intro_html, primary_color, logo_image_url, features, van_campaign_id,
        created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.CreatorID, &c.Title, &c.Description, &c.DueBy,
		&c.IsStarted, &c.IsArchived, &c.JoinToken, &c.BatchSize, &c.ResponseWindow,
		&c.UseDynamicAssignment, &c.UseOwnMessagingService, &c.MessageserviceSid,
		&c.OverrideOrganizationTextingHours, &c.TextingHoursEnforced,
		&c.TextingHoursStart, &c.TextingHoursEnd, &c.Timezone,
		&c.IntroHTML, &c.PrimaryColor, &c.LogoImageURL, &c.Features, &c.VanCampaignID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO campaign (organization_id, creator_id, title, description, due_by,
            is_started, is_archived, join_token, batch_size, response_window,
            use_dynamic_assignment, use_own_messaging_service, messageservice_sid,
            override_organization_texting_hours, texting_hours_enforced,
            texting_hours_start, texting_hours_end, timezone,
            intro_html, primary_color, logo_image_url, features, van_campaign_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
            $16, $17, $18, $19, $20, $21, $22, $23, $24)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		c.OrganizationID, c.CreatorID, c.Title, c.Description, c.DueBy,
		c.IsStarted, c.IsArchived, c.JoinToken, c.BatchSize, c.ResponseWindow,
		c.UseDynamicAssignment, c.UseOwnMessagingService, c.MessageserviceSid,
		c.OverrideOrganizationTextingHours, c.TextingHoursEnforced,
		c.TextingHoursStart, c.TextingHoursEnd, c.Timezone,
		c.IntroHTML, c.PrimaryColor, c.LogoImageURL, c.Features, c.VanCampaignID,
		c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaign WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

// UpdateColumns applies a sparse column update built by the service
// layer. Keys are campaign column names; a nil value writes NULL.
func (r *CampaignRepository) UpdateColumns(id int, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	// Sorted for stable statements.
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := `UPDATE campaign SET `
	args := []interface{}{}
	argPos := 1
	for _, k := range keys {
		if argPos > 1 {
			query += ", "
		}
		query += fmt.Sprintf("%s=$%d", k, argPos)
		args = append(args, updates[k])
		argPos++
	}
	query += fmt.Sprintf(", updated_at=NOW() WHERE id=$%d", argPos)
	args = append(args, id)

	_, err := r.DB.Exec(query, args...)
	return err
}

func (r *CampaignRepository) SetArchived(id int, archived bool) error {
	query := `UPDATE campaign SET is_archived=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, archived, id)
	return err
}

func (r *CampaignRepository) ListByOrganization(organizationID int, offset, limit int) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaign WHERE organization_id=$1 ORDER BY id DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.Query(query, organizationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaign WHERE organization_id=$1`, organizationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// ====================== campaign_admin ======================

func (r *CampaignRepository) CreateAdminRow(campaignID int) error {
	_, err := r.DB.Exec(`INSERT INTO campaign_admin (campaign_id) VALUES ($1)`, campaignID)
	return err
}

// ResetIngestState marks an ingest as in-flight: readers see NULL
// counts until the worker reports back.
func (r *CampaignRepository) ResetIngestState(campaignID int, ingestMethod string) error {
	query := `
        UPDATE campaign_admin
        SET contacts_count=NULL, ingest_method=$1, ingest_success=NULL
        WHERE campaign_id=$2
    `
	_, err := r.DB.Exec(query, ingestMethod, campaignID)
	return err
}

func (r *CampaignRepository) UpdateIngestResult(campaignID int, contactsCount int, success bool, resultRef string) error {
	query := `
        UPDATE campaign_admin
        SET contacts_count=$1, ingest_success=$2, ingest_data_reference=$3
        WHERE campaign_id=$4
    `
	_, err := r.DB.Exec(query, contactsCount, success, resultRef, campaignID)
	return err
}

func (r *CampaignRepository) GetAdminRow(campaignID int) (*model.CampaignAdmin, error) {
	query := `
        SELECT campaign_id, contacts_count, ingest_method, ingest_success, ingest_data_reference
        FROM campaign_admin WHERE campaign_id=$1
    `
	var a model.CampaignAdmin
	err := r.DB.QueryRow(query, campaignID).Scan(
		&a.CampaignID, &a.ContactsCount, &a.IngestMethod, &a.IngestSuccess, &a.IngestDataReference,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
