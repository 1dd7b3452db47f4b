// internal/service/edit_campaign.go
package service

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/outreachworks/canvass-backend/internal/auth"
	appErrors "github.com/outreachworks/canvass-backend/internal/errors"
	"github.com/outreachworks/canvass-backend/internal/model"
	"github.com/outreachworks/canvass-backend/internal/patch"
	"github.com/outreachworks/canvass-backend/internal/queue"
)

// TexterUIConfigInput carries the texter UI options blob merged into
// the campaign's features JSON.
type TexterUIConfigInput struct {
	Options string `json:"options"`
}

// CannedResponseInput is one replacement canned response.
type CannedResponseInput struct {
	Title             string `json:"title"`
	Text              string `json:"text"`
	TagIDs            []int  `json:"tag_ids"`
	AnswerActions     string `json:"answer_actions"`
	AnswerActionsData string `json:"answer_actions_data"`
}

// CampaignPatch is a sparse campaign update. Absent fields never touch
// their columns; explicit nulls clear nullable ones.
type CampaignPatch struct {
	OrganizationID                   patch.Field[int]       `json:"organization_id"`
	Title                            patch.Field[string]    `json:"title"`
	Description                      patch.Field[string]    `json:"description"`
	DueBy                            patch.Field[time.Time] `json:"due_by"`
	UseDynamicAssignment             patch.Field[bool]      `json:"use_dynamic_assignment"`
	BatchSize                        patch.Field[int]       `json:"batch_size"`
	BatchPolicies                    patch.Field[[]string]  `json:"batch_policies"`
	ResponseWindow                   patch.Field[int]       `json:"response_window"`
	LogoImageURL                     patch.Field[string]    `json:"logo_image_url"`
	IntroHTML                        patch.Field[string]    `json:"intro_html"`
	PrimaryColor                     patch.Field[string]    `json:"primary_color"`
	UseOwnMessagingService           patch.Field[bool]      `json:"use_own_messaging_service"`
	MessageserviceSid                patch.Field[string]    `json:"messageservice_sid"`
	OverrideOrganizationTextingHours patch.Field[bool]      `json:"override_organization_texting_hours"`
	TextingHoursEnforced             patch.Field[bool]      `json:"texting_hours_enforced"`
	TextingHoursStart                patch.Field[int]       `json:"texting_hours_start"`
	TextingHoursEnd                  patch.Field[int]       `json:"texting_hours_end"`
	Timezone                         patch.Field[string]    `json:"timezone"`
	VanCampaignID                    patch.Field[string]    `json:"van_campaign_id"`

	TexterUIConfig patch.Field[TexterUIConfigInput] `json:"texter_ui_config"`

	IngestMethod patch.Field[string]          `json:"ingest_method"`
	ContactData  patch.Field[json.RawMessage] `json:"contact_data"`
	Contacts     patch.Field[json.RawMessage] `json:"contacts"`
	Texters      patch.Field[json.RawMessage] `json:"texters"`

	InteractionSteps patch.Field[*InteractionStepInput]  `json:"interaction_steps"`
	CannedResponses  patch.Field[[]*CannedResponseInput] `json:"canned_responses"`
}

func applyField[T any](updates map[string]any, column string, f patch.Field[T]) {
	if !f.Defined {
		return
	}
	if f.Null {
		updates[column] = nil
		return
	}
	updates[column] = f.Value
}

func isURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// EditCampaign is the campaign mutation orchestrator. orig is the
// pre-mutation snapshot; pass nil to load it here. The returned record
// is cache-served, force-reloaded only when something changed.
func (s *CampaignService) EditCampaign(id int, p *CampaignPatch, user *model.User, orig *model.Campaign) (*model.Campaign, error) {
	var err error
	if orig == nil {
		orig, err = s.CampaignRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
	}

	// Moving between organizations needs ADMIN on the target org;
	// everything else needs SUPERVOLUNTEER on the current one.
	organizationID := orig.OrganizationID
	if newOrg, ok := p.OrganizationID.Get(); ok {
		if err := auth.AccessRequired(s.UserRepo, user, newOrg, auth.RoleAdmin, true); err != nil {
			return nil, err
		}
		organizationID = newOrg
	} else {
		if err := auth.AccessRequired(s.UserRepo, user, organizationID, auth.RoleSupervolunteer, true); err != nil {
			return nil, err
		}
	}

	// Contact lists are immutable once texting has begun.
	if orig.IsStarted {
		if _, ok := p.Contacts.Get(); ok {
			return nil, appErrors.NewValidationError("not allowed to add contacts after the campaign starts")
		}
	}

	updates := map[string]any{}
	applyField(updates, "organization_id", p.OrganizationID)
	applyField(updates, "title", p.Title)
	applyField(updates, "description", p.Description)
	applyField(updates, "due_by", p.DueBy)
	applyField(updates, "use_dynamic_assignment", p.UseDynamicAssignment)
	applyField(updates, "batch_size", p.BatchSize)
	applyField(updates, "response_window", p.ResponseWindow)
	applyField(updates, "logo_image_url", p.LogoImageURL)
	applyField(updates, "intro_html", p.IntroHTML)
	applyField(updates, "primary_color", p.PrimaryColor)
	applyField(updates, "use_own_messaging_service", p.UseOwnMessagingService)
	applyField(updates, "messageservice_sid", p.MessageserviceSid)
	applyField(updates, "override_organization_texting_hours", p.OverrideOrganizationTextingHours)
	applyField(updates, "texting_hours_enforced", p.TextingHoursEnforced)
	applyField(updates, "texting_hours_start", p.TextingHoursStart)
	applyField(updates, "texting_hours_end", p.TextingHoursEnd)
	applyField(updates, "timezone", p.Timezone)
	applyField(updates, "van_campaign_id", p.VanCampaignID)

	// A bad logo URL is coerced, never rejected.
	if v, present := updates["logo_image_url"]; present && v != nil && !isURL(v.(string)) {
		updates["logo_image_url"] = ""
	}

	// Mint a join token once; never overwrite an existing one.
	if orig.JoinToken == "" {
		updates["join_token"] = uuid.NewString()
	}

	// Texter UI settings and batch policies are merged into the
	// features blob. Replacing it wholesale would lose other flags.
	features := parseFeatures(orig.Features)
	featuresChanged := false
	if cfg, ok := p.TexterUIConfig.Get(); ok && cfg.Options != "" {
		features[FeatureTexterUISettings] = cfg.Options
		featuresChanged = true
	}
	if policies, ok := p.BatchPolicies.Get(); ok {
		features[FeatureDynamicAssignmentBatches] = strings.Join(policies, ",")
		featuresChanged = true
	}
	if featuresChanged {
		blob, err := json.Marshal(features)
		if err != nil {
			return nil, err
		}
		updates["features"] = string(blob)
	}

	// changed is tracked separately from column updates: jobs and
	// nested edits count as changes even when the campaign row itself
	// is untouched.
	changed := len(updates) > 0
	if changed {
		if err := s.CampaignRepo.UpdateColumns(id, updates); err != nil {
			return nil, err
		}
	}

	if ingestMethod, ok := p.IngestMethod.Get(); ok {
		if contactData, ok := p.ContactData.Get(); ok {
			// Ingestion is stricter than the base check.
			if err := auth.AccessRequired(s.UserRepo, user, organizationID, auth.RoleAdmin, true); err != nil {
				return nil, err
			}
			changed = true
			job := &model.JobRequest{
				CampaignID: id,
				QueueName:  fmt.Sprintf("%d:edit_campaign", id),
				JobType:    queue.IngestJobPrefix + ingestMethod,
				LocksQueue: true,
				Payload:    string(contactData),
			}
			if err := s.Dispatcher.DispatchJob(job); err != nil {
				// The row update already committed; enqueueing is
				// best-effort relative to it.
				log.Println("⚠️ failed to dispatch ingest job:", err)
			} else if err := s.CampaignRepo.ResetIngestState(id, ingestMethod); err != nil {
				return nil, err
			}
		}
	}

	if texters, ok := p.Texters.Get(); ok {
		changed = true
		payload, err := json.Marshal(map[string]any{
			"id":      id,
			"texters": json.RawMessage(texters),
		})
		if err != nil {
			return nil, err
		}
		job := &model.JobRequest{
			CampaignID: id,
			QueueName:  fmt.Sprintf("%d:edit_campaign", id),
			JobType:    queue.JobTypeAssignTexters,
			LocksQueue: true,
			Payload:    string(payload),
		}
		if err := s.Dispatcher.DispatchJob(job); err != nil {
			log.Println("⚠️ failed to dispatch assign_texters job:", err)
		}
	}

	if root, ok := p.InteractionSteps.Get(); ok && root != nil {
		changed = true
		if err := auth.AccessRequired(s.UserRepo, user, organizationID, auth.RoleSupervolunteer, true); err != nil {
			return nil, err
		}
		if err := s.updateInteractionSteps(id, []*InteractionStepInput{root}, orig, map[string]int{}); err != nil {
			return nil, err
		}
		s.Cache.Clear(id)
	}

	if p.CannedResponses.Defined {
		changed = true
		responses, _ := p.CannedResponses.Get()
		converted := make([]*model.CannedResponse, 0, len(responses))
		for _, r := range responses {
			converted = append(converted, &model.CannedResponse{
				CampaignID:        id,
				Title:             r.Title,
				Text:              r.Text,
				TagIDs:            r.TagIDs,
				AnswerActions:     r.AnswerActions,
				AnswerActionsData: r.AnswerActionsData,
			})
		}
		if err := s.ResponseRepo.ReplaceForCampaign(id, converted); err != nil {
			return nil, err
		}
		// Only after the transaction commits.
		s.Cache.ClearCannedResponses(id)
	}

	return s.Cache.Load(id, changed)
}
