// internal/service/campaign_service.go
package service

import (
	"log"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/outreachworks/canvass-backend/internal/auth"
	"github.com/outreachworks/canvass-backend/internal/cache"
	appErrors "github.com/outreachworks/canvass-backend/internal/errors"
	"github.com/outreachworks/canvass-backend/internal/model"
	"github.com/outreachworks/canvass-backend/internal/queue"
	"github.com/outreachworks/canvass-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	StepRepo     repository.InteractionStepRepositoryInterface
	ResponseRepo repository.CannedResponseRepositoryInterface
	OrgRepo      repository.OrganizationRepositoryInterface
	UserRepo     repository.UserRepositoryInterface
	JobRepo      repository.JobRequestRepositoryInterface
	Cache        cache.CampaignCache
	Dispatcher   queue.Dispatcher
}

// CampaignDetails is the read-side view with nested data.
type CampaignDetails struct {
	Campaign        *model.Campaign         `json:"campaign"`
	Admin           *model.CampaignAdmin    `json:"admin,omitempty"`
	Steps           []*model.InteractionStep `json:"interaction_steps"`
	CannedResponses []*model.CannedResponse `json:"canned_responses"`
}

// CreateCampaign makes the base record with org defaults, then runs the
// rest of the input through the edit path so nested pieces (steps,
// canned responses, jobs) are handled one way only.
func (s *CampaignService) CreateCampaign(p *CampaignPatch, user *model.User) (*model.Campaign, error) {
	organizationID, ok := p.OrganizationID.Get()
	if !ok {
		return nil, appErrors.NewValidationError("organization_id is required")
	}
	if err := auth.AccessRequired(s.UserRepo, user, organizationID, auth.RoleAdmin, true); err != nil {
		return nil, err
	}

	org, err := s.OrgRepo.GetByID(organizationID)
	if err != nil {
		return nil, err
	}

	title, _ := p.Title.Get()
	description, _ := p.Description.Get()
	c := &model.Campaign{
		OrganizationID: organizationID,
		CreatorID:      user.ID,
		Title:          title,
		Description:    description,
		IsStarted:      false,
		IsArchived:     false,
		JoinToken:      uuid.NewString(),
		BatchSize:      orgConfigInt(org, ConfigDefaultBatchSize, 300),
		ResponseWindow: orgConfigInt(org, ConfigDefaultResponseWindow, 48),
		Timezone:       orgConfigString(org, ConfigReferenceTimezone, ""),
	}
	if due, ok := p.DueBy.Get(); ok {
		c.DueBy = &due
	}
	if vanID, ok := p.VanCampaignID.Get(); ok {
		c.VanCampaignID = &vanID
	}

	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	if err := s.CampaignRepo.CreateAdminRow(c.ID); err != nil {
		return nil, err
	}

	return s.EditCampaign(c.ID, p, user, c)
}

var templateSuffix = regexp.MustCompile(`(?i)\s*template\W*`)

func copyTitle(title string) string {
	if loc := templateSuffix.FindStringIndex(title); loc != nil {
		title = title[:loc[0]] + title[loc[1]:]
	}
	return "COPY - " + title
}

// CopyCampaign clones a campaign, its live script tree and its canned
// responses. The clone starts unstarted and unarchived with a fresh
// join token; contacts and messages are never copied.
func (s *CampaignService) CopyCampaign(id int, user *model.User) (*model.Campaign, error) {
	campaign, err := s.Cache.Load(id, false)
	if err != nil {
		return nil, err
	}
	if err := auth.AccessRequired(s.UserRepo, user, campaign.OrganizationID, auth.RoleAdmin, false); err != nil {
		return nil, err
	}

	org, err := s.OrgRepo.GetByID(campaign.OrganizationID)
	if err != nil {
		return nil, err
	}

	batchSize := campaign.BatchSize
	if batchSize == 0 {
		batchSize = orgConfigInt(org, ConfigDefaultBatchSize, 300)
	}
	responseWindow := campaign.ResponseWindow
	if responseWindow == 0 {
		responseWindow = orgConfigInt(org, ConfigDefaultResponseWindow, 48)
	}

	clone := &model.Campaign{
		OrganizationID:                   campaign.OrganizationID,
		CreatorID:                        user.ID,
		Title:                            copyTitle(campaign.Title),
		Description:                      campaign.Description,
		DueBy:                            campaign.DueBy,
		VanCampaignID:                    campaign.VanCampaignID,
		Features:                         campaign.Features,
		IntroHTML:                        campaign.IntroHTML,
		PrimaryColor:                     campaign.PrimaryColor,
		LogoImageURL:                     campaign.LogoImageURL,
		OverrideOrganizationTextingHours: campaign.OverrideOrganizationTextingHours,
		TextingHoursEnforced:             campaign.TextingHoursEnforced,
		TextingHoursStart:                campaign.TextingHoursStart,
		TextingHoursEnd:                  campaign.TextingHoursEnd,
		Timezone:                         campaign.Timezone,
		UseDynamicAssignment:             campaign.UseDynamicAssignment,
		BatchSize:                        batchSize,
		ResponseWindow:                   responseWindow,
		IsStarted:                        false,
		IsArchived:                       false,
		JoinToken:                        uuid.NewString(),
	}
	if err := s.CampaignRepo.Create(clone); err != nil {
		return nil, err
	}
	if err := s.CampaignRepo.CreateAdminRow(clone.ID); err != nil {
		return nil, err
	}

	// Ordered by original id so the copy is deterministic.
	steps, err := s.StepRepo.ListByCampaign(id, false)
	if err != nil {
		return nil, err
	}
	inputs := make([]*InteractionStepInput, 0, len(steps))
	for _, step := range steps {
		in := &InteractionStepInput{
			ID:                "new" + strconv.Itoa(step.ID),
			Question:          step.Question,
			Script:            step.Script,
			AnswerOption:      step.AnswerOption,
			AnswerActions:     step.AnswerActions,
			AnswerActionsData: step.AnswerActionsData,
		}
		if step.ParentInteractionID != nil {
			in.ParentInteractionID = "new" + strconv.Itoa(*step.ParentInteractionID)
		}
		inputs = append(inputs, in)
	}
	if err := s.updateInteractionSteps(clone.ID, buildStepTree(inputs), campaign, map[string]int{}); err != nil {
		return nil, err
	}

	responses, err := s.ResponseRepo.ListByCampaign(id)
	if err != nil {
		return nil, err
	}
	copies := make([]*model.CannedResponse, 0, len(responses))
	for _, r := range responses {
		copies = append(copies, &model.CannedResponse{
			CampaignID:        clone.ID,
			Title:             r.Title,
			Text:              r.Text,
			TagIDs:            r.TagIDs,
			AnswerActions:     r.AnswerActions,
			AnswerActionsData: r.AnswerActionsData,
		})
	}
	if len(copies) > 0 {
		if err := s.ResponseRepo.ReplaceForCampaign(clone.ID, copies); err != nil {
			return nil, err
		}
	}

	return clone, nil
}

func (s *CampaignService) ArchiveCampaign(id int, user *model.User) (*model.Campaign, error) {
	campaign, err := s.Cache.Load(id, false)
	if err != nil {
		return nil, err
	}
	if err := auth.AccessRequired(s.UserRepo, user, campaign.OrganizationID, auth.RoleAdmin, true); err != nil {
		return nil, err
	}
	if err := s.CampaignRepo.SetArchived(id, true); err != nil {
		return nil, err
	}
	s.Cache.Clear(id)
	return s.Cache.Load(id, true)
}

func (s *CampaignService) UnarchiveCampaign(id int, user *model.User) (*model.Campaign, error) {
	campaign, err := s.Cache.Load(id, false)
	if err != nil {
		return nil, err
	}
	if err := auth.AccessRequired(s.UserRepo, user, campaign.OrganizationID, auth.RoleAdmin, true); err != nil {
		return nil, err
	}
	// Permanent archival is terminal.
	if featureBool(campaign.Features, FeatureArchivedPermanently) {
		return nil, appErrors.NewValidationError("cannot unarchive permanently archived campaign")
	}
	if err := s.CampaignRepo.SetArchived(id, false); err != nil {
		return nil, err
	}
	s.Cache.Clear(id)
	return s.Cache.Load(id, true)
}

// MoveCampaignOrganization re-parents a campaign onto another
// organization. Superadmin only; there is deliberately no implicit path
// to this through EditCampaign's description field.
func (s *CampaignService) MoveCampaignOrganization(id, organizationID int, user *model.User) (*model.Campaign, error) {
	if user == nil || !user.IsSuperadmin {
		return nil, appErrors.NewAuthorizationError(userID(user), organizationID, "SUPERADMIN")
	}
	org, err := s.OrgRepo.GetByID(organizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, appErrors.NewValidationError("organization %d not found", organizationID)
	}
	if err := s.CampaignRepo.UpdateColumns(id, map[string]any{"organization_id": organizationID}); err != nil {
		return nil, err
	}
	s.Cache.Clear(id)
	return s.Cache.Load(id, true)
}

func userID(u *model.User) int {
	if u == nil {
		return 0
	}
	return u.ID
}

// WarmCampaignCache force-loads the campaign and dispatches the
// cache-priming task the worker runs before a campaign starts.
func (s *CampaignService) WarmCampaignCache(id int, user *model.User) error {
	campaign, err := s.Cache.Load(id, true)
	if err != nil {
		return err
	}
	if err := auth.AccessRequired(s.UserRepo, user, campaign.OrganizationID, auth.RoleAdmin, true); err != nil {
		return err
	}
	org, err := s.OrgRepo.GetByID(campaign.OrganizationID)
	if err != nil {
		return err
	}
	if err := s.Dispatcher.DispatchTask(queue.TaskCampaignStartCache, map[string]any{
		"campaign":     campaign,
		"organization": org,
	}); err != nil {
		log.Println("⚠️ failed to dispatch cache warm task:", err)
		return err
	}
	return nil
}

func (s *CampaignService) DeleteJob(campaignID, jobID int, user *model.User) error {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}
	if err := auth.AccessRequired(s.UserRepo, user, campaign.OrganizationID, auth.RoleAdmin, true); err != nil {
		return err
	}
	return s.JobRepo.Delete(campaignID, jobID)
}

// GetCampaignDetails assembles the campaign with its script tree and
// canned responses, both cache-served.
func (s *CampaignService) GetCampaignDetails(id int) (*CampaignDetails, error) {
	campaign, err := s.Cache.Load(id, false)
	if err != nil {
		return nil, err
	}
	admin, err := s.CampaignRepo.GetAdminRow(id)
	if err != nil {
		return nil, err
	}
	steps, err := s.StepRepo.ListByCampaign(id, false)
	if err != nil {
		return nil, err
	}
	responses, err := s.Cache.LoadCannedResponses(id)
	if err != nil {
		return nil, err
	}
	return &CampaignDetails{
		Campaign:        campaign,
		Admin:           admin,
		Steps:           steps,
		CannedResponses: responses,
	}, nil
}
