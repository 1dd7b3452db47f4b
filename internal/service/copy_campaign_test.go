package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachworks/canvass-backend/internal/model"
)

func intPtr(n int) *int { return &n }

func TestCopyCampaignRewritesTitleAndToken(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(1, "ADMIN", false)
	env.campaignRepo.put(&model.Campaign{
		ID: 4, OrganizationID: 1, Title: "GOTV template",
		JoinToken: "source-token", IsStarted: true, IsArchived: true,
		BatchSize: 150, ResponseWindow: 24,
	})

	clone, err := env.svc.CopyCampaign(4, user)
	require.NoError(t, err)

	assert.Equal(t, "COPY - GOTV", clone.Title)
	assert.NotEqual(t, "source-token", clone.JoinToken)
	assert.NotEmpty(t, clone.JoinToken)
	assert.False(t, clone.IsStarted)
	assert.False(t, clone.IsArchived)
	assert.Equal(t, 150, clone.BatchSize)
}

func TestCopyCampaignClonesStepTree(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(1, "ADMIN", false)
	env.campaignRepo.put(&model.Campaign{ID: 4, OrganizationID: 1, Title: "Source", JoinToken: "tok"})

	env.stepRepo.put(&model.InteractionStep{ID: 1, CampaignID: 4, Script: "root script"})
	env.stepRepo.put(&model.InteractionStep{ID: 2, CampaignID: 4, ParentInteractionID: intPtr(1), AnswerOption: "Yes", Script: "child script"})
	env.stepRepo.put(&model.InteractionStep{ID: 3, CampaignID: 4, ParentInteractionID: intPtr(1), Script: "dead branch", IsDeleted: true})

	clone, err := env.svc.CopyCampaign(4, user)
	require.NoError(t, err)

	cloned, err := env.stepRepo.ListByCampaign(clone.ID, true)
	require.NoError(t, err)
	require.Len(t, cloned, 2, "soft-deleted steps are not copied")

	var root, child *model.InteractionStep
	for _, s := range cloned {
		if s.ParentInteractionID == nil {
			root = s
		} else {
			child = s
		}
	}
	require.NotNil(t, root)
	require.NotNil(t, child)
	assert.Equal(t, "root script", root.Script)
	assert.Equal(t, root.ID, *child.ParentInteractionID)
	assert.Equal(t, "Yes", child.AnswerOption)
}

func TestCopyCampaignClonesCannedResponsesWithTags(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(1, "ADMIN", false)
	env.campaignRepo.put(&model.Campaign{ID: 4, OrganizationID: 1, Title: "Source", JoinToken: "tok"})
	require.NoError(t, env.responseRepo.ReplaceForCampaign(4, []*model.CannedResponse{
		{Title: "Polling place", Text: "Find yours at vote.example.org", TagIDs: []int{2, 7}},
		{Title: "Opt out", Text: "We will remove you."},
	}))

	clone, err := env.svc.CopyCampaign(4, user)
	require.NoError(t, err)

	copied, err := env.responseRepo.ListByCampaign(clone.ID)
	require.NoError(t, err)
	require.Len(t, copied, 2)
	assert.Equal(t, "Polling place", copied[0].Title)
	assert.Equal(t, []int{2, 7}, copied[0].TagIDs)
	assert.Equal(t, clone.ID, copied[0].CampaignID)
}
