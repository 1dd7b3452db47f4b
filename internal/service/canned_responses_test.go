package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachworks/canvass-backend/internal/model"
	"github.com/outreachworks/canvass-backend/internal/patch"
	"github.com/outreachworks/canvass-backend/internal/service"
)

func TestCannedResponseReplacementSwapsWholeSet(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(1, "SUPERVOLUNTEER", false)
	env.campaignRepo.put(&model.Campaign{ID: 6, OrganizationID: 1, JoinToken: "tok"})
	require.NoError(t, env.responseRepo.ReplaceForCampaign(6, []*model.CannedResponse{
		{Title: "Old", Text: "stale"},
	}))

	_, err := env.svc.EditCampaign(6, &service.CampaignPatch{
		CannedResponses: patch.Set([]*service.CannedResponseInput{
			{Title: "Polling place", Text: "vote.example.org", TagIDs: []int{3}},
			{Title: "Opt out", Text: "Removing you now."},
		}),
	}, user, nil)
	require.NoError(t, err)

	stored, err := env.responseRepo.ListByCampaign(6)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "Polling place", stored[0].Title)
	assert.Equal(t, []int{3}, stored[0].TagIDs)

	// The cache entry was invalidated, so a cached read sees the new set.
	cached, err := env.cache.LoadCannedResponses(6)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestCannedResponseReplacementAllOrNothing(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(1, "SUPERVOLUNTEER", false)
	env.campaignRepo.put(&model.Campaign{ID: 6, OrganizationID: 1, JoinToken: "tok"})
	require.NoError(t, env.responseRepo.ReplaceForCampaign(6, []*model.CannedResponse{
		{Title: "Original A", Text: "a"},
		{Title: "Original B", Text: "b"},
	}))

	// The third of four inserts fails: the transaction rolls back.
	env.responseRepo.failOnInsert = 3

	_, err := env.svc.EditCampaign(6, &service.CampaignPatch{
		CannedResponses: patch.Set([]*service.CannedResponseInput{
			{Title: "New 1"}, {Title: "New 2"}, {Title: "New 3"}, {Title: "New 4"},
		}),
	}, user, nil)
	require.Error(t, err)

	stored, err := env.responseRepo.ListByCampaign(6)
	require.NoError(t, err)
	require.Len(t, stored, 2, "failed replacement leaves the original set")
	assert.Equal(t, "Original A", stored[0].Title)
	assert.Equal(t, "Original B", stored[1].Title)
}

func TestEmptyCannedResponseListClearsSet(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(1, "SUPERVOLUNTEER", false)
	env.campaignRepo.put(&model.Campaign{ID: 6, OrganizationID: 1, JoinToken: "tok"})
	require.NoError(t, env.responseRepo.ReplaceForCampaign(6, []*model.CannedResponse{
		{Title: "Old", Text: "stale"},
	}))

	_, err := env.svc.EditCampaign(6, &service.CampaignPatch{
		CannedResponses: patch.Set([]*service.CannedResponseInput{}),
	}, user, nil)
	require.NoError(t, err)

	stored, err := env.responseRepo.ListByCampaign(6)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
