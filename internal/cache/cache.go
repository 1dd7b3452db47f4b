package cache

import (
	"sync"

	"github.com/outreachworks/canvass-backend/internal/model"
)

// CampaignCache is the keyed invalidation cache consulted around
// campaign mutations. Clear is only called after the corresponding
// transaction commits.
type CampaignCache interface {
	Load(id int, forceLoad bool) (*model.Campaign, error)
	Clear(id int)
	LoadCannedResponses(campaignID int) ([]*model.CannedResponse, error)
	ClearCannedResponses(campaignID int)
}

// CampaignLoader is the slice of the campaign repository the cache
// loads through.
type CampaignLoader interface {
	GetByID(id int) (*model.Campaign, error)
}

// CannedResponseLoader loads a campaign's canned responses.
type CannedResponseLoader interface {
	ListByCampaign(campaignID int) ([]*model.CannedResponse, error)
}

// InMemoryCache is a load-through cache backed by the repositories.
type InMemoryCache struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	responses map[int][]*model.CannedResponse

	CampaignRepo CampaignLoader
	ResponseRepo CannedResponseLoader
}

func NewInMemoryCache(campaignRepo CampaignLoader, responseRepo CannedResponseLoader) *InMemoryCache {
	return &InMemoryCache{
		campaigns:    make(map[int]*model.Campaign),
		responses:    make(map[int][]*model.CannedResponse),
		CampaignRepo: campaignRepo,
		ResponseRepo: responseRepo,
	}
}

// Load returns the cached campaign unless forceLoad is set or the entry
// is missing, in which case it reloads from the store and repopulates.
func (c *InMemoryCache) Load(id int, forceLoad bool) (*model.Campaign, error) {
	c.mu.Lock()
	cached, ok := c.campaigns[id]
	c.mu.Unlock()

	if ok && !forceLoad {
		return cached, nil
	}

	fresh, err := c.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.campaigns[id] = fresh
	c.mu.Unlock()
	return fresh, nil
}

func (c *InMemoryCache) Clear(id int) {
	c.mu.Lock()
	delete(c.campaigns, id)
	c.mu.Unlock()
}

func (c *InMemoryCache) LoadCannedResponses(campaignID int) ([]*model.CannedResponse, error) {
	c.mu.Lock()
	cached, ok := c.responses[campaignID]
	c.mu.Unlock()

	if ok {
		return cached, nil
	}

	fresh, err := c.ResponseRepo.ListByCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.responses[campaignID] = fresh
	c.mu.Unlock()
	return fresh, nil
}

func (c *InMemoryCache) ClearCannedResponses(campaignID int) {
	c.mu.Lock()
	delete(c.responses, campaignID)
	c.mu.Unlock()
}

var _ CampaignCache = (*InMemoryCache)(nil)
