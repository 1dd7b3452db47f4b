package service_test

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/outreachworks/canvass-backend/internal/cache"
	appErrors "github.com/outreachworks/canvass-backend/internal/errors"
	"github.com/outreachworks/canvass-backend/internal/model"
	"github.com/outreachworks/canvass-backend/internal/service"
)

// --- Fake campaign repository ---

type fakeCampaignRepo struct {
	mu          sync.Mutex
	campaigns   map[int]*model.Campaign
	admins      map[int]*model.CampaignAdmin
	nextID      int
	updateCalls []map[string]any
	resetCalls  []string
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns: map[int]*model.Campaign{},
		admins:    map[int]*model.CampaignAdmin{},
	}
}

func (f *fakeCampaignRepo) put(c *model.Campaign) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID > f.nextID {
		f.nextID = c.ID
	}
	cp := *c
	f.campaigns[c.ID] = &cp
}

func (f *fakeCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaignRepo) Create(c *model.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	cp := *c
	f.campaigns[c.ID] = &cp
	return nil
}

func (f *fakeCampaignRepo) UpdateColumns(id int, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	f.updateCalls = append(f.updateCalls, updates)
	for k, v := range updates {
		switch k {
		case "title":
			c.Title = v.(string)
		case "description":
			c.Description = v.(string)
		case "organization_id":
			c.OrganizationID = v.(int)
		case "join_token":
			c.JoinToken = v.(string)
		case "features":
			c.Features = v.(string)
		case "logo_image_url":
			c.LogoImageURL = v.(string)
		case "batch_size":
			c.BatchSize = v.(int)
		case "response_window":
			c.ResponseWindow = v.(int)
		case "timezone":
			c.Timezone = v.(string)
		case "van_campaign_id":
			if v == nil {
				c.VanCampaignID = nil
			} else {
				s := v.(string)
				c.VanCampaignID = &s
			}
		case "due_by":
			if v == nil {
				c.DueBy = nil
			} else {
				t := v.(time.Time)
				c.DueBy = &t
			}
		}
	}
	now := time.Now()
	c.UpdatedAt = &now
	return nil
}

func (f *fakeCampaignRepo) SetArchived(id int, archived bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.IsArchived = archived
	return nil
}

func (f *fakeCampaignRepo) ListByOrganization(organizationID int, offset, limit int) ([]*model.Campaign, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Campaign{}
	for _, c := range f.campaigns {
		if c.OrganizationID == organizationID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (f *fakeCampaignRepo) CreateAdminRow(campaignID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admins[campaignID] = &model.CampaignAdmin{CampaignID: campaignID}
	return nil
}

func (f *fakeCampaignRepo) ResetIngestState(campaignID int, ingestMethod string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls = append(f.resetCalls, fmt.Sprintf("%d:%s", campaignID, ingestMethod))
	if a, ok := f.admins[campaignID]; ok {
		a.ContactsCount = nil
		a.IngestMethod = &ingestMethod
		a.IngestSuccess = nil
	}
	return nil
}

func (f *fakeCampaignRepo) UpdateIngestResult(campaignID int, contactsCount int, success bool, resultRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.admins[campaignID]; ok {
		a.ContactsCount = &contactsCount
		a.IngestSuccess = &success
		a.IngestDataReference = &resultRef
	}
	return nil
}

func (f *fakeCampaignRepo) GetAdminRow(campaignID int) (*model.CampaignAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[campaignID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// --- Fake interaction step repository ---

type fakeStepRepo struct {
	mu     sync.Mutex
	steps  map[int]*model.InteractionStep
	nextID int
}

func newFakeStepRepo() *fakeStepRepo {
	return &fakeStepRepo{steps: map[int]*model.InteractionStep{}}
}

func (f *fakeStepRepo) put(s *model.InteractionStep) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID > f.nextID {
		f.nextID = s.ID
	}
	cp := *s
	f.steps[s.ID] = &cp
}

func (f *fakeStepRepo) Insert(step *model.InteractionStep) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	step.ID = f.nextID
	cp := *step
	f.steps[step.ID] = &cp
	return nil
}

func (f *fakeStepRepo) UpdateFields(step *model.InteractionStep) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.steps[step.ID]
	if !ok {
		return fmt.Errorf("step %d not found", step.ID)
	}
	existing.Question = step.Question
	existing.Script = step.Script
	existing.AnswerOption = step.AnswerOption
	existing.AnswerActions = step.AnswerActions
	existing.AnswerActionsData = step.AnswerActionsData
	existing.IsDeleted = step.IsDeleted
	return nil
}

func (f *fakeStepRepo) Delete(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.steps, id)
	return nil
}

func (f *fakeStepRepo) ListByCampaign(campaignID int, includeDeleted bool) ([]*model.InteractionStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.InteractionStep{}
	for _, s := range f.steps {
		if s.CampaignID != campaignID {
			continue
		}
		if !includeDeleted && s.IsDeleted {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- Fake canned response repository ---

type fakeResponseRepo struct {
	mu     sync.Mutex
	sets   map[int][]*model.CannedResponse
	nextID int

	// failOnInsert fails the replacement once the nth response would be
	// inserted, leaving the stored set untouched, like a rolled-back tx.
	failOnInsert int
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{sets: map[int][]*model.CannedResponse{}}
}

func (f *fakeResponseRepo) ReplaceForCampaign(campaignID int, responses []*model.CannedResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOnInsert > 0 && len(responses) >= f.failOnInsert {
		return fmt.Errorf("insert failed for response %d", f.failOnInsert)
	}
	replaced := make([]*model.CannedResponse, 0, len(responses))
	for _, r := range responses {
		f.nextID++
		cp := *r
		cp.ID = f.nextID
		cp.CampaignID = campaignID
		replaced = append(replaced, &cp)
	}
	f.sets[campaignID] = replaced
	return nil
}

func (f *fakeResponseRepo) ListByCampaign(campaignID int) ([]*model.CannedResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.CannedResponse{}
	for _, r := range f.sets[campaignID] {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

// --- Fake org/user/job repositories ---

type fakeOrgRepo struct {
	orgs map[int]*model.Organization
}

func (f *fakeOrgRepo) GetByID(id int) (*model.Organization, error) {
	if o, ok := f.orgs[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

type fakeUserRepo struct {
	users map[int]*model.User
	roles map[string]string // "userID:orgID" -> role
}

func roleKey(userID, organizationID int) string {
	return fmt.Sprintf("%d:%d", userID, organizationID)
}

func (f *fakeUserRepo) GetByID(id int) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetOrganizationRole(userID, organizationID int) (string, error) {
	return f.roles[roleKey(userID, organizationID)], nil
}

type fakeJobRepo struct {
	mu     sync.Mutex
	jobs   map[int]*model.JobRequest
	nextID int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[int]*model.JobRequest{}}
}

func (f *fakeJobRepo) Create(job *model.JobRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	job.ID = f.nextID
	job.CreatedAt = time.Now()
	if job.Status == "" {
		job.Status = "pending"
	}
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) UpdateStatus(id int, status, resultMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.jobs[id]; ok {
		j.Status = status
		j.ResultMessage = resultMessage
	}
	return nil
}

func (f *fakeJobRepo) Delete(campaignID, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.jobs[id]; ok && j.CampaignID == campaignID {
		delete(f.jobs, id)
	}
	return nil
}

func (f *fakeJobRepo) GetByID(id int) (*model.JobRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

// --- Fake dispatcher ---

type fakeDispatcher struct {
	mu     sync.Mutex
	jobs   []*model.JobRequest
	tasks  []string
	nextID int
}

func (f *fakeDispatcher) DispatchJob(job *model.JobRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	job.ID = f.nextID
	cp := *job
	f.jobs = append(f.jobs, &cp)
	return nil
}

func (f *fakeDispatcher) DispatchTask(taskName string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, taskName)
	return nil
}

// --- Test harness ---

type testEnv struct {
	campaignRepo *fakeCampaignRepo
	stepRepo     *fakeStepRepo
	responseRepo *fakeResponseRepo
	orgRepo      *fakeOrgRepo
	userRepo     *fakeUserRepo
	jobRepo      *fakeJobRepo
	dispatcher   *fakeDispatcher
	cache        *cache.InMemoryCache
	svc          *service.CampaignService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		campaignRepo: newFakeCampaignRepo(),
		stepRepo:     newFakeStepRepo(),
		responseRepo: newFakeResponseRepo(),
		orgRepo:      &fakeOrgRepo{orgs: map[int]*model.Organization{}},
		userRepo:     &fakeUserRepo{users: map[int]*model.User{}, roles: map[string]string{}},
		jobRepo:      newFakeJobRepo(),
		dispatcher:   &fakeDispatcher{},
	}
	env.cache = cache.NewInMemoryCache(env.campaignRepo, env.responseRepo)
	env.svc = &service.CampaignService{
		CampaignRepo: env.campaignRepo,
		StepRepo:     env.stepRepo,
		ResponseRepo: env.responseRepo,
		OrgRepo:      env.orgRepo,
		UserRepo:     env.userRepo,
		JobRepo:      env.jobRepo,
		Cache:        env.cache,
		Dispatcher:   env.dispatcher,
	}
	env.orgRepo.orgs[1] = &model.Organization{ID: 1, UUID: "org-1", Name: "Test Org"}
	return env
}

func (env *testEnv) addUser(id int, role string, superadmin bool) *model.User {
	u := &model.User{ID: id, Email: fmt.Sprintf("user%d@example.org", id), IsSuperadmin: superadmin}
	env.userRepo.users[id] = u
	if role != "" {
		env.userRepo.roles[roleKey(id, 1)] = role
	}
	return u
}
