// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/outreachworks/canvass-backend/internal/errors"
	"github.com/outreachworks/canvass-backend/internal/model"
	"github.com/outreachworks/canvass-backend/internal/repository"
	"github.com/outreachworks/canvass-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	UserRepo        repository.UserRepositoryInterface
}

// actingUser resolves the caller from the X-User-ID header. Session
// handling lives upstream; the header stands in for it here.
func (c *CampaignController) actingUser(r *http.Request) (*model.User, error) {
	idStr := r.Header.Get("X-User-ID")
	if idStr == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, err
	}
	return c.UserRepo.GetByID(id)
}

func writeError(w http.ResponseWriter, err error) {
	var authErr *appErrors.AuthorizationError
	var valErr *appErrors.ValidationError
	var notFound *appErrors.ErrCampaignNotFound
	switch {
	case errors.As(err, &authErr):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &valErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body service.CampaignPatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	user, err := c.actingUser(r)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(&body, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, campaign)
}

func (c *CampaignController) EditCampaign(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	var body service.CampaignPatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	user, err := c.actingUser(r)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.EditCampaign(id, &body, user, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, campaign)
}

func (c *CampaignController) CopyCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	user, err := c.actingUser(r)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CopyCampaign(id, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, campaign)
}

func (c *CampaignController) ArchiveCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	user, err := c.actingUser(r)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.ArchiveCampaign(id, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, campaign)
}

func (c *CampaignController) UnarchiveCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	user, err := c.actingUser(r)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.UnarchiveCampaign(id, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, campaign)
}

func (c *CampaignController) MoveOrganization(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var body struct {
		OrganizationID int `json:"organization_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	user, err := c.actingUser(r)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.MoveCampaignOrganization(id, body.OrganizationID, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, campaign)
}

func (c *CampaignController) WarmCache(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	user, err := c.actingUser(r)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	if err := c.CampaignService.WarmCampaignCache(id, user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"campaign_id": id, "status": "warming"})
}

func (c *CampaignController) DeleteJob(w http.ResponseWriter, r *http.Request) {
	campaignID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	jobID, _ := strconv.Atoi(chi.URLParam(r, "jobID"))

	user, err := c.actingUser(r)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	if err := c.CampaignService.DeleteJob(campaignID, jobID, user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"id": jobID})
}
