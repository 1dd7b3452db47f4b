// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/outreachworks/canvass-backend/internal/repository"
	"github.com/outreachworks/canvass-backend/internal/service"
	"github.com/outreachworks/canvass-backend/internal/van"
)

// CampaignHandler holds the dependencies for campaign read endpoints
type CampaignHandler struct {
	Service *service.CampaignService
	OrgRepo repository.OrganizationRepositoryInterface
	Van     *van.Client
}

// GetCampaignHandler returns a campaign with its script tree and
// canned responses
func (h *CampaignHandler) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	details, err := h.Service.GetCampaignDetails(id)
	if err != nil {
		log.Println("❌ Error fetching campaign:", err)
		http.Error(w, "failed to fetch campaign: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}

// ListOrganizationCampaignsHandler returns a paginated campaign list
// for one organization.
func (h *CampaignHandler) ListOrganizationCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid organization id", http.StatusBadRequest)
		return
	}

	page := 1
	pageSize := 20
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}
	offset := (page - 1) * pageSize

	campaigns, total, err := h.Service.CampaignRepo.ListByOrganization(orgID, offset, pageSize)
	if err != nil {
		http.Error(w, "failed to fetch campaigns: "+err.Error(), http.StatusInternalServerError)
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": campaigns,
		"pagination": map[string]int{
			"page":        page,
			"page_size":   pageSize,
			"total_count": total,
			"total_pages": totalPages,
		},
	})
}

// VanCampaignsHandler proxies the organization's VAN campaign list.
func (h *CampaignHandler) VanCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid organization id", http.StatusBadRequest)
		return
	}

	org, err := h.OrgRepo.GetByID(orgID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if org == nil {
		http.Error(w, "organization not found", http.StatusNotFound)
		return
	}

	campaigns, err := h.Van.ListCampaigns()
	if err != nil {
		log.Println("⚠️ VAN request failed:", err)
		http.Error(w, "canvassing API unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"organization_id": orgID,
		"van_campaigns":   campaigns,
	})
}
