// internal/service/interaction_steps.go
package service

import (
	"strconv"
	"strings"

	"github.com/outreachworks/canvass-backend/internal/model"
)

// InteractionStepInput is one node of the client's script tree. New
// nodes carry a temporary id containing "new"; their children may refer
// to that temporary id as parent.
type InteractionStepInput struct {
	ID                  string                  `json:"id"`
	ParentInteractionID string                  `json:"parent_interaction_id"`
	Question            string                  `json:"question"`
	Script              string                  `json:"script"`
	AnswerOption        string                  `json:"answer_option"`
	AnswerActions       string                  `json:"answer_actions"`
	AnswerActionsData   string                  `json:"answer_actions_data"`
	IsDeleted           bool                    `json:"is_deleted"`
	InteractionSteps    []*InteractionStepInput `json:"interaction_steps"`
}

// flattenSteps lists the forest pre-order so every parent precedes its
// children. A node without an id is dropped together with its subtree.
func flattenSteps(steps []*InteractionStepInput) []*InteractionStepInput {
	flat := []*InteractionStepInput{}
	for _, is := range steps {
		if is == nil || is.ID == "" {
			continue
		}
		flat = append(flat, is)
		flat = append(flat, flattenSteps(is.InteractionSteps)...)
	}
	return flat
}

// resolveParent rewrites a declared parent reference to a persisted id.
// Temporary ids resolve through idMap; unresolvable references become
// roots.
func resolveParent(parentID string, idMap map[string]int) *int {
	if parentID == "" {
		return nil
	}
	if real, ok := idMap[parentID]; ok {
		return &real
	}
	if n, err := strconv.Atoi(parentID); err == nil {
		return &n
	}
	return nil
}

// updateInteractionSteps reconciles the submitted forest against the
// stored one. Pass one flattens the tree; pass two persists each node
// in order, resolving parent references against the id map as inserts
// assign real ids. Hard deletes are only allowed before the campaign
// starts; afterwards deletion is a soft flag so conversation history
// keeps its references.
func (s *CampaignService) updateInteractionSteps(campaignID int, steps []*InteractionStepInput, orig *model.Campaign, idMap map[string]int) error {
	for _, is := range flattenSteps(steps) {
		parent := resolveParent(is.ParentInteractionID, idMap)

		if strings.Contains(is.ID, "new") {
			step := &model.InteractionStep{
				CampaignID:          campaignID,
				ParentInteractionID: parent,
				Question:            is.Question,
				Script:              is.Script,
				AnswerOption:        is.AnswerOption,
				AnswerActions:       is.AnswerActions,
				AnswerActionsData:   is.AnswerActionsData,
				IsDeleted:           false,
			}
			if err := s.StepRepo.Insert(step); err != nil {
				return err
			}
			idMap[is.ID] = step.ID
			continue
		}

		realID, err := strconv.Atoi(is.ID)
		if err != nil {
			continue
		}
		if orig != nil && !orig.IsStarted && is.IsDeleted {
			if err := s.StepRepo.Delete(realID); err != nil {
				return err
			}
			continue
		}
		update := &model.InteractionStep{
			ID:                realID,
			CampaignID:        campaignID,
			Question:          is.Question,
			Script:            is.Script,
			AnswerOption:      is.AnswerOption,
			AnswerActions:     is.AnswerActions,
			AnswerActionsData: is.AnswerActionsData,
			IsDeleted:         is.IsDeleted,
		}
		if err := s.StepRepo.UpdateFields(update); err != nil {
			return err
		}
	}
	return nil
}

// buildStepTree reassembles a flat list keyed by temporary ids into a
// forest, used when cloning a campaign's steps.
func buildStepTree(items []*InteractionStepInput) []*InteractionStepInput {
	byID := map[string]*InteractionStepInput{}
	for _, it := range items {
		byID[it.ID] = it
	}
	roots := []*InteractionStepInput{}
	for _, it := range items {
		if it.ParentInteractionID == "" {
			roots = append(roots, it)
			continue
		}
		if parent, ok := byID[it.ParentInteractionID]; ok {
			parent.InteractionSteps = append(parent.InteractionSteps, it)
		} else {
			roots = append(roots, it)
		}
	}
	return roots
}
