package repository

import (
	"database/sql"

	"github.com/outreachworks/canvass-backend/internal/model"
)

// InteractionStepRepositoryInterface defines the tree persistence used
// by the reconciler and the campaign copier.
type InteractionStepRepositoryInterface interface {
	Insert(step *model.InteractionStep) error
	UpdateFields(step *model.InteractionStep) error
	Delete(id int) error
	ListByCampaign(campaignID int, includeDeleted bool) ([]*model.InteractionStep, error)
}

type InteractionStepRepository struct {
	DB *sql.DB
}

// Insert persists a new step and fills in its generated id.
func (r *InteractionStepRepository) Insert(step *model.InteractionStep) error {
	query := `
        INSERT INTO interaction_step
        (campaign_id, parent_interaction_id, question, script, answer_option,
         answer_actions, answer_actions_data, is_deleted)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		step.CampaignID, step.ParentInteractionID, step.Question, step.Script,
		step.AnswerOption, step.AnswerActions, step.AnswerActionsData, step.IsDeleted,
	).Scan(&step.ID)
}

// UpdateFields rewrites the mutable columns of an existing step,
// including its soft-delete flag. Parent links are never moved here.
func (r *InteractionStepRepository) UpdateFields(step *model.InteractionStep) error {
	query := `
        UPDATE interaction_step
        SET question=$1, script=$2, answer_option=$3, answer_actions=$4,
            answer_actions_data=$5, is_deleted=$6
        WHERE id=$7
    `
	_, err := r.DB.Exec(query,
		step.Question, step.Script, step.AnswerOption, step.AnswerActions,
		step.AnswerActionsData, step.IsDeleted, step.ID,
	)
	return err
}

// Delete hard-deletes a step. Only legal before the campaign starts.
func (r *InteractionStepRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM interaction_step WHERE id=$1`, id)
	return err
}

// ListByCampaign returns steps ordered by id so copies are deterministic.
func (r *InteractionStepRepository) ListByCampaign(campaignID int, includeDeleted bool) ([]*model.InteractionStep, error) {
	query := `
        SELECT id, campaign_id, parent_interaction_id, question, script,
               answer_option, answer_actions, answer_actions_data, is_deleted
        FROM interaction_step
        WHERE campaign_id=$1
    `
	if !includeDeleted {
		query += ` AND is_deleted=false`
	}
	query += ` ORDER BY id`

	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []*model.InteractionStep{}
	for rows.Next() {
		s := &model.InteractionStep{}
		if err := rows.Scan(
			&s.ID, &s.CampaignID, &s.ParentInteractionID, &s.Question, &s.Script,
			&s.AnswerOption, &s.AnswerActions, &s.AnswerActionsData, &s.IsDeleted,
		); err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

var _ InteractionStepRepositoryInterface = (*InteractionStepRepository)(nil)
