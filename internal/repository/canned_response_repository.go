package repository

import (
	"database/sql"

	"github.com/outreachworks/canvass-backend/internal/model"
)

type CannedResponseRepositoryInterface interface {
	ReplaceForCampaign(campaignID int, responses []*model.CannedResponse) error
	ListByCampaign(campaignID int) ([]*model.CannedResponse, error)
}

type CannedResponseRepository struct {
	DB *sql.DB
}

// ReplaceForCampaign swaps the campaign's entire canned-response set in
// one transaction. Old rows and their tag associations are deleted
// first, so any failure must roll the whole replacement back.
func (r *CannedResponseRepository) ReplaceForCampaign(campaignID int, responses []*model.CannedResponse) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
        DELETE FROM tag_canned_response
        WHERE canned_response_id IN (SELECT id FROM canned_response WHERE campaign_id=$1)
    `, campaignID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DELETE FROM canned_response WHERE campaign_id=$1`, campaignID)
	if err != nil {
		return err
	}

	insertQuery := `
        INSERT INTO canned_response
        (campaign_id, user_id, title, text, answer_actions, answer_actions_data)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	for _, resp := range responses {
		err := tx.QueryRow(insertQuery,
			campaignID, resp.UserID, resp.Title, resp.Text,
			resp.AnswerActions, resp.AnswerActionsData,
		).Scan(&resp.ID)
		if err != nil {
			return err
		}
		for _, tagID := range resp.TagIDs {
			_, err := tx.Exec(
				`INSERT INTO tag_canned_response (tag_id, canned_response_id) VALUES ($1, $2)`,
				tagID, resp.ID,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListByCampaign returns the campaign's responses with their tag ids,
// ordered by id.
func (r *CannedResponseRepository) ListByCampaign(campaignID int) ([]*model.CannedResponse, error) {
	query := `
        SELECT cr.id, cr.campaign_id, cr.user_id, cr.title, cr.text,
               cr.answer_actions, cr.answer_actions_data, tcr.tag_id
        FROM canned_response cr
        LEFT JOIN tag_canned_response tcr ON cr.id = tcr.canned_response_id
        WHERE cr.campaign_id=$1
        ORDER BY cr.id
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[int]*model.CannedResponse{}
	ordered := []*model.CannedResponse{}
	for rows.Next() {
		var (
			resp  model.CannedResponse
			tagID *int
		)
		if err := rows.Scan(
			&resp.ID, &resp.CampaignID, &resp.UserID, &resp.Title, &resp.Text,
			&resp.AnswerActions, &resp.AnswerActionsData, &tagID,
		); err != nil {
			return nil, err
		}
		existing, ok := byID[resp.ID]
		if !ok {
			r := resp
			r.TagIDs = []int{}
			byID[resp.ID] = &r
			ordered = append(ordered, &r)
			existing = &r
		}
		if tagID != nil {
			existing.TagIDs = append(existing.TagIDs, *tagID)
		}
	}
	return ordered, rows.Err()
}

var _ CannedResponseRepositoryInterface = (*CannedResponseRepository)(nil)
