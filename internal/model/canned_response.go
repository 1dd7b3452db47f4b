// internal/model/canned_response.go
package model

// CannedResponse is a pre-written reply texters can send. A nil UserID
// means the response is campaign-wide rather than personal.
type CannedResponse struct {
	ID                int    `db:"id" json:"id"`
	CampaignID        int    `db:"campaign_id" json:"campaign_id"`
	UserID            *int   `db:"user_id" json:"user_id,omitempty"`
	Title             string `db:"title" json:"title"`
	Text              string `db:"text" json:"text"`
	AnswerActions     string `db:"answer_actions" json:"answer_actions"`
	AnswerActionsData string `db:"answer_actions_data" json:"answer_actions_data"`
	TagIDs            []int  `db:"-" json:"tag_ids"`
}
