// internal/model/interaction_step.go
package model

// InteractionStep is one node of a campaign's branching script tree.
// Steps with a nil ParentInteractionID are roots.
type InteractionStep struct {
	ID                  int     `db:"id" json:"id"`
	CampaignID          int     `db:"campaign_id" json:"campaign_id"`
	ParentInteractionID *int    `db:"parent_interaction_id" json:"parent_interaction_id,omitempty"`
	Question            string  `db:"question" json:"question"`
	Script              string  `db:"script" json:"script"`
	AnswerOption        string  `db:"answer_option" json:"answer_option"`
	AnswerActions       string  `db:"answer_actions" json:"answer_actions"`
	AnswerActionsData   string  `db:"answer_actions_data" json:"answer_actions_data"`
	IsDeleted           bool    `db:"is_deleted" json:"is_deleted"`
}
