// internal/model/job_request.go
package model

import "time"

// JobRequest is the persisted record of a dispatched background job.
type JobRequest struct {
	ID            int       `db:"id" json:"id"`
	CampaignID    int       `db:"campaign_id" json:"campaign_id"`
	QueueName     string    `db:"queue_name" json:"queue_name"`
	JobType       string    `db:"job_type" json:"job_type"`
	LocksQueue    bool      `db:"locks_queue" json:"locks_queue"`
	Payload       string    `db:"payload" json:"payload"`
	Status        string    `db:"status" json:"status"` // pending, done, failed
	ResultMessage string    `db:"result_message" json:"result_message"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
