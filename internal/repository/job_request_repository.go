package repository

import (
	"database/sql"
	"time"

	"github.com/outreachworks/canvass-backend/internal/model"
)

type JobRequestRepositoryInterface interface {
	Create(job *model.JobRequest) error
	UpdateStatus(id int, status, resultMessage string) error
	Delete(campaignID, id int) error
	GetByID(id int) (*model.JobRequest, error)
}

type JobRequestRepository struct {
	DB *sql.DB
}

func (r *JobRequestRepository) Create(job *model.JobRequest) error {
	job.CreatedAt = time.Now()
	if job.Status == "" {
		job.Status = "pending"
	}
	query := `
        INSERT INTO job_request (campaign_id, queue_name, job_type, locks_queue, payload, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		job.CampaignID, job.QueueName, job.JobType, job.LocksQueue,
		job.Payload, job.Status, job.CreatedAt,
	).Scan(&job.ID)
}

func (r *JobRequestRepository) UpdateStatus(id int, status, resultMessage string) error {
	query := `UPDATE job_request SET status=$1, result_message=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, status, resultMessage, id)
	return err
}

// Delete removes a job scoped to its campaign so a stray id cannot
// drop another campaign's job.
func (r *JobRequestRepository) Delete(campaignID, id int) error {
	_, err := r.DB.Exec(`DELETE FROM job_request WHERE id=$1 AND campaign_id=$2`, id, campaignID)
	return err
}

func (r *JobRequestRepository) GetByID(id int) (*model.JobRequest, error) {
	query := `
        SELECT id, campaign_id, queue_name, job_type, locks_queue, payload, status, result_message, created_at
        FROM job_request WHERE id=$1
    `
	var j model.JobRequest
	err := r.DB.QueryRow(query, id).Scan(
		&j.ID, &j.CampaignID, &j.QueueName, &j.JobType, &j.LocksQueue,
		&j.Payload, &j.Status, &j.ResultMessage, &j.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

var _ JobRequestRepositoryInterface = (*JobRequestRepository)(nil)
