package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/outreachworks/canvass-backend/internal/model"
	"github.com/outreachworks/canvass-backend/internal/repository"
)

// Job type and task name constants shared with the worker.
const (
	JobTypeAssignTexters = "assign_texters"
	IngestJobPrefix      = "ingest."

	TaskCampaignStartCache = "campaign_start_cache"
)

// QueueJob is the wire format published for the worker.
type QueueJob struct {
	JobRequestID int             `json:"job_request_id,omitempty"`
	CampaignID   int             `json:"campaign_id"`
	JobType      string          `json:"job_type"`
	LocksQueue   bool            `json:"locks_queue"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// Dispatcher queues asynchronous work. DispatchJob persists a
// job_request row (the returned id lives on the passed job) before
// handing the work off; DispatchTask is fire-and-forget.
type Dispatcher interface {
	DispatchJob(job *model.JobRequest) error
	DispatchTask(taskName string, payload any) error
}

// InMemoryDispatcher runs jobs on goroutines with retry, honoring
// locks_queue by serializing jobs that share a queue name.
type InMemoryDispatcher struct {
	mu       sync.Mutex
	handlers map[string][]func(payload QueueJob) error
	locks    map[string]*sync.Mutex

	JobRepo repository.JobRequestRepositoryInterface
}

func NewInMemoryDispatcher(jobRepo repository.JobRequestRepositoryInterface) *InMemoryDispatcher {
	return &InMemoryDispatcher{
		handlers: make(map[string][]func(payload QueueJob) error),
		locks:    make(map[string]*sync.Mutex),
		JobRepo:  jobRepo,
	}
}

// Subscribe adds a handler for a job type or task name.
func (q *InMemoryDispatcher) Subscribe(jobType string, handler func(payload QueueJob) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = append(q.handlers[jobType], handler)
}

func (q *InMemoryDispatcher) queueLock(queueName string) *sync.Mutex {
	q.mu.Lock()
	defer q.mu.Unlock()
	lock, ok := q.locks[queueName]
	if !ok {
		lock = &sync.Mutex{}
		q.locks[queueName] = lock
	}
	return lock
}

func (q *InMemoryDispatcher) DispatchJob(job *model.JobRequest) error {
	if q.JobRepo != nil {
		if err := q.JobRepo.Create(job); err != nil {
			return err
		}
	}

	q.mu.Lock()
	handlers := q.handlers[job.JobType]
	q.mu.Unlock()
	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for job type %s", job.JobType)
	}

	wire := QueueJob{
		JobRequestID: job.ID,
		CampaignID:   job.CampaignID,
		JobType:      job.JobType,
		LocksQueue:   job.LocksQueue,
		Payload:      json.RawMessage(job.Payload),
	}

	for _, handler := range handlers {
		go q.processJob(handler, wire, job.QueueName)
	}
	return nil
}

func (q *InMemoryDispatcher) DispatchTask(taskName string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[taskName]
	q.mu.Unlock()
	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for task %s", taskName)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	wire := QueueJob{JobType: taskName, Payload: body}

	for _, handler := range handlers {
		go q.processJob(handler, wire, "")
	}
	return nil
}

// processJob handles queue locking, retries and job status bookkeeping.
func (q *InMemoryDispatcher) processJob(handler func(payload QueueJob) error, job QueueJob, queueName string) {
	if job.LocksQueue && queueName != "" {
		lock := q.queueLock(queueName)
		lock.Lock()
		defer lock.Unlock()
	}

	const maxRetries = 3
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := handler(job)
		if err == nil {
			if q.JobRepo != nil && job.JobRequestID != 0 {
				_ = q.JobRepo.UpdateStatus(job.JobRequestID, "done", "")
			}
			return
		}

		log.Printf("Job failed (attempt %d/%d): %s, error: %v\n", attempt+1, maxRetries, job.JobType, err)
		if attempt == maxRetries {
			if q.JobRepo != nil && job.JobRequestID != 0 {
				_ = q.JobRepo.UpdateStatus(job.JobRequestID, "failed", err.Error())
			}
			return
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}
}

var _ Dispatcher = (*InMemoryDispatcher)(nil)
