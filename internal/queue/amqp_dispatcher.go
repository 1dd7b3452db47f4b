// internal/queue/amqp_dispatcher.go
package queue

import (
	"encoding/json"

	"github.com/streadway/amqp"

	"github.com/outreachworks/canvass-backend/internal/model"
	"github.com/outreachworks/canvass-backend/internal/repository"
)

// JobsQueueName is the durable queue the worker consumes.
const JobsQueueName = "campaign_jobs"

// AMQPDispatcher publishes jobs to RabbitMQ for cmd/worker. The
// job_request row is persisted before publishing so the caller always
// gets an id even if the broker is down.
type AMQPDispatcher struct {
	URL     string
	JobRepo repository.JobRequestRepositoryInterface
}

func NewAMQPDispatcher(url string, jobRepo repository.JobRequestRepositoryInterface) *AMQPDispatcher {
	return &AMQPDispatcher{URL: url, JobRepo: jobRepo}
}

func (d *AMQPDispatcher) publish(wire QueueJob) error {
	conn, err := amqp.Dial(d.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		JobsQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return err
	}

	return ch.Publish(
		"",
		q.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (d *AMQPDispatcher) DispatchJob(job *model.JobRequest) error {
	if d.JobRepo != nil {
		if err := d.JobRepo.Create(job); err != nil {
			return err
		}
	}
	return d.publish(QueueJob{
		JobRequestID: job.ID,
		CampaignID:   job.CampaignID,
		JobType:      job.JobType,
		LocksQueue:   job.LocksQueue,
		Payload:      json.RawMessage(job.Payload),
	})
}

func (d *AMQPDispatcher) DispatchTask(taskName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.publish(QueueJob{JobType: taskName, Payload: body})
}

var _ Dispatcher = (*AMQPDispatcher)(nil)
