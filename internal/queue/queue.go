package queue

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Topics used by the progression engine.
const (
	TopicWorkflowEmails  = "workflow_emails"
	TopicCampaignSpawned = "campaign_spawned"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue runs handlers in-process with bounded retries. Used by the
// server when no RabbitMQ URL is configured.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// job wraps a payload with retry bookkeeping.
type job struct {
	payload    any
	retryCount int
	maxRetries int
}

// Publish sends a message to all subscribers of the topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	j := job{payload: payload, maxRetries: 3}
	for _, handler := range handlers {
		go q.process(topic, handler, j)
	}
	return nil
}

// process retries with linear backoff until the handler succeeds or the
// retry budget runs out.
func (q *InMemoryQueue) process(topic string, handler func(payload any) error, j job) {
	for {
		err := handler(j.payload)
		if err == nil {
			return // ACK
		}

		j.retryCount++
		log.Printf("⚠️ %s job failed (attempt %d/%d): %v\n", topic, j.retryCount, j.maxRetries, err)
		if j.retryCount > j.maxRetries {
			log.Printf("%s job permanently failed: %+v\n", topic, j.payload)
			return
		}
		time.Sleep(time.Duration(j.retryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
