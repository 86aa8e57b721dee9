package queue

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/mkamau/callflow-backend/internal/repository"
)

// EmailJob is the payload queued for each workflow email.
type EmailJob struct {
	OutboundEmailID int `json:"outbound_email_id"`
}

// SpawnNotice announces a freshly forked follow-up campaign.
type SpawnNotice struct {
	CampaignID       string `json:"campaign_id"`
	ParentCampaignID string `json:"parent_campaign_id"`
	StepTitle        string `json:"step_title"`
}

// StartWorkflowEmailSubscriber drains workflow email jobs in-process. Used
// with the in-memory queue; the RabbitMQ deployment runs cmd/worker instead.
func StartWorkflowEmailSubscriber(q Queue, emailRepo repository.OutboundEmailRepositoryInterface) {
	go func() {
		err := q.Subscribe(TopicWorkflowEmails, func(payload any) error {
			emailJob, ok := payload.(EmailJob)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected EmailJob")
				return nil // drop, no retry
			}

			msg, err := emailRepo.GetByID(emailJob.OutboundEmailID)
			if err != nil {
				return err
			}
			if msg == nil {
				log.Println("⚠️ Outbound email not found for ID:", emailJob.OutboundEmailID)
				return nil
			}
			if msg.Status == "sent" {
				return nil
			}

			if err := MockEmailSender(msg.Subject, msg.RenderedHTML); err != nil {
				_ = emailRepo.UpdateStatus(msg.ID, "failed", err.Error())
				return err // triggers retry in queue
			}

			if err := emailRepo.UpdateStatus(msg.ID, "sent", ""); err != nil {
				return err
			}
			log.Println("✅ Workflow email sent:", msg.ID)
			return nil
		})
		if err != nil {
			log.Println("⚠️ Failed to start subscriber for workflow_emails:", err)
		}
	}()
}

// MockEmailSender stands in for a real transport (out of scope); it succeeds
// 90% of the time so the retry path gets exercised.
func MockEmailSender(subject, html string) error {
	if rand.Float64() < 0.9 {
		return nil
	}
	return fmt.Errorf("mock email send failed")
}
