package service

import (
	"log"

	"github.com/mkamau/callflow-backend/internal/model"
)

// OutboundEmailStore defines the methods the worker needs
type OutboundEmailStore interface {
	GetByID(id int) (*model.OutboundEmail, error)
	UpdateStatus(id int, status, lastError string) error
}

// Worker drains queued workflow email jobs
type Worker struct {
	EmailRepo OutboundEmailStore
	JobChan   <-chan int
	SendFunc  func(subject, html string) error
}

// Constructor
func NewWorker(repo OutboundEmailStore, jobChan <-chan int, sendFunc func(subject, html string) error) *Worker {
	return &Worker{
		EmailRepo: repo,
		JobChan:   jobChan,
		SendFunc:  sendFunc,
	}
}

// Start begins processing jobs
func (w *Worker) Start() {
	for jobID := range w.JobChan {
		msg, err := w.EmailRepo.GetByID(jobID)
		if err != nil {
			log.Println("Failed to get outbound email:", err)
			continue
		}
		if msg == nil || msg.Status == "sent" {
			continue
		}

		if err := w.SendFunc(msg.Subject, msg.RenderedHTML); err != nil {
			if uerr := w.EmailRepo.UpdateStatus(msg.ID, "failed", err.Error()); uerr != nil {
				log.Println("Failed to update email status:", uerr)
			}
			continue
		}
		if err := w.EmailRepo.UpdateStatus(msg.ID, "sent", ""); err != nil {
			log.Println("Failed to update email status:", err)
		}
	}
}
