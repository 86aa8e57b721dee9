// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/mkamau/callflow-backend/internal/controller"
	"github.com/mkamau/callflow-backend/internal/db"
	"github.com/mkamau/callflow-backend/internal/handler"
	"github.com/mkamau/callflow-backend/internal/queue"
	"github.com/mkamau/callflow-backend/internal/repository"
	"github.com/mkamau/callflow-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	progressRepo := &repository.ProgressRepository{DB: db.DB}
	contactRepo := &repository.ContactRepository{DB: db.DB}
	emailRepo := &repository.OutboundEmailRepository{DB: db.DB}

	// With AMQP_URL set, email jobs go to RabbitMQ and cmd/worker sends
	// them; otherwise an in-process subscriber drains the in-memory queue.
	var q queue.Queue
	if url := os.Getenv("AMQP_URL"); url != "" {
		amqpQueue, err := queue.NewAMQPQueue(url)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
		log.Println("✅ Publishing jobs to RabbitMQ")
	} else {
		memQueue := queue.NewInMemoryQueue()
		queue.StartWorkflowEmailSubscriber(memQueue, emailRepo)
		memQueue.Subscribe(queue.TopicCampaignSpawned, func(payload any) error {
			log.Printf("📣 Campaign spawned: %+v\n", payload)
			return nil
		})
		q = memQueue
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ProgressRepo: progressRepo,
		ContactRepo:  contactRepo,
		EmailRepo:    emailRepo,
		Queue:        q,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
	}
	campaignHandler := handler.NewCampaignHandler(campaignService)

	r := chi.NewRouter()

	// Campaign routes
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignHandler.GetCampaignWithStats)
	r.Put("/campaigns/{id}/workflow", campaignController.SaveWorkflow)
	r.Get("/campaigns/{id}/queue", campaignController.GetQueue)
	r.Post("/campaigns/{id}/outcomes", campaignController.RecordOutcome)
	r.Post("/campaigns/{id}/spawn", campaignController.SpawnCampaign)

	// Interaction timeline
	r.Get("/contacts/{contactID}/interactions", campaignController.ListInteractions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
