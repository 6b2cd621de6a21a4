// main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/inngest/inngestgo"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/aeolab/aeolab-workflows/internal/config"
	"github.com/aeolab/aeolab-workflows/internal/database"
	"github.com/aeolab/aeolab-workflows/internal/detection"
	"github.com/aeolab/aeolab-workflows/internal/openrouter"
	"github.com/aeolab/aeolab-workflows/services"
	"github.com/aeolab/aeolab-workflows/workflows"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("dev.env"); err != nil {
			log.Printf("Note: No .env or dev.env file loaded: %v", err)
		} else {
			log.Printf("Loaded dev.env file for local development")
		}
	} else {
		log.Printf("Loaded .env file")
	}

	cfg := config.Load()

	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Database Host: %s", cfg.Database.Host)
	log.Printf("Database Name: %s", cfg.Database.Name)

	if cfg.OpenRouterAPIKey == "" {
		log.Printf("WARNING: OpenRouter API key not loaded!")
	} else {
		log.Printf("OpenRouter API key loaded (length: %d)", len(cfg.OpenRouterAPIKey))
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Printf("Successfully connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Database schema at version %d (dirty: %t)", version, dirty)

	repoManager := services.NewRepositoryManager(db)
	log.Printf("Repository manager initialized")

	if cfg.Environment == "development" || cfg.Environment == "" {
		os.Unsetenv("INNGEST_SIGNING_KEY")
		cfg.InngestSigningKey = ""
		log.Printf("Running in development mode - signing key verification disabled")
	}

	// Initialize the gateway client and detection on top of it
	queryClient := openrouter.NewClient(cfg)
	detector := detection.NewDetector(queryClient)
	log.Printf("Query client and mention detector initialized")

	// Initialize services with repository manager and proper dependencies
	trackingService := services.NewTrackingService(repoManager, queryClient, detector)
	quotaService := services.NewQuotaService(repoManager, trackingService)
	sweepService := services.NewSweepService(repoManager, trackingService)
	analyticsService := services.NewAnalyticsService(repoManager)
	promptService := services.NewPromptService(repoManager)
	log.Printf("Services initialized")

	// Create Inngest client
	client, err := inngestgo.NewClient(
		inngestgo.ClientOpts{
			AppID:    "aeolab-workflows",
			EventKey: inngestgo.StrPtr(cfg.InngestEventKey),
			Env:      inngestgo.StrPtr(cfg.Environment),
		},
	)
	if err != nil {
		log.Fatalf("Failed to create Inngest client: %v", err)
	}

	// Initialize and register workflows
	log.Printf("Initializing and registering workflows...")

	scheduledProcessor := workflows.NewScheduledProcessor(sweepService, cfg)
	scheduledProcessor.SetClient(client)
	scheduledProcessor.HourlyTrackingSweep()

	trackingProcessor := workflows.NewTrackingProcessor(trackingService)
	trackingProcessor.SetClient(client)
	trackingProcessor.ProcessBusiness()

	log.Printf("All processors initialized and functions registered")

	h := client.Serve()
	mux := http.NewServeMux()
	mux.Handle("/api/inngest", h)

	// Root endpoint for ALB health check
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"service":"aeolab-workflows","status":"running"}`))
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	mux.HandleFunc("/api/tracking/run-manual", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			UserID     string `json:"user_id"`
			BusinessID string `json:"business_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid user_id")
			return
		}
		businessID, err := uuid.Parse(req.BusinessID)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid business_id")
			return
		}

		outcome, err := quotaService.RunManual(r.Context(), userID, businessID)
		if err != nil {
			var quotaErr *services.QuotaExceededError
			if errors.As(err, &quotaErr) {
				writeJSONError(w, http.StatusTooManyRequests, quotaErr.Error())
				return
			}
			// Upstream detail stays in the logs, not the response.
			log.Printf("Manual tracking run failed for business %s: %v", businessID, err)
			writeJSONError(w, http.StatusInternalServerError, "Tracking run failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":        true,
			"results":        outcome.Summary.Results,
			"errors":         outcome.Summary.Errors,
			"remaining_runs": outcome.RemainingRuns,
		})
	})

	mux.HandleFunc("/api/tracking/check-limit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid user_id")
			return
		}

		status, err := quotaService.CheckQuota(r.Context(), userID)
		if err != nil {
			log.Printf("Quota check failed for user %s: %v", userID, err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to check rate limit")
			return
		}

		writeJSON(w, http.StatusOK, status)
	})

	mux.HandleFunc("/api/setup/prompts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			BusinessID string `json:"business_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		businessID, err := uuid.Parse(req.BusinessID)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid business_id")
			return
		}

		count, err := promptService.SetupPrompts(r.Context(), businessID)
		if err != nil {
			log.Printf("Prompt setup failed for business %s: %v", businessID, err)
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":         true,
			"prompts_created": count,
		})
	})

	mux.HandleFunc("/api/tracking/visibility", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		businessID, err := uuid.Parse(r.URL.Query().Get("business_id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid business_id")
			return
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}

		stats, err := analyticsService.VisibilityStats(r.Context(), businessID, limit)
		if err != nil {
			log.Printf("Visibility stats failed for business %s: %v", businessID, err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to compute visibility stats")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	})

	port := cfg.Port
	log.Printf("Starting AEOLab Workflows service on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
