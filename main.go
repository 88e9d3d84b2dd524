package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"strings"
	"time"

	"prodlens/config"
	"prodlens/handlers"
	"prodlens/middleware"
	"prodlens/scheduler"
	"prodlens/scraper"
	"prodlens/translate"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

var startTime = time.Now()

// Metrics struct for basic monitoring
type Metrics struct {
	Timestamp         time.Time `json:"timestamp"`
	Uptime            string    `json:"uptime"`
	Goroutines        int       `json:"goroutines"`
	MemoryUsage       string    `json:"memory_usage"`
	TotalExtractions  int64     `json:"total_extractions"`
	FailedExtractions int64     `json:"failed_extractions"`
	SuccessRate       float64   `json:"success_rate"`
	LastExtraction    time.Time `json:"last_extraction"`
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	// Launch the headless browser for page rendering
	renderer, err := scraper.NewBrowserRenderer(cfg.PageLoadTimeout, cfg.ViewportWidth, cfg.ViewportHeight)
	if err != nil {
		log.Fatalf("Failed to launch browser renderer: %v", err)
	}
	defer renderer.Close()

	// Initialize the vision extraction and translation clients
	extractor := scraper.NewGeminiExtractor(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GeminiTimeout)
	translator := translate.NewGoogleClient(cfg.TranslateBaseURL, cfg.TranslateTimeout)

	pipeline := scraper.NewPipeline(renderer, extractor, translator, cfg.TargetLanguage)
	h := handlers.NewHandlers(pipeline)

	// Start periodic dependency health probes
	janitor := scheduler.NewHealthJanitor([]scheduler.HealthCheck{
		{Name: "browser", Check: renderer.HealthCheck},
		{Name: "gemini", Check: extractor.HealthCheck},
		{Name: "translate", Check: translator.HealthCheck},
	})
	janitor.Start()
	defer janitor.Stop()

	// Setup router
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitRPS))

	// Health and monitoring endpoints
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/metrics", getMetrics(h)).Methods("GET")
	r.HandleFunc("/status", getStatus(h, renderer, extractor, translator)).Methods("GET")

	// API v1 routes
	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/extract", h.ExtractProduct).Methods("POST")

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	log.Printf("🌐 Server starting on port %s", cfg.Port)
	log.Printf("📋 API:")
	log.Printf("   GET  /health - Health check")
	log.Printf("   GET  /metrics - System metrics")
	log.Printf("   GET  /status - Dependency status")
	log.Printf("   POST /api/v1/extract - Extract product details from a URL")

	// Start server
	log.Fatal(http.ListenAndServe(cfg.Host+":"+cfg.Port, c.Handler(r)))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service":     "prodlens",
		"status":      "healthy",
		"timestamp":   time.Now(),
		"version":     "1.0.0",
		"api_version": "v1",
		"endpoints": map[string]string{
			"health":  "/health",
			"metrics": "/metrics",
			"status":  "/status",
			"extract": "/api/v1/extract",
		},
	}
	writeJSON(w, http.StatusOK, response)
}

func getMetrics(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		stats := h.Stats()
		metricsData := Metrics{
			Timestamp:         time.Now(),
			Uptime:            time.Since(startTime).String(),
			Goroutines:        runtime.NumGoroutine(),
			MemoryUsage:       fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			TotalExtractions:  stats.TotalExtractions,
			FailedExtractions: stats.FailedExtractions,
			SuccessRate:       stats.SuccessRate,
			LastExtraction:    stats.LastExtraction,
		}

		writeJSON(w, http.StatusOK, metricsData)
	}
}

// healthChecker is the probe surface every external dependency exposes.
type healthChecker interface {
	HealthCheck() error
}

func getStatus(h *handlers.Handlers, browser, extractor, translator healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := h.Stats()
		status := map[string]interface{}{
			"timestamp":         time.Now(),
			"uptime":            time.Since(startTime).String(),
			"browser_health":    healthString(browser),
			"extractor_health":  healthString(extractor),
			"translate_health":  healthString(translator),
			"total_extractions": stats.TotalExtractions,
			"success_rate":      fmt.Sprintf("%.1f%%", stats.SuccessRate*100),
			"system_health":     "healthy",
		}

		writeJSON(w, http.StatusOK, status)
	}
}

func healthString(c healthChecker) string {
	if err := c.HealthCheck(); err != nil {
		return fmt.Sprintf("unhealthy: %v", err)
	}
	return "healthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
