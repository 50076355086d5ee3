// cmd/stubserver/main.go - FloodWatch in-memory stub backend
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"floodwatch-client/internal/models"
	"floodwatch-client/internal/stubserver"
)

var appVersion = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	addr := getEnv("STUB_ADDR", "localhost:8080")
	jwtSecret := getEnv("JWT_SECRET", "floodwatch-dev-secret")
	pusherKey := getEnv("PUSHER_KEY", "floodwatch-dev-key")
	pusherSecret := getEnv("PUSHER_SECRET", "floodwatch-dev-secret")

	server := stubserver.NewServer(jwtSecret, pusherKey, pusherSecret)
	seedDemoData(server)

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("================================================================================")
		log.Printf("🌊 FloodWatch Stub Backend v%s", appVersion)
		log.Printf("🌐 API:       http://%s/api/v1", addr)
		log.Printf("📡 WebSocket: ws://%s/app/%s", addr, pusherKey)
		log.Printf("🔑 Demo admin: admin@floodwatch.dev / admin123")
		log.Printf("🔑 Demo user:  user@floodwatch.dev / user123")
		log.Println("================================================================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Forced shutdown: %v", err)
	} else {
		log.Println("✅ Server gracefully stopped")
	}
}

// seedDemoData fills the stub with enough records to click around.
func seedDemoData(s *stubserver.Server) {
	s.SeedUser("admin@floodwatch.dev", "admin123", "Demo Admin", models.RoleAdmin)
	s.SeedUser("user@floodwatch.dev", "user123", "Demo User", models.RoleUser)

	delta := s.SeedLocation(models.Location{
		Name:         "Mekong Delta",
		Province:     "An Giang",
		Latitude:     10.5216,
		Longitude:    105.1259,
		IsMonitoring: true,
	})
	s.SeedLocation(models.Location{
		Name:         "Red River Basin",
		Province:     "Hanoi",
		Latitude:     21.0285,
		Longitude:    105.8542,
		IsMonitoring: true,
	})

	water := 4.2
	s.SeedAlert(models.Alert{
		LocationID:         delta.ID,
		Level:              models.AlertLevelDanger,
		Title:              "River level above danger mark",
		Description:        "Water level at the delta gauge exceeded the danger threshold.",
		WaterLevel:         &water,
		SafetyInstructions: "Move valuables upstairs and follow evacuation routes.",
		Shelters: []models.AlertShelter{
			{Name: "Long Xuyen School", Address: "12 Tran Hung Dao", Capacity: 300, Lat: 10.3864, Lng: 105.4351},
		},
		EmergencyContacts: []models.AlertContact{
			{Name: "Rescue hotline", Phone: "112"},
		},
		IsActive: true,
	})

	s.SeedArticle(models.Article{
		Title:       "Flood preparedness checklist",
		Slug:        "flood-preparedness-checklist",
		Summary:     "What to pack and where to go before the water rises.",
		Content:     "<p>Keep documents in a waterproof bag...</p>",
		Category:    "safety",
		IsPublished: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
