package main

// Deploy with:
//   gcloud functions deploy CreateDonationCheckout --runtime go124 --trigger-http --allow-unauthenticated
// Locally, FUNCTION_TARGET=CreateDonationCheckout go run ./cmd/checkout-function

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/gin-gonic/gin"

	"freeresumetools/internal/bootstrap"
	"freeresumetools/internal/checkout"
	"freeresumetools/internal/shared/config"
	"freeresumetools/internal/shared/server/middleware"
)

var (
	initOnce sync.Once
	engine   *gin.Engine
)

func init() {
	functions.HTTP("CreateDonationCheckout", createDonationCheckout)
}

func initEngine() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.Load()
	h := checkout.NewHandler(bootstrap.BuildCheckout(cfg))

	engine = gin.New()
	engine.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())
	// The function URL is the route itself, so serve every path.
	engine.NoRoute(h.Serve)
}

func createDonationCheckout(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(initEngine)
	engine.ServeHTTP(w, r)
}

func main() {
	port := "8080"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v", err)
	}
}
