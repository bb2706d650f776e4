package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"bartr_server/config"
	"bartr_server/middleware"
	"bartr_server/routes"
	"bartr_server/services"
	"bartr_server/socket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/stripe/stripe-go/v81"
)

func main() {
	cfg := config.Load()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize S3 client for chat attachments
	s3Client, err := services.InitializeS3Client(cfg.AWSRegion)
	if err != nil {
		log.Fatalf("❌ Failed to initialize S3 client: %v", err)
	}

	// Redis backs the AI match cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	stripe.Key = cfg.StripeKey

	// Realtime socket server
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("❌ Socket server error: %v", err)
		}
	}()

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	matchService := &services.MatchService{Dynamo: dynamoService, Profiles: userProfileService}
	swipeService := &services.SwipeService{Dynamo: dynamoService, Matches: matchService}
	requestService := &services.RequestService{Dynamo: dynamoService, Matches: matchService, Profiles: userProfileService}
	escrowService := &services.EscrowService{Dynamo: dynamoService, Matches: matchService, Profiles: userProfileService, Events: socketServer}
	submissionService := &services.SubmissionService{Dynamo: dynamoService, Matches: matchService, Events: socketServer}
	chatService := &services.ChatService{Dynamo: dynamoService, Matches: matchService, Events: socketServer}
	s3Service := &services.S3Service{Client: s3Client, Bucket: cfg.S3Bucket}
	aiMatchService := &services.AIMatchService{
		Profiles: userProfileService,
		Gemini:   services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel),
		Cache:    redisClient,
	}
	checkoutService := &services.CheckoutService{Dynamo: dynamoService, Profiles: userProfileService, Currency: cfg.Currency}

	// Initialize the router
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Bartr")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.Handle("/socket.io/", socketServer.Handler())

	// Scheduler routes authenticate with the cron secret, not a user token
	routes.RegisterCronRoutes(r, escrowService, cfg.CronSecret)

	// Everything under /api (cron aside) requires a valid bearer token
	validator := middleware.NewTokenValidator(cfg.JWTSecret)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireAuth(validator))

	// Swipes and AI recommendations are the hot paths; rate-limit them
	limiterStore := middleware.NewLimiterStore(60, 10)
	rateLimited := api.NewRoute().Subrouter()
	rateLimited.Use(middleware.RateLimit(limiterStore))

	// Register routes
	routes.RegisterUserProfileRoutes(api, userProfileService)
	routes.RegisterSwipeRoutes(rateLimited, swipeService)
	routes.RegisterRequestRoutes(api, requestService)
	routes.RegisterMatchRoutes(api, matchService, escrowService, submissionService)
	routes.RegisterChatRoutes(api, chatService)
	routes.RegisterAIMatchRoutes(rateLimited, aiMatchService)
	routes.RegisterS3Routes(api, s3Service)
	routes.RegisterCheckoutRoutes(api, checkoutService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, corsHandler)

	// ListenAndServe only returns on failure; log.Fatal would skip these.
	socketServer.Close()
	limiterStore.Stop()
	log.Fatalf("Server stopped: %v", err)
}
