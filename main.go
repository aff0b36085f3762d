package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"trekmate_server/routes"
	"trekmate_server/services"
	"trekmate_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; real deployments configure via the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment variables")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize the socket.io notification hub. The hub lives for the whole
	// process; ListenAndServe below never returns.
	hub := socket.NewHub()
	go func() {
		if err := hub.Server.Serve(); err != nil {
			log.Printf("socket.io serve error: %v", err)
		}
	}()

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	xpLedgerService := &services.XPLedgerService{Dynamo: dynamoService, Notifier: hub}
	tripGroupService := &services.TripGroupService{Dynamo: dynamoService, Profiles: userProfileService, Notifier: hub}
	communityService := &services.CommunityService{
		Profiles: userProfileService,
		Groups:   tripGroupService,
		Ledger:   xpLedgerService,
	}

	s3Client, err := services.InitializeS3Client(context.Background(), os.Getenv("AWS_REGION"))
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}
	s3Service := &services.S3Service{Client: s3Client, Bucket: os.Getenv("S3_BUCKET_NAME")}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Trekmate")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Mount the notification hub
	r.Handle("/socket.io/", hub.Server)

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterTripGroupRoutes(r, tripGroupService)
	routes.RegisterCommunityRoutes(r, communityService, xpLedgerService)
	routes.RegisterS3Routes(r, s3Service)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
