package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"libroteca/internal/auth"
	apphttp "libroteca/internal/http"
	"libroteca/internal/httpx"
	"libroteca/internal/store"
	"libroteca/internal/upload"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const maxRequestBytes = 64 << 20

func main() {
	_ = godotenv.Load()

	serverAddress := getEnv("APP_ADDR", ":8080")
	mongoURL := mustGetEnv("MONGO_URL")
	databaseName := getEnv("MONGO_DB_NAME", "libroteca")
	bcryptCost := getEnvInt("BCRYPT_COST", bcrypt.DefaultCost)
	uploadDir := getEnv("UPLOAD_DIR", "uploads")
	corsOrigins := getEnv("CORS_ORIGINS", "")

	client := mustOpenDB(mongoURL)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	db := client.Database(databaseName)

	uploads, err := upload.NewStore(uploadDir)
	if err != nil {
		log.Fatalf("cannot prepare upload dir: %v", err)
	}

	bookRepository := store.NewBookMongo(db)
	accountRepository := store.NewAccountMongo(db)

	bookHandler := apphttp.NewBookHandler(bookRepository, uploads)
	authHandler := apphttp.NewAuthHandler(accountRepository, auth.NewHasher(bcryptCost))

	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := client.Ping(ctx, nil); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("/books", apphttp.MethodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(bookHandler.List),
		http.MethodPost: http.HandlerFunc(bookHandler.Create),
	}))
	router.Handle("/books/all", apphttp.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(bookHandler.ListAll),
	}))
	router.HandleFunc("/books/", bookHandler.Resource)

	router.Handle("/auth/register", apphttp.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Register),
	}))
	router.Handle("/auth/login", apphttp.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))
	router.Handle("/auth/logout", apphttp.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Logout),
	}))
	router.Handle("/auth/protected", apphttp.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Protected),
	}))

	router.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir()))))

	var handler http.Handler = router
	handler = httpx.RequestSizeLimitMiddleware(maxRequestBytes)(handler)
	if corsOrigins != "" {
		handler = httpx.CORSMiddleware(strings.Split(corsOrigins, ","))(handler)
	}
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustGetEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Fatalf("missing required environment variable: %s", key)
	return ""
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid value for %s: %q", key, v)
	}
	return n
}

func mustOpenDB(uri string) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		log.Fatalf("cannot ping database (%s): %v", redactURI(uri), err)
	}
	log.Println("database connection OK")
	return client
}

func redactURI(uri string) string {
	const marker = "://"
	start := strings.Index(uri, marker)
	if start < 0 {
		return uri
	}
	start += len(marker)
	end := strings.Index(uri[start:], "@")
	if end < 0 {
		return uri
	}
	return uri[:start] + "***" + uri[start+end:]
}
