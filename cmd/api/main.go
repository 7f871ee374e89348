package main

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stockwise/inventory-backend/internal/modules/auth"
	"github.com/stockwise/inventory-backend/internal/modules/product"
	"github.com/stockwise/inventory-backend/internal/modules/user"
	"github.com/stockwise/inventory-backend/internal/storage"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on the environment")
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("could not reach database")
	}
	log.Info().Msg("connected to the database")

	appURL := getenv("APP_URL", "http://localhost:8080")
	storagePath := getenv("STORAGE_PATH", "./storage")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	userRepo := user.NewPostgresRepository(db)
	authService := auth.NewService(userRepo, []byte(jwtSecret))
	auth.NewHandler(authService).RegisterRoutes(router)

	files := storage.NewDisk(storagePath)
	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo, files)
	product.NewHandler(productService, appURL).RegisterRoutes(router, auth.RequireAuth(authService))

	// uploaded images
	router.Handle("/storage/*", http.StripPrefix("/storage/", http.FileServer(http.Dir(storagePath))))

	port := getenv("APP_PORT", "8080")
	log.Info().Str("port", port).Msg("inventory API listening")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
