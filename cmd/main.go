package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"

	"github.com/cosmiclattes/manos-library/internal/handlers"
	"github.com/cosmiclattes/manos-library/internal/messaging"
	"github.com/cosmiclattes/manos-library/internal/repository"
	"github.com/cosmiclattes/manos-library/internal/repository/memstore"
	"github.com/cosmiclattes/manos-library/internal/service"
)

func main() {
	log.Println("Starting Circulation Service...")

	books, inventory, borrows, users, cleanup, err := initStores()
	if err != nil {
		log.Fatalf("Store initialization error: %v", err)
	}
	defer cleanup()

	publisher := initPublisher()

	circulationService := service.NewCirculationService(books, inventory, borrows, publisher)
	userService := service.NewUserService(users)
	statsService := service.NewStatsService(books, users, inventory)

	circulationHandler := handlers.NewCirculationHandler(circulationService)
	inventoryHandler := handlers.NewInventoryHandler(circulationService)
	usersHandler := handlers.NewUsersHandler(userService)
	statsHandler := handlers.NewStatsHandler(statsService)

	app := setupFiberApp()
	handlers.RegisterRoutes(app, circulationHandler, inventoryHandler, usersHandler, statsHandler)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down Circulation Service...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	port := getEnvOrDefault("PORT", "8004")
	log.Printf("Circulation Service running on: http://localhost:%s", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server startup error: %v", err)
	}
}

// initStores selects the storage backend. Postgres is the production path;
// STORAGE_BACKEND=memory runs fully in-process for demos and local work.
func initStores() (service.BookStore, service.InventoryStore, service.BorrowStore, service.UserStore, func(), error) {
	backend := getEnvOrDefault("STORAGE_BACKEND", "postgres")

	if backend == "memory" {
		log.Println("Using in-memory storage backend")
		store := memstore.New()
		return store.Books(), store.Inventories(), store.Borrows(), store.Users(), func() {}, nil
	}

	db, err := initDatabase()
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	cleanup := func() { db.Close() }
	return repository.NewBookRepository(db),
		repository.NewInventoryRepository(db),
		repository.NewBorrowRepository(db),
		repository.NewUserRepository(db),
		cleanup, nil
}

func initDatabase() (*sql.DB, error) {
	dbHost := getEnvOrDefault("DB_HOST", "localhost")
	dbPort := getEnvOrDefault("DB_PORT", "5432")
	dbUser := getEnvOrDefault("DB_USER", "postgres")
	dbPassword := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "circulation_db")

	connectionString := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName,
	)

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("database open error: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping error: %v", err)
	}

	if err := repository.ApplySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema error: %v", err)
	}

	log.Printf("Database connection successful: %s", dbName)
	return db, nil
}

// initPublisher connects to RabbitMQ. The event stream is best-effort
// observability, so a missing broker downgrades to no publishing instead of
// refusing to start.
func initPublisher() service.EventPublisher {
	if getEnvOrDefault("EVENTS_ENABLED", "true") != "true" {
		log.Println("Event publishing disabled")
		return nil
	}

	rabbitConfig := messaging.NewRabbitMQConfig()
	rabbitClient := messaging.NewRabbitMQClient(rabbitConfig)

	if err := rabbitClient.Connect(); err != nil {
		log.Printf("RabbitMQ connection error, continuing without events: %v", err)
		return nil
	}

	return messaging.NewPublisher(rabbitClient)
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Circulation Service v1.0",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID,X-User-ID,X-User-Role",
	}))

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
