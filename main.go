package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dessertlab/internal/handlers"
	"dessertlab/internal/middleware"
	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
	"dessertlab/internal/services"
	"dessertlab/internal/session"
	"dessertlab/pkg/pincode"
	"dessertlab/pkg/rabbitmq"
	"dessertlab/pkg/razorpay"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("BACKEND_MODE", "local") // local | rest | memory
	viper.SetDefault("API_BASE_URL", "http://localhost:9090")
	viper.SetDefault("API_TOKEN", "")
	viper.SetDefault("DATABASE_DRIVER", "sqlite") // sqlite | postgres
	viper.SetDefault("DATABASE_DSN", "dessertlab.db")
	viper.SetDefault("JWT_SECRET", "dessertlab_dev_secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RAZORPAY_KEY_ID", "")
	viper.SetDefault("RAZORPAY_KEY_SECRET", "")
	viper.SetDefault("PINCODE_BASE_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	mode := viper.GetString("BACKEND_MODE")

	// --- RabbitMQ (optional) ---
	// Without a broker URL the storefront simply skips event publication.
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Repositories ---
	var (
		productRepo repositories.ProductRepository
		orderRepo   repositories.OrderRepository
		directory   repositories.UserDirectory
	)
	switch mode {
	case "rest":
		// The upstream REST backend owns all persistence and credentials.
		client := repositories.NewRestClient(
			viper.GetString("API_BASE_URL"),
			viper.GetString("API_TOKEN"),
		)
		productRepo = repositories.NewRESTProductRepository(client)
		orderRepo = repositories.NewRESTOrderRepository(client)
		directory = repositories.NewRESTUserDirectory(client)

	case "memory":
		// Seeded in-memory stores; everything is lost on restart.
		mockProducts := repositories.NewMockProductRepository()
		seedProducts(mockProducts)
		productRepo = mockProducts
		orderRepo = repositories.NewMockOrderRepository()
		directory = services.NewAuthService(
			repositories.NewMockUserRepository(),
			viper.GetString("JWT_SECRET"),
		)

	default: // local
		db := openDatabase()
		if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.User{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		gormProducts := repositories.NewGORMProductRepository(db)
		if existing, err := gormProducts.GetAll(); err == nil && len(existing) == 0 {
			seedProducts(gormProducts)
		}
		productRepo = gormProducts
		orderRepo = repositories.NewGORMOrderRepository(db)
		directory = services.NewAuthService(
			repositories.NewGORMUserRepository(db),
			viper.GetString("JWT_SECRET"),
		)
	}

	// --- Payment gateway (optional) ---
	var gateway *razorpay.Client
	if keyID := viper.GetString("RAZORPAY_KEY_ID"); keyID != "" {
		gateway = razorpay.NewClient(razorpay.Config{
			KeyID:     keyID,
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
		})
	}

	// --- Services ---
	sessions := session.NewStore()
	cartService := services.NewCartService(productRepo)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo)
	var events services.EventPublisher
	if mqClient != nil {
		events = mqClient
	}
	checkoutService := services.NewCheckoutService(orderRepo, gateway, events)

	// --- Handlers ---
	cartHandler := handlers.NewCartHandler(cartService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	checkoutHandler := handlers.NewCheckoutHandler(
		checkoutService,
		pincode.NewClient(viper.GetString("PINCODE_BASE_URL")),
	)
	userHandler := handlers.NewUserHandler(directory, sessions)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(middleware.WithSession(sessions))

	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"mode":   mode,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server ---
	log.Printf("Starting dessert storefront on %s (backend mode: %s)", appPort, mode)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase connects GORM to the configured driver.
func openDatabase() *gorm.DB {
	dsn := viper.GetString("DATABASE_DSN")
	var (
		db  *gorm.DB
		err error
	)
	switch viper.GetString("DATABASE_DRIVER") {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

// seedProducts populates an empty catalog with the starting dessert range.
func seedProducts(repo repositories.ProductRepository) {
	products := []models.Product{
		{Name: "Chocolate Truffle Cake", Description: "Rich dark chocolate layered cake", Price: 550.00},
		{Name: "Classic Tiramisu", Description: "Espresso-soaked layers with mascarpone", Price: 320.00},
		{Name: "Mango Cheesecake", Description: "Baked cheesecake with alphonso mango", Price: 380.00},
		{Name: "Red Velvet Cupcake", Description: "Cream cheese frosted cupcake", Price: 90.00},
		{Name: "Butter Croissant", Description: "Flaky all-butter croissant", Price: 75.00},
		{Name: "Salted Caramel Brownie", Description: "Fudgy brownie with salted caramel", Price: 120.00},
		{Name: "Pistachio Baklava", Description: "Crisp filo with pistachio and honey", Price: 260.00},
		{Name: "Lemon Tart", Description: "Tangy lemon curd in a shortcrust shell", Price: 180.00},
		{Name: "Gulab Jamun Box", Description: "A dozen soft gulab jamuns in syrup", Price: 240.00},
		{Name: "Assorted Macarons", Description: "Six French macarons, seasonal flavours", Price: 300.00},
	}
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		}
	}
	log.Printf("Seeded %d products", len(products))
}
