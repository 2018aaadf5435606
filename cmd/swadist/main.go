package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Ashish-AN/Swadist/internal/cache"
	"github.com/Ashish-AN/Swadist/internal/cart"
	"github.com/Ashish-AN/Swadist/internal/catalog"
	"github.com/Ashish-AN/Swadist/internal/events"
	"github.com/Ashish-AN/Swadist/internal/httpapi"
	"github.com/Ashish-AN/Swadist/internal/identity"
	"github.com/Ashish-AN/Swadist/internal/order"
	"github.com/Ashish-AN/Swadist/internal/payment"
	"github.com/Ashish-AN/Swadist/internal/storage"
)

type Config struct {
	HTTPPort          string
	MongoURI          string
	MongoDBName       string
	RedisAddr         string
	RedisPassword     string
	Postgres          storage.Credentials
	KafkaBrokers      []string
	ProviderBaseURL   string
	ProviderKeyID     string
	ProviderKeySecret string
	ProviderTimeout   time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	ShippingSurcharge float64
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "swadist"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		Postgres: storage.Credentials{
			Host:              getEnv("POSTGRES_HOST", "localhost"),
			Port:              getEnvInt("POSTGRES_PORT", 5432),
			User:              getEnv("POSTGRES_USER", "swadist"),
			Password:          getEnv("POSTGRES_PASSWORD", "swadist"),
			DBName:            getEnv("POSTGRES_DB", "swadist"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		KafkaBrokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ProviderBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		ProviderKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		ProviderKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		ProviderTimeout:   10 * time.Second,
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ShippingSurcharge: getEnvFloat("SHIPPING_SURCHARGE", 50),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo holds the catalog, users and carts.
	mongoDB, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	cartRepo := cart.NewMongoRepository(mongoDB)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	catalogSvc := catalog.NewMongoCatalog(mongoDB)
	identitySvc := identity.NewMongoIdentity(mongoDB)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// Postgres holds orders and payment intents.
	db, err := storage.Open(&cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()
	if err := storage.RunMigrations(db, cfg.Postgres.MigrationsDirPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Connected to Postgres")

	cartCache := cache.NewRedisCache(redisClient)
	locks := cart.NewUserLocks()
	cartSvc := cart.NewService(cartRepo, cartCache, catalogSvc, identitySvc, locks)

	provider := payment.NewRazorpayProvider(cfg.ProviderBaseURL, cfg.ProviderKeyID, cfg.ProviderKeySecret, cfg.ProviderTimeout)
	intentStore := payment.NewPostgresStore(db)
	correlator := payment.NewCorrelator(intentStore, provider)
	go correlator.RunSweep(ctx)

	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	orderRepo := order.NewPostgresRepository(db)
	ledger := order.NewLedger(orderRepo, cartSvc, catalogSvc, correlator, publisher, cfg.ShippingSurcharge)

	consumer := events.NewFulfillmentConsumer(ledger, cfg.KafkaBrokers...)
	defer consumer.Close()
	go consumer.Run(ctx)

	router := httpapi.NewRouter(cartSvc, correlator, cartSvc, ledger, catalogSvc, cfg.RequestTimeout, cfg.ShippingSurcharge)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "swadist-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Swadist API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
