package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v81"

	"storefront/handlers"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/consul"
	"storefront/internal/orders"
	"storefront/internal/pricing"
	"storefront/internal/products"
	"storefront/internal/stores/kafka"
	"storefront/internal/stores/postgres"
	"storefront/internal/users"
	"storefront/pkg/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to the database:", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
	}

	privatePEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		log.Fatal("Failed to read private key:", err)
	}
	publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		log.Fatal("Failed to read public key:", err)
	}
	keys, err := auth.NewKeys(privatePEM, publicPEM)
	if err != nil {
		log.Fatal("Failed to parse auth keys:", err)
	}

	var producer *kafka.Conf
	if cfg.KafkaEnabled {
		producer, err = kafka.NewConf(cfg.KafkaBrokers)
		if err != nil {
			log.Fatal("Failed to create kafka producer:", err)
		}
		defer producer.Close()
	}

	if cfg.StripeKey != "" {
		stripe.Key = cfg.StripeKey
	}

	productsConf, err := products.NewConf(db)
	if err != nil {
		log.Fatal("Failed to init products store:", err)
	}
	cartConf, err := cart.NewConf(db)
	if err != nil {
		log.Fatal("Failed to init cart store:", err)
	}
	ordersConf, err := orders.NewConf(db)
	if err != nil {
		log.Fatal("Failed to init orders store:", err)
	}
	usersConf, err := users.NewConf(db)
	if err != nil {
		log.Fatal("Failed to init users store:", err)
	}

	discounts, err := pricing.NewCodeTable(cfg.DiscountCodes)
	if err != nil {
		log.Fatal("Failed to parse discount codes:", err)
	}

	details := products.NewDetailsService(productsConf, cfg.LowStockThreshold)
	cartService := cart.NewService(cartConf, cfg.LowStockThreshold)
	checkoutService := orders.NewCheckoutService(ordersConf, discounts, producer,
		cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL, cfg.StripeKey != "")

	h := handlers.NewHandler(productsConf, details, cartService, checkoutService, usersConf, keys)
	router := handlers.API(cfg.EndpointPrefix, h)

	if cfg.ConsulAddress != "" {
		client, err := consul.NewClient(cfg.ConsulAddress)
		if err != nil {
			log.Fatal("Failed to create consul client:", err)
		}
		if err := consul.RegisterService(client, cfg.ServiceName, cfg.ServiceHost, cfg.Port); err != nil {
			log.Fatal("Failed to register with consul:", err)
		}
		slog.Info("registered with consul", slog.String("Service", cfg.ServiceName))
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("starting server", slog.String("Port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownGracePeriod)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", slog.String("Error", err.Error()))
	}
	slog.Info("server stopped")
}
