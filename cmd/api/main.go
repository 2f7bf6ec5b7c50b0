package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jansan-commerce/internal/client"
	"jansan-commerce/internal/config"
	"jansan-commerce/internal/limiter"
	"jansan-commerce/internal/repository"
	"jansan-commerce/internal/server"
	"jansan-commerce/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	otpRequestLimit  = 3
	otpRequestWindow = 15 * time.Minute
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitDBClient(cfg.DatabaseURL)

	gatewayClient := client.NewGatewayClient(&cfg.Gateway)
	googleVerifier := client.NewGoogleVerifier(&cfg.Google)
	emailClient := client.NewEmailClient(&cfg.Email)

	var otpLimiter limiter.RateLimiter
	if rdb := client.InitRedisClient(cfg.RedisAddr); rdb != nil {
		otpLimiter = limiter.NewRedisLimiter(rdb, "otp", otpRequestLimit, otpRequestWindow)
	} else {
		otpLimiter = limiter.NewMemoryLimiter(otpRequestLimit, otpRequestWindow)
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	svcs := server.Services{
		User:     service.NewUserService(userRepo, googleVerifier, cfg.JWT),
		Password: service.NewPasswordService(userRepo, emailClient, otpLimiter),
		Product:  service.NewProductService(productRepo),
		Cart:     service.NewCartService(cartRepo, productRepo),
		Order:    service.NewOrderService(db, orderRepo, productRepo, userRepo, cartRepo),
		Payment:  service.NewPaymentService(db, gatewayClient, paymentRepo, orderRepo, userRepo),
		Webhook:  service.NewWebhookService(db, gatewayClient, paymentRepo, orderRepo, productRepo, webhookEventRepo),
		Chat:     service.NewChatService(),
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg, svcs)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
