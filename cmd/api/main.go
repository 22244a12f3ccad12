package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-backend/internal/cache"
	"marketplace-backend/internal/client"
	"marketplace-backend/internal/config"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/publisher"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/server"
	"marketplace-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// load .env into os.Environ
	envErr := godotenv.Load()

	cfg, err := loadConfig(env.Options{})
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to parse config")
	}

	log := logger.New(cfg.Log)
	if envErr != nil {
		log.Debug().Msg("no .env file found (ok in prod)")
	}

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect database")
	}

	gateway := client.NewAamarpayClient(&cfg.Aamarpay)

	customerRepo := repository.NewCustomerRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	shopRepo := repository.NewShopRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	followRepo := repository.NewFollowRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	recentViewedRepo := repository.NewRecentViewedRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)

	var productCache cache.ProductCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, product cache will fall back to the database")
		}
		cancel()
		productCache = cache.NewRedisCache(rdb, cfg.Redis.ProductTTL)
	}

	services := server.Services{
		User:    service.NewUserService(customerRepo, vendorRepo),
		Catalog: service.NewCatalogService(categoryRepo, vendorRepo, shopRepo, productRepo, productCache, log),
		Order:   service.NewOrderService(db, customerRepo, shopRepo, productRepo, orderRepo, outboxRepo),
		Payment: service.NewPaymentService(
			db, gateway, nil, cfg.Site.ServerURL,
			customerRepo, orderRepo, paymentRepo, outboxRepo,
			log,
		),
		Coupon:       service.NewCouponService(db, customerRepo, couponRepo, redemptionRepo, outboxRepo),
		Follow:       service.NewFollowService(customerRepo, shopRepo, followRepo),
		Review:       service.NewReviewService(customerRepo, shopRepo, productRepo, orderRepo, reviewRepo),
		RecentViewed: service.NewRecentViewedService(customerRepo, productRepo, recentViewedRepo),
		Newsletter:   service.NewNewsletterService(newsletterRepo),
	}

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	pollerDone := make(chan struct{})
	if len(cfg.Kafka.Brokers) > 0 {
		poller := publisher.NewOutboxPoller(outboxRepo, publisher.NewKafkaWriter(cfg.Kafka), cfg.Kafka.PollInterval, log)
		go func() {
			defer close(pollerDone)
			poller.Run(pollerCtx)
		}()
	} else {
		close(pollerDone)
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cfg, services, log)

	log.Info().Str("addr", serverAddr).Str("env", cfg.Environment.Name).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	stopPoller()
	<-pollerDone
	log.Info().Msg("shutdown complete")
}

// loadConfig parses the process environment, or opts.Environment when it is set.
func loadConfig(opts env.Options) (*config.Config, error) {
	cfg := &config.Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
