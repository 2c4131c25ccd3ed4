package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/quickhatch/storefront/pkg/auth"
	"github.com/quickhatch/storefront/pkg/config"
	"github.com/quickhatch/storefront/pkg/idempotency"
	"github.com/quickhatch/storefront/pkg/logging"
	"github.com/quickhatch/storefront/pkg/outbox"
	"github.com/quickhatch/storefront/pkg/shutdown"
	"github.com/quickhatch/storefront/pkg/tracing"

	accountapp "github.com/quickhatch/storefront/internal/account/application"
	accounthttp "github.com/quickhatch/storefront/internal/account/infrastructure/http"
	accountpg "github.com/quickhatch/storefront/internal/account/infrastructure/postgres"
	analyticsapp "github.com/quickhatch/storefront/internal/analytics/application"
	analyticshttp "github.com/quickhatch/storefront/internal/analytics/infrastructure/http"
	analyticspg "github.com/quickhatch/storefront/internal/analytics/infrastructure/postgres"
	cartapp "github.com/quickhatch/storefront/internal/cart/application"
	carthttp "github.com/quickhatch/storefront/internal/cart/infrastructure/http"
	cartpg "github.com/quickhatch/storefront/internal/cart/infrastructure/postgres"
	catalogapp "github.com/quickhatch/storefront/internal/catalog/application"
	cataloghttp "github.com/quickhatch/storefront/internal/catalog/infrastructure/http"
	catalogpg "github.com/quickhatch/storefront/internal/catalog/infrastructure/postgres"
	orderapp "github.com/quickhatch/storefront/internal/order/application"
	orderdomain "github.com/quickhatch/storefront/internal/order/domain"
	orderhttp "github.com/quickhatch/storefront/internal/order/infrastructure/http"
	orderkafka "github.com/quickhatch/storefront/internal/order/infrastructure/kafka"
	orderpg "github.com/quickhatch/storefront/internal/order/infrastructure/postgres"
	storepg "github.com/quickhatch/storefront/internal/storefront/postgres"
)

func main() {
	log := logging.New()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}
	taxRate, freeShipping, flatFee, err := cfg.PricingRates()
	if err != nil {
		log.Error("invalid pricing config", "err", err)
		os.Exit(1)
	}

	stopTracing, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = stopTracing(context.Background()) }()

	pool, err := storepg.Connect(ctx, cfg.PGURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := storepg.Migrate(pool, cfg.Migrations); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idemStore := idempotency.NewStore(rdb, 24*time.Hour)

	writer := orderkafka.NewWriter([]string{cfg.KafkaAddr})
	defer writer.Close()

	// Outbox relay: leased batches from Postgres into Kafka.
	outboxStore := orderpg.NewOutboxStore(log, pool)
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, outboxStore, dispatch, "storefront-relay")

	// Catalog
	catalogSvc := catalogapp.NewService(log,
		catalogpg.NewRepository(log, pool),
		catalogpg.NewReviewRepository(log, pool))
	catalogHandler := cataloghttp.NewHandler(log, catalogSvc)

	// Account
	accountSvc := accountapp.NewService(log,
		accountpg.NewRepository(log, pool),
		accountpg.NewWishlistRepository(log, pool))
	accountHandler := accounthttp.NewHandler(log, accountSvc)

	// Cart
	cartSvc := cartapp.NewService(log, cartpg.NewRepository(log, pool), catalogSvc)
	cartHandler := carthttp.NewHandler(log, cartSvc)

	// Orders
	orderSvc := orderapp.NewService(log,
		orderpg.NewRepository(log, pool),
		cartGateway{carts: cartSvc},
		catalogSvc,
		accountSvc,
		orderdomain.PricingConfig{
			TaxRate:               taxRate,
			FreeShippingThreshold: freeShipping,
			ShippingFlatFee:       flatFee,
		},
		cfg.OrderNumberPrefix)
	orderHandler := orderhttp.NewHandler(log, orderSvc)

	// Analytics
	analyticsSvc := analyticsapp.NewService(log, analyticspg.NewRepository(log, pool))
	analyticsHandler := analyticshttp.NewHandler(log, analyticsSvc)

	r := chi.NewRouter()
	r.Use(auth.Middleware)
	r.Mount("/products", catalogHandler.Routes())
	r.Mount("/cart", cartHandler.Routes())
	r.Mount("/addresses", accountHandler.AddressRoutes())
	r.Mount("/wishlist", accountHandler.WishlistRoutes())
	r.Mount("/orders", orderHandler.Routes(idempotency.Middleware(idemStore, "checkout")))
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Mount("/reviews", catalogHandler.ReviewRoutes())
		r.Mount("/analytics", analyticsHandler.Routes())
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("storefront shutdown complete")
}
