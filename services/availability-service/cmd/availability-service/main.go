package main

import (
	"net"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/md-rashed-zaman/interviewbook/libs/config"
	"github.com/md-rashed-zaman/interviewbook/libs/db"
	"github.com/md-rashed-zaman/interviewbook/libs/grpcx"
	"github.com/md-rashed-zaman/interviewbook/libs/httpx"
	"github.com/md-rashed-zaman/interviewbook/libs/kafkax"
	otelx "github.com/md-rashed-zaman/interviewbook/libs/otel"
	"github.com/md-rashed-zaman/interviewbook/libs/redisx"
	"github.com/md-rashed-zaman/interviewbook/libs/runtime"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/consumer"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/grpcserver"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/handlers"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/policy"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/profiles"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/scheduling"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "availability-service")
	port, err := config.Port("PORT", "8084")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := runtime.ShutdownContext(5 * time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, db.Options{})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	redisDB, err := config.Int("REDIS_DB", 0)
	if err != nil {
		panic(err)
	}
	rdb, err := redisx.Open(ctx, redisx.Options{
		Addr:     config.String("REDIS_ADDR", ""),
		Password: config.String("REDIS_PASSWORD", ""),
		DB:       redisDB,
	})
	if err != nil {
		// Redis only backs the profile cache and rate limits; run without it.
		logger.Warn("redis unavailable, continuing without cache", "err", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var profileSource scheduling.ProfileSource = storage.NewProfileRepository(pool)
	if addr := config.String("EXPERT_GRPC_ADDR", ""); addr != "" {
		grpcSource, err := profiles.NewGRPCSource(ctx, addr)
		if err != nil {
			logger.Error("expert grpc dial failed", "err", err, "addr", addr)
			panic(err)
		}
		defer grpcSource.Close()
		profileSource = grpcSource
	}

	var cache *profiles.CachedSource
	if rdb != nil {
		ttlSeconds, err := config.Int("PROFILE_CACHE_TTL_SECONDS", 300)
		if err != nil {
			panic(err)
		}
		cache = profiles.NewCachedSource(profileSource, rdb, time.Duration(ttlSeconds)*time.Second, "", logger)
		profileSource = cache
	}

	fetchPolicy, err := policy.Parse(config.String("SESSIONS_FETCH_FAILURE_POLICY", string(policy.Block)))
	if err != nil {
		panic(err)
	}
	loc, err := time.LoadLocation(config.String("TIMEZONE", "UTC"))
	if err != nil {
		panic(err)
	}
	rollingDays, err := config.Int("CALENDAR_ROLLING_DAYS", 14)
	if err != nil {
		panic(err)
	}

	svc := scheduling.NewService(profileSource, storage.NewSessionRepository(pool), logger, scheduling.Config{
		FetchFailure: fetchPolicy,
		Location:     loc,
		RollingDays:  rollingDays,
	})

	brokers := config.String("KAFKA_BROKERS", "")
	if brokers != "" && cache != nil {
		eventConsumer := consumer.New(logger, consumer.Config{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", "availability-service"),
			Topic:   config.String("KAFKA_PROFILE_TOPIC", "expert.availability.updated.v1"),
		}, consumer.InvalidateOnUpdate(cache, logger))
		go eventConsumer.Run(ctx)
	}

	checks := []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}}
	if rdb != nil {
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: redisx.ReadyCheck(rdb)})
	}
	if brokers != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	mux := runtime.NewBaseMuxWithReady(checks...)

	slotsHandler := handlers.NewSlotsHandler(svc, logger)
	mux.HandleFunc("/api/v1/public/slots", slotsHandler.Slots)
	mux.HandleFunc("/api/v1/public/calendar", slotsHandler.Calendar)

	perMinute, err := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		panic(err)
	}
	var rateLimit httpx.Middleware
	if rdb != nil {
		rateLimit = httpx.NewRedisRateLimiter(rdb, perMinute, time.Minute, "availability:ratelimit").Middleware(logger, true)
	} else {
		rateLimit = httpx.NewRateLimiter(perMinute, perMinute/4).Middleware()
	}

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
			MaxAge:         10 * time.Minute,
		}),
		rateLimit,
		httpx.WithTimeout(10*time.Second),
		httpx.WithBodyLimit(1<<20),
	)
	handler = otelhttp.NewHandler(handler, "availability")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcPort, err := config.Port("GRPC_PORT", "9094")
	if err != nil {
		panic(err)
	}
	grpcServer, health := grpcx.NewServer(logger)
	grpcserver.Register(grpcServer, svc)
	health.SetServingStatus(grpcserver.ServiceName, healthpb.HealthCheckResponse_SERVING)
	if config.Bool("GRPC_ENABLED", true) {
		lis, err := net.Listen("tcp", ":"+grpcPort)
		if err != nil {
			logger.Error("grpc listen failed", "err", err)
			panic(err)
		}
		go func() {
			logger.Info("grpc server starting", "addr", lis.Addr().String())
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("grpc server error", "err", err)
			}
		}()
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	health.Shutdown()
	shutdownCtx, cancel := runtime.ShutdownContext(10 * time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	grpcServer.GracefulStop()
	logger.Info("servers stopped")
}
