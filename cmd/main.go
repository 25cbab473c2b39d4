// fresherjobs marketplace-service
//
// Authorization and workflow engine of the fresher job marketplace.
// Exposes:
//   - a REST API (auth, jobs, applications, profiles, admin moderation)
//   - a gRPC Marketplace service plus grpc.health.v1
//   - Prometheus metrics on /metrics
//
// Runs a cron sweep that deactivates expired jobs and publishes
// application and approval events to Redis for the notification service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"fresherjobs/marketplace-service/internal/account"
	"fresherjobs/marketplace-service/internal/approval"
	"fresherjobs/marketplace-service/internal/auth"
	"fresherjobs/marketplace-service/internal/authz"
	"fresherjobs/marketplace-service/internal/config"
	"fresherjobs/marketplace-service/internal/db"
	"fresherjobs/marketplace-service/internal/events"
	"fresherjobs/marketplace-service/internal/grpcserver"
	"fresherjobs/marketplace-service/internal/httpapi"
	"fresherjobs/marketplace-service/internal/jobs"
	"fresherjobs/marketplace-service/internal/lifecycle"
	"fresherjobs/marketplace-service/internal/metrics"
	"fresherjobs/marketplace-service/internal/profile"
	"fresherjobs/marketplace-service/internal/ratelimit"
	"fresherjobs/marketplace-service/internal/scheduler"
	"fresherjobs/marketplace-service/internal/store"
	"fresherjobs/marketplace-service/internal/store/memory"
	"fresherjobs/marketplace-service/internal/store/postgres"
)

const (
	service = "marketplace-service"
	version = "1.0.0"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[fresherjobs] Config error: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("service", service)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Storage ─────────────────────────────────────────────────────────────
	var st store.Store
	if cfg.DatabaseURL == "" {
		log.Println("[fresherjobs] DATABASE_URL not set, using the in-memory store (development only)")
		st = memory.New()
	} else {
		if cfg.RunMigrations {
			log.Println("[fresherjobs] Running migrations…")
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				log.Fatalf("[fresherjobs] Migrations: %v", err)
			}
		}
		log.Println("[fresherjobs] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			log.Fatalf("[fresherjobs] PostgreSQL: %v", err)
		}
		defer pool.Close()
		log.Println("[fresherjobs] PostgreSQL connected ✓")
		st = postgres.New(pool)
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	var (
		rdb       *redis.Client
		publisher events.Publisher = events.Nop{}
	)
	if cfg.RedisURL == "" {
		log.Println("[fresherjobs] REDIS_URL not set, events and rate limiting disabled")
	} else {
		log.Println("[fresherjobs] Connecting to Redis…")
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[fresherjobs] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[fresherjobs] Redis connected ✓")
		publisher = events.NewRedisPublisher(rdb, logger)
	}

	// ── Engine ───────────────────────────────────────────────────────────────
	m := metrics.New()
	guard := authz.NewGuard(m, logger)

	authSvc := auth.NewService(st, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL))
	jobSvc := jobs.NewService(st, guard, m)
	lifecycleSvc := lifecycle.NewService(st, guard, publisher, m)
	approvalSvc := approval.NewService(st, guard, publisher)

	if cfg.AdminEmail != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("[fresherjobs] Admin seed: %v", err)
		}
	}

	// ── Scheduler ────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.SweepEnabled() {
		sched = scheduler.New(jobSvc, cfg.ExpirySweepSpec)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[fresherjobs] Scheduler: %v", err)
		}
	} else {
		log.Println("[fresherjobs] Expiry sweep disabled")
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	h := httpapi.NewHandler(httpapi.Deps{
		Auth:         authSvc,
		Jobs:         jobSvc,
		Lifecycle:    lifecycleSvc,
		Profiles:     profile.NewService(st, guard),
		Approval:     approvalSvc,
		Accounts:     account.NewService(st, guard),
		Metrics:      m,
		ApplyLimiter: ratelimit.NewRedisLimiter(rdb, "apply", cfg.ApplyRateLimitPerMin, time.Minute),
		LoginLimiter: ratelimit.NewRedisLimiter(rdb, "login", cfg.LoginRateLimitPerMin, time.Minute),
		Service:      service,
		Version:      version,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[fresherjobs] v%s HTTP listening on :%s", version, cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[fresherjobs] HTTP server error: %v", err)
		}
	}()

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("[fresherjobs] gRPC listen: %v", err)
	}
	grpcSrv, healthSrv := grpcserver.New(grpcserver.NewServer(authSvc, jobSvc, lifecycleSvc, approvalSvc))

	go func() {
		log.Printf("[fresherjobs] gRPC listening on :%s", cfg.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatalf("[fresherjobs] gRPC server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[fresherjobs] Shutting down…")
	healthSrv.SetServingStatus(grpcserver.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	if sched != nil {
		sched.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[fresherjobs] Shutdown error: %v", err)
	}
	grpcSrv.GracefulStop()
	log.Println("[fresherjobs] Stopped.")
}
