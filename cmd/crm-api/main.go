// @title Training CRM API
// @version 1.0
// @description Students, courses, leads, timetable and staff for an IT training center.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/training-crm-api/api/swagger"
	"github.com/noah-isme/training-crm-api/internal/handler"
	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/repository"
	"github.com/noah-isme/training-crm-api/internal/service"
	"github.com/noah-isme/training-crm-api/pkg/cache"
	"github.com/noah-isme/training-crm-api/pkg/config"
	"github.com/noah-isme/training-crm-api/pkg/database"
	"github.com/noah-isme/training-crm-api/pkg/logger"
	"github.com/noah-isme/training-crm-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()

	var redisClient *redis.Client
	if cfg.Store.Driver == config.StoreDriverRedis || cfg.Dashboard.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close() //nolint:errcheck
	}

	kv, ready, closeStore, err := openStore(ctx, cfg, redisClient)
	if err != nil {
		logr.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()
	kv = repository.Instrument(kv, metrics)

	studentSeed, courseSeed, leadSeed := demoSeeds(cfg.Store.SeedDemo)
	studentStore := service.NewEntityStore[models.Student](repository.NewCollectionRepository(kv, repository.KeyStudents, studentSeed, logr), nil, logr)
	courseStore := service.NewEntityStore[models.Course](repository.NewCollectionRepository(kv, repository.KeyCourses, courseSeed, logr), nil, logr)
	leadStore := service.NewEntityStore[models.Lead](repository.NewCollectionRepository(kv, repository.KeyLeads, leadSeed, logr), nil, logr)
	scheduleStore := service.NewEntityStore[models.ScheduleEntry](repository.NewCollectionRepository(kv, repository.KeySchedule, models.DemoSchedule, logr), nil, logr)
	staffStore := service.NewEntityStore[models.StaffAccount](repository.NewCollectionRepository[models.StaffAccount](kv, repository.KeyStaff, nil, logr), nil, logr)

	director := service.DirectorCredential{Email: cfg.Director.Email, Code: cfg.Director.Code, Name: cfg.Director.Name}

	students := service.NewStudentService(studentStore, validate, logr)
	courses := service.NewCourseService(courseStore, validate, logr)
	leads := service.NewLeadService(leadStore, validate, logr)
	schedule := service.NewScheduleService(scheduleStore, courses, validate, logr)
	staff := service.NewStaffService(staffStore, director, validate, logr)
	auth := service.NewAuthService(staffStore, repository.NewSessionRepository(kv, logr), director, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		cacheRepo = repository.NewCacheRepository(redisClient, "crm:cache:", logr)
	}
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Students: students,
		Courses:  courses,
		Leads:    leads,
		Schedule: schedule,
		Cache:    service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled),
		CacheTTL: cfg.Dashboard.CacheTTL,
		Logger:   logr,
	})
	studentStore.Subscribe(dashboard.Invalidate)
	courseStore.Subscribe(dashboard.Invalidate)
	leadStore.Subscribe(dashboard.Invalidate)
	scheduleStore.Subscribe(dashboard.Invalidate)

	var completer service.Completer
	if c := service.NewOpenAICompleter(service.AIClientConfig{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}); c != nil {
		completer = c
	} else {
		logr.Warn("AI_API_KEY is empty, the assistant will answer with the fallback message")
	}

	router := handler.NewRouter(handler.RouterParams{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Auth:           auth,
		Students:       students,
		Courses:        courses,
		Leads:          leads,
		Schedule:       schedule,
		Staff:          staff,
		Dashboard:      dashboard,
		Finance:        service.NewFinanceService(students, cfg.Finance.PendingFee),
		Assistant:      service.NewAssistantService(completer, metrics, validate, logr),
		Settings:       service.NewSettingsService(repository.NewPreferenceRepository(kv, logr), cfg.Locale.DefaultLanguage, validate, logr),
		Exports:        service.NewExportService(students, nil, nil, logr),
		Metrics:        metrics,
		Ready:          ready,
		Logger:         logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore builds the key-value backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (repository.KVStore, handler.ReadinessCheck, func(), error) {
	noop := func() {}
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return repository.NewMemoryKV(), nil, noop, nil
	case config.StoreDriverFile, "":
		files, err := storage.NewLocalStorage(cfg.Store.Dir)
		if err != nil {
			return nil, nil, noop, err
		}
		return repository.NewFileKV(files), nil, noop, nil
	case config.StoreDriverSQLite, config.StoreDriverPostgres:
		var (
			db  *sqlx.DB
			err error
		)
		if cfg.Store.Driver == config.StoreDriverSQLite {
			db, err = database.NewSQLite(cfg.Store.SQLitePath)
		} else {
			db, err = database.NewPostgres(cfg.Database)
		}
		if err != nil {
			return nil, nil, noop, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, noop, err
		}
		return repository.NewSQLKV(db), db.PingContext, func() { _ = db.Close() }, nil
	case config.StoreDriverRedis:
		ready := func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		return repository.NewRedisKV(redisClient, "crm:"), ready, noop, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// demoSeeds returns the seeds for students, courses and leads. Without demo data they start empty.
func demoSeeds(enabled bool) (func() []models.Student, func() []models.Course, func() []models.Lead) {
	if !enabled {
		return nil, nil, nil
	}
	return models.DemoStudents, models.DemoCourses, models.DemoLeads
}
