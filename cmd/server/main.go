package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/config"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/photo"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/status"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
	adoptionEvents "github.com/Kilat-Pet-Delivery/service-adoption/internal/events"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/auth"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/logger"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/metrics"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/storage"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/repository/memory"
)

const serviceName = "service-adoption"

// stores bundles the repositories of one store driver.
type stores struct {
	users        user.UserRepository
	institutions institution.InstitutionRepository
	pets         pet.PetRepository
	events       status.EventRepository
	tx           database.Transactor
	ping         health.Pinger
	close        func() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.String("images", cfg.ImageConfig.Driver),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error("failed to close store", zap.Error(err))
		}
	}()

	images, uploadsDir, err := openImageStore(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize image store", zap.Error(err))
	}

	// Initialize token manager and password hasher
	tokenManager := auth.NewTokenManager(cfg.JWTConfig.Secret, cfg.JWTConfig.ExpiresIn, st.institutions)
	hasher, err := application.NewBcryptHasher(application.DefaultHashCost)
	if err != nil {
		log.Fatal("failed to initialize password hasher", zap.Error(err))
	}

	// Initialize Kafka producer
	var publisher application.EventPublisher = application.NopPublisher{}
	if cfg.KafkaConfig.Enabled() {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	} else {
		log.Info("kafka brokers not configured, domain events are disabled")
	}

	m := metrics.New("adoption")

	// Initialize application services
	statusService := application.NewStatusService(st.pets, st.events, st.institutions, st.tx, publisher, m, log)
	photoService := application.NewPhotoService(images, photoPrefix(cfg), log)
	petService := application.NewPetService(st.pets, st.institutions, statusService, photoService, st.tx, publisher, m, log)
	credentialService := application.NewCredentialService(st.users, st.institutions, hasher, tokenManager, log)

	// Initialize and start adoption process consumer in a goroutine
	if cfg.KafkaConfig.Enabled() {
		groupID := cfg.KafkaConfig.GroupPrefix + "adoption-service"
		processConsumer := adoptionEvents.NewAdoptionProcessConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			statusService,
			log,
		)
		defer func() { _ = processConsumer.Close() }()

		go func() {
			log.Info("starting adoption process consumer")
			if err := processConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("adoption process consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.Services{
		Credentials: credentialService,
		Pets:        petService,
		Statuses:    statusService,
	}, handler.RouterOptions{
		Logger:     log,
		Verifier:   tokenManager,
		Metrics:    m,
		Health:     health.NewHandler(serviceName, map[string]health.Pinger{"store": st.ping}),
		UploadsDir: uploadsDir,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

func openStores(cfg *config.ServiceConfig, log *zap.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		s := memory.NewStore()
		return &stores{
			users:        s.Users(),
			institutions: s.Institutions(),
			pets:         s.Pets(),
			events:       s.StatusEvents(),
			tx:           s,
			ping:         s,
			close:        func() error { return nil },
		}, nil
	}

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		return nil, err
	}
	if err := migrate(cfg, db, log); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	return &stores{
		users:        repository.NewGormUserRepository(db),
		institutions: repository.NewGormInstitutionRepository(db),
		pets:         repository.NewGormPetRepository(db),
		events:       repository.NewGormStatusRepository(db),
		tx:           database.NewGormTransactor(db),
		ping: health.PingerFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		close: func() error { return database.Close(db) },
	}, nil
}

// migrate auto-migrates in development and applies the SQL migrations otherwise.
func migrate(cfg *config.ServiceConfig, db *gorm.DB, log *zap.Logger) error {
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(repository.AllModels()...); err != nil {
			return fmt.Errorf("failed to run auto-migration: %w", err)
		}
		log.Info("database migration completed (dev auto-migrate)")
		return nil
	}
	return database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log)
}

// openImageStore returns the configured image store and, for the local
// driver, the directory to serve under /uploads.
func openImageStore(ctx context.Context, cfg *config.ServiceConfig) (photo.Store, string, error) {
	img := cfg.ImageConfig
	if img.Driver == config.ImageDriverS3 {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    img.S3.Bucket,
			Region:    img.S3.Region,
			Endpoint:  img.S3.Endpoint,
			PathStyle: img.S3.PathStyle,
		})
		if err != nil {
			return nil, "", err
		}
		return s3Store, "", nil
	}

	local, err := storage.NewLocalStore(img.LocalDir, img.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return local, local.Dir(), nil
}

func photoPrefix(cfg *config.ServiceConfig) string {
	if cfg.ImageConfig.Driver == config.ImageDriverS3 {
		return cfg.ImageConfig.S3.Prefix
	}
	return ""
}
