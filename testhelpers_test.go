//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	adoptionEvents "github.com/Kilat-Pet-Delivery/service-adoption/internal/events"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events/schema"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/auth"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// adoptionStack holds wired-up adoption service components.
type adoptionStack struct {
	Credentials     *application.CredentialService
	Pets            *application.PetService
	Statuses        *application.StatusService
	Consumer        *adoptionEvents.AdoptionProcessConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies the SQL
// migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_adoption",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_adoption",
		SSLMode:  "disable",
	}

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), "migrations", logger))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, schema.TopicPetEvents, schema.TopicAdoptionProcessEvents)

	cleanup := func() {
		_ = database.Close(db)
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupAdoptionStack wires up the full adoption service stack on PostgreSQL.
func setupAdoptionStack(t *testing.T, db *gorm.DB, brokers []string) *adoptionStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	users := repository.NewGormUserRepository(db)
	institutions := repository.NewGormInstitutionRepository(db)
	pets := repository.NewGormPetRepository(db)
	events := repository.NewGormStatusRepository(db)
	tx := database.NewGormTransactor(db)

	producer := kafka.NewProducer(brokers, logger)
	hasher, err := application.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokenManager("integration-secret", time.Hour, institutions)

	statuses := application.NewStatusService(pets, events, institutions, tx, producer, nil, logger)
	photos := application.NewPhotoService(nopImageStore{}, "", logger)
	petSvc := application.NewPetService(pets, institutions, statuses, photos, tx, producer, nil, logger)
	creds := application.NewCredentialService(users, institutions, hasher, tokens, logger)

	groupID := fmt.Sprintf("test-adoption-%s", uuid.New().String()[:8])
	consumer := adoptionEvents.NewAdoptionProcessConsumer(brokers, groupID, statuses, logger)

	return &adoptionStack{
		Credentials:     creds,
		Pets:            petSvc,
		Statuses:        statuses,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// registerShelter creates an institution and returns it as a principal.
func registerShelter(t *testing.T, stack *adoptionStack, suffix string) principal.Principal {
	t.Helper()
	dto, err := stack.Credentials.RegisterInstitution(context.Background(), application.RegisterInstitutionRequest{
		Name:     "Shelter " + suffix,
		Email:    "shelter-" + suffix + "@example.com",
		TaxID:    "TAX-" + suffix,
		Password: "secret",
		Kind:     "NGO",
		City:     "Recife",
		State:    "PE",
	})
	require.NoError(t, err)
	return principal.New(dto.ID, principal.KindInstitution)
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType, subject string, data any) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, subject, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForAvailability polls the pets table until is_available matches.
func waitForAvailability(t *testing.T, db *gorm.DB, petID uuid.UUID, expected bool, timeout time.Duration) repository.PetModel {
	t.Helper()
	var result repository.PetModel
	require.Eventually(t, func() bool {
		var model repository.PetModel
		if err := db.Where("id = ?", petID).First(&model).Error; err != nil {
			return false
		}
		if model.IsAvailable == expected {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "pet availability did not become %v", expected)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type and subject.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType, subject string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType && ce.Subject == subject {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
