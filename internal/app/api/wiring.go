package api

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	userpostgres "github.com/petopia/petopia-server/internal/domains/users/adapters/persistence/postgres"
	usermemory "github.com/petopia/petopia-server/internal/domains/users/adapters/memory"
	userobs "github.com/petopia/petopia-server/internal/domains/users/adapters/observability"
	"github.com/petopia/petopia-server/internal/domains/users/adapters/token"
	userapp "github.com/petopia/petopia-server/internal/domains/users/application"
	userports "github.com/petopia/petopia-server/internal/domains/users/ports"

	storenotify "github.com/petopia/petopia-server/internal/domains/store/adapters/notify"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"

	"github.com/petopia/petopia-server/internal/platform/kafka"
	"github.com/petopia/petopia-server/internal/platform/mail"
	platformobservability "github.com/petopia/petopia-server/internal/platform/observability"
	"github.com/petopia/petopia-server/internal/shared/events"
)

// NewUserService builds the users context on PostgreSQL when db is set, memory otherwise.
func NewUserService(db *gorm.DB, cfg Config, instruments *platformobservability.Instruments) (userports.Service, error) {
	issuer, err := token.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}
	var repo userports.Repository = usermemory.NewRepository()
	if db != nil {
		repo = userpostgres.NewRepository(db)
	}
	return userobs.New(
		userapp.NewService(repo, issuer),
		userobs.WithLogger(instruments.Logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	), nil
}

// NewEmailNotifier mails cancellation notices through SMTP, resolving recipients through the users context.
// Without an SMTP relay notices are dropped after a warning.
func NewEmailNotifier(cfg Config, users userports.Service, logger *slog.Logger) storeports.CancellationNotifier {
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP_HOST or SMTP_FROM not set, cancellation emails are disabled")
		return storeports.NoopNotifier
	}
	sender, err := mail.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logger.Warn("smtp sender unavailable, cancellation emails are disabled", slog.String("error", err.Error()))
		return storeports.NoopNotifier
	}
	return storenotify.NewEmailNotifier(CustomerDirectory(users), sender)
}

// CustomerDirectory exposes user contacts to the store notifier.
func CustomerDirectory(users userports.Service) storeports.CustomerDirectory {
	return storeports.DirectoryFunc(func(ctx context.Context, userID int64) (storeports.Contact, error) {
		contact, err := users.Contact(ctx, userID)
		if err != nil {
			return storeports.Contact{}, err
		}
		return storeports.Contact{Email: contact.Email, Name: contact.Name}, nil
	})
}

// NewPublisher writes domain events to Kafka when brokers are configured.
func NewPublisher(cfg Config, logger *slog.Logger) (events.Publisher, func()) {
	brokers := kafka.ParseBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, domain events are discarded")
		return events.Noop, func() {}
	}
	publisher, err := kafka.NewPublisher(brokers, cfg.KafkaTopic, logger)
	if err != nil {
		logger.Warn("kafka publisher unavailable, domain events are discarded", slog.String("error", err.Error()))
		return events.Noop, func() {}
	}
	logger.Info("publishing domain events to kafka", slog.String("topic", cfg.KafkaTopic))
	return publisher, func() {
		if err := publisher.Close(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("failed to close kafka publisher", slog.String("error", err.Error()))
		}
	}
}
