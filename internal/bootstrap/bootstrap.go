// Package bootstrap wires configuration into storage, services and the
// HTTP router. Both binaries build their object graph through it.
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/client-connect/internal/config"
	"github.com/jwalitptl/client-connect/internal/email"
	"github.com/jwalitptl/client-connect/internal/handler"
	attemptHandler "github.com/jwalitptl/client-connect/internal/handler/attempt"
	authHandler "github.com/jwalitptl/client-connect/internal/handler/auth"
	mailingHandler "github.com/jwalitptl/client-connect/internal/handler/mailing"
	messageHandler "github.com/jwalitptl/client-connect/internal/handler/message"
	recipientHandler "github.com/jwalitptl/client-connect/internal/handler/recipient"
	userHandler "github.com/jwalitptl/client-connect/internal/handler/user"
	"github.com/jwalitptl/client-connect/internal/middleware"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/repository/memory"
	"github.com/jwalitptl/client-connect/internal/repository/postgres"
	"github.com/jwalitptl/client-connect/internal/router"
	"github.com/jwalitptl/client-connect/internal/service/attempt"
	"github.com/jwalitptl/client-connect/internal/service/auth"
	"github.com/jwalitptl/client-connect/internal/service/dispatch"
	"github.com/jwalitptl/client-connect/internal/service/mailing"
	"github.com/jwalitptl/client-connect/internal/service/message"
	"github.com/jwalitptl/client-connect/internal/service/rbac"
	"github.com/jwalitptl/client-connect/internal/service/recipient"
	"github.com/jwalitptl/client-connect/internal/service/user"
	jwtauth "github.com/jwalitptl/client-connect/pkg/auth"
	"github.com/jwalitptl/client-connect/pkg/logger"
	"github.com/jwalitptl/client-connect/pkg/messaging"
	"github.com/jwalitptl/client-connect/pkg/messaging/redis"
	"github.com/jwalitptl/client-connect/pkg/metrics"
	"github.com/jwalitptl/client-connect/pkg/security"
	"github.com/jwalitptl/client-connect/pkg/validator"
)

// EventsChannel carries mailing lifecycle events.
const EventsChannel = "mailing.events"

// Storage holds one repository per entity. DB is nil for the memory driver.
type Storage struct {
	Users      repository.UserRepository
	RBAC       repository.RBACRepository
	Recipients repository.RecipientRepository
	Messages   repository.MessageRepository
	Mailings   repository.MailingRepository
	Attempts   repository.SendingAttemptRepository
	DB         *sqlx.DB
}

func (s *Storage) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// NewMemoryStorage returns storage backed by a fresh in-memory store.
func NewMemoryStorage() *Storage {
	store := memory.NewStore()
	return &Storage{
		Users:      store.Users(),
		RBAC:       store.RBAC(),
		Recipients: store.Recipients(),
		Messages:   store.Messages(),
		Mailings:   store.Mailings(),
		Attempts:   store.Attempts(),
	}
}

// NewPostgresStorage wraps an open connection.
func NewPostgresStorage(db *sqlx.DB) *Storage {
	base := postgres.NewBaseRepository(db)
	return &Storage{
		Users:      postgres.NewUserRepository(base),
		RBAC:       postgres.NewRBACRepository(base),
		Recipients: postgres.NewRecipientRepository(base),
		Messages:   postgres.NewMessageRepository(base),
		Mailings:   postgres.NewMailingRepository(base),
		Attempts:   postgres.NewSendingAttemptRepository(base),
		DB:         db,
	}
}

// OpenStorage connects to the configured backend. Postgres schemas are
// migrated when migrate is set.
func OpenStorage(cfg *config.Config, migrate bool) (*Storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return NewMemoryStorage(), nil
	case "postgres", "":
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := postgres.MigrateUp(db); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		return NewPostgresStorage(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewTransport builds the delivery backend named by cfg.Backend.
func NewTransport(cfg config.MailConfig) email.Transport {
	if cfg.Backend == "smtp" {
		return email.NewSMTPTransport(email.SMTPConfig{
			Host:          cfg.Host,
			Port:          cfg.Port,
			Username:      cfg.Username,
			Password:      cfg.Password,
			SkipTLSVerify: cfg.SkipTLSVerify,
		})
	}
	return email.NewConsoleTransport(os.Stdout)
}

// NewBroker connects to Redis, returning nil when no URL is configured.
func NewBroker(cfg config.RedisConfig, log *zerolog.Logger, m *metrics.Metrics) (messaging.Broker, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	return redis.NewRedisBroker(redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.PoolSize,
	}, log, m)
}

// Deps are the collaborators NewServices needs beyond storage.
type Deps struct {
	Transport email.Transport
	// Broker may be nil; status events are then not published.
	Broker  messaging.Broker
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

type Services struct {
	RBAC       *rbac.Service
	Auth       *auth.Service
	User       *user.Service
	Recipient  *recipient.Service
	Message    *message.Service
	Mailing    *mailing.Service
	Attempt    *attempt.Service
	Tracker    *mailing.StatusTracker
	Dispatcher *dispatch.Dispatcher
}

func NewServices(cfg *config.Config, st *Storage, deps Deps) *Services {
	v := validator.New()

	var publisher messaging.Publisher
	if deps.Broker != nil {
		publisher = messaging.NewEventPublisher(deps.Broker, EventsChannel)
	}

	rbacSvc := rbac.NewService(st.RBAC)
	mailer := email.NewMailer(deps.Transport, cfg.Mail.From, cfg.Mail.BaseURL)
	jwtSvc := jwtauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	tracker := mailing.NewStatusTracker(st.Mailings, publisher, deps.Logger)

	return &Services{
		RBAC:      rbacSvc,
		Auth:      auth.NewService(st.Users, rbacSvc, jwtSvc, security.NewBcryptHasher(0), mailer, v),
		User:      user.NewService(st.Users, v),
		Recipient: recipient.NewService(st.Recipients, v),
		Message:   message.NewService(st.Messages, v),
		Mailing:   mailing.NewService(st.Mailings, st.Messages, st.Recipients, st.Attempts, tracker, v),
		Attempt:   attempt.NewService(st.Attempts),
		Tracker:   tracker,
		Dispatcher: dispatch.NewDispatcher(dispatch.Config{
			Mailings:  st.Mailings,
			Messages:  st.Messages,
			Attempts:  st.Attempts,
			Transport: deps.Transport,
			Tracker:   tracker,
			From:      cfg.Mail.From,
			Logger:    deps.Logger,
			Metrics:   deps.Metrics,
		}),
	}
}

// NewRouter mounts every handler. gatherer serves /metrics and m records
// request metrics; both may be nil.
func NewRouter(cfg *config.Config, st *Storage, svcs *Services, gatherer prometheus.Gatherer, m *metrics.Metrics, log zerolog.Logger) *router.Router {
	var db handler.Pinger
	if st.DB != nil {
		db = st.DB
	}

	r := router.NewRouter(
		middleware.NewAuthMiddleware(svcs.Auth),
		router.Handlers{
			Health: handler.NewHandler(db, gatherer),
			Auth:   authHandler.NewHandler(svcs.Auth),
			Protected: []router.Handler{
				userHandler.NewHandler(svcs.User),
				recipientHandler.NewHandler(svcs.Recipient),
				messageHandler.NewHandler(svcs.Message),
				mailingHandler.NewHandler(svcs.Mailing, svcs.Dispatcher),
				attemptHandler.NewHandler(svcs.Attempt),
			},
		},
		router.RouterConfig{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
			CacheEnabled: cfg.Cache.Enabled,
			Cache: middleware.CacheConfig{
				TTL:             cfg.Cache.TTL,
				CleanupInterval: cfg.Cache.CleanupInterval,
			},
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Metrics:        m,
			Logger:         log,
		},
	)
	r.Setup()
	return r
}
