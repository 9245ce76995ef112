package cmd

import (
	"errors"
	"fmt"

	httpapi "fastship/internal/adapters/in/http"
	"fastship/internal/adapters/in/worker"
	"fastship/internal/adapters/out/authz"
	"fastship/internal/adapters/out/kafka"
	"fastship/internal/adapters/out/mail"
	"fastship/internal/adapters/out/postgres"
	"fastship/internal/adapters/out/postgres/outboxrepo"
	"fastship/internal/adapters/out/queue"
	"fastship/internal/adapters/out/redis"
	"fastship/internal/adapters/out/security"
	"fastship/internal/adapters/out/sms"
	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/application/usecases/notifications"
	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/jobs"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot owns the adapters shared by the serve, worker and migrate commands.
// Network clients connect lazily, so building the root never dials anything.
type CompositionRoot struct {
	cfg        Config
	logger     *zap.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	redis     *redis.Client
	tasks     *asynq.Client
	publisher *kafka.Publisher

	hasher   *security.PasswordHasher
	issuer   *security.JWTIssuer
	urlCodec *security.URLTokenCodec
	mailer   ports.Mailer
	sms      ports.SMSSender
}

func NewCompositionRoot(cfg Config, logger *zap.Logger, gormDB *gorm.DB) (*CompositionRoot, error) {
	hasher, err := security.NewPasswordHasher(cfg.Security.PasswordAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	issuer, err := security.NewJWTIssuer(
		cfg.Security.JWTSecret,
		cfg.Security.AccessTokenTTL,
		string(services.RoleSeller),
		string(services.RolePartner),
	)
	if err != nil {
		return nil, fmt.Errorf("access token issuer: %w", err)
	}
	urlCodec, err := security.NewURLTokenCodec(cfg.Security.URLTokenSecret, cfg.Security.URLTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("url token codec: %w", err)
	}
	renderer, err := mail.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("mail templates: %w", err)
	}

	var mailer ports.Mailer = mail.NewSMTPMailer(cfg.MailOptions(), renderer)
	if cfg.Notification.Mail.Host == "" {
		logger.Warn("notification.mail.host is empty, mails are only logged")
		mailer = mail.NewLogMailer(renderer, logger)
	}
	var sender ports.SMSSender = sms.NewTwilioSender(cfg.SMSOptions())
	if cfg.Notification.Twilio.AccountSID == "" {
		logger.Warn("notification.twilio.account_sid is empty, text messages are only logged")
		sender = sms.NewLogSender(logger)
	}

	return &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		redis:      redis.NewClient(cfg.RedisOptions()),
		tasks:      asynq.NewClient(cfg.QueueOptions().RedisOpt()),
		publisher:  kafka.NewPublisher(cfg.KafkaOptions()),
		hasher:     hasher,
		issuer:     issuer,
		urlCodec:   urlCodec,
		mailer:     mailer,
		sms:        sender,
	}, nil
}

// Close releases the network clients.
func (c *CompositionRoot) Close() error {
	return errors.Join(c.tasks.Close(), c.publisher.Close(), c.redis.Close())
}

func (c *CompositionRoot) Logger() *zap.Logger {
	return c.logger
}

func (c *CompositionRoot) Redis() *redis.Client {
	return c.redis
}

func (c *CompositionRoot) accountMailer() commands.AccountMailer {
	return commands.AccountMailer{
		BaseURL: c.cfg.App.BaseURL,
		Tokens:  c.urlCodec,
		Mailer:  c.mailer,
		Logger:  c.logger,
	}
}

func (c *CompositionRoot) notifier() ports.ShipmentNotifier {
	return queue.NewShipmentNotifier(c.tasks, c.logger)
}

func (c *CompositionRoot) verificationCodes() ports.VerificationCodeStore {
	return redis.NewVerificationCodeStore(c.redis, c.cfg.Security.VerificationCodeTTL)
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) accountUoWFactory() commands.AccountUoWFactory {
	return FuncAccountUoWFactory(func() commands.AccountUoW {
		return c.uowFactory.Create()
	})
}

// Authorizer loads the role policies, adding the default ones missing from the table.
func (c *CompositionRoot) Authorizer() (*authz.Enforcer, error) {
	enforcer, err := authz.NewEnforcer(c.gormDB)
	if err != nil {
		return nil, err
	}
	added, err := enforcer.Seed(authz.DefaultPolicies())
	if err != nil {
		return nil, err
	}
	if added > 0 {
		c.logger.Info("seeded role policies", zap.Int("added", added))
	}
	return enforcer, nil
}

// RouteMiddleware builds the authentication, role and request validation chains.
func (c *CompositionRoot) RouteMiddleware() (httpapi.RouteMiddleware, error) {
	enforcer, err := c.Authorizer()
	if err != nil {
		return httpapi.RouteMiddleware{}, fmt.Errorf("role policies: %w", err)
	}
	doc, err := httpapi.Document()
	if err != nil {
		return httpapi.RouteMiddleware{}, fmt.Errorf("openapi document: %w", err)
	}
	validate, err := httpapi.ValidateRequests(doc)
	if err != nil {
		return httpapi.RouteMiddleware{}, fmt.Errorf("request validator: %w", err)
	}

	return httpapi.RouteMiddleware{
		Auth: []echo.MiddlewareFunc{
			httpapi.Authenticate(c.issuer, redis.NewTokenBlacklist(c.redis)),
			httpapi.RequireRole(enforcer),
		},
		Validate: []echo.MiddlewareFunc{validate},
	}, nil
}

func (c *CompositionRoot) Handlers() httpapi.Handlers {
	shipments := c.shipmentUoWFactory()
	accounts := c.accountUoWFactory()
	mailer := c.accountMailer()
	notifier := c.notifier()
	blacklist := redis.NewTokenBlacklist(c.redis)

	return httpapi.Handlers{
		SignUpSeller:         commands.NewSignUpSellerCommandHandler(accounts, c.hasher, mailer),
		SignUpPartner:        commands.NewSignUpPartnerCommandHandler(accounts, c.hasher, mailer),
		LogIn:                commands.NewLogInCommandHandler(accounts, c.hasher, c.issuer),
		LogOut:               commands.NewLogOutCommandHandler(blacklist),
		VerifyEmail:          commands.NewVerifyEmailCommandHandler(accounts, c.urlCodec),
		RequestPasswordReset: commands.NewRequestPasswordResetCommandHandler(accounts, mailer),
		ResetPassword:        commands.NewResetPasswordCommandHandler(accounts, c.urlCodec, c.hasher),
		UpdatePartner:        commands.NewUpdatePartnerCommandHandler(accounts),

		CreateShipment: commands.NewCreateShipmentCommandHandler(
			FuncCreateShipmentUoWFactory(func() commands.CreateShipmentUoW {
				return c.uowFactory.Create()
			}),
			notifier,
		),
		UpdateShipment: commands.NewUpdateShipmentCommandHandler(
			shipments,
			c.verificationCodes(),
			notifier,
			c.logger,
		),
		UpdateShipmentPartial: commands.NewUpdateShipmentPartialCommandHandler(
			shipments,
			c.verificationCodes(),
			notifier,
			c.logger,
		),
		CancelShipment: commands.NewCancelShipmentCommandHandler(shipments, notifier),
		DeleteShipment: commands.NewDeleteShipmentCommandHandler(shipments),
		RateShipment: commands.NewRateShipmentCommandHandler(
			FuncReviewUoWFactory(func() commands.ReviewUoW {
				return c.uowFactory.Create()
			}),
			c.urlCodec,
		),
		AddShipmentTag:    commands.NewAddShipmentTagCommandHandler(c.taggingUoWFactory()),
		RemoveShipmentTag: commands.NewRemoveShipmentTagCommandHandler(c.taggingUoWFactory()),

		GetShipment:   queries.NewGetShipmentQueryHandler(c.gormDB),
		ListShipments: queries.NewListShipmentsQueryHandler(c.gormDB),
		ListPartners:  queries.NewListPartnersQueryHandler(c.gormDB),
	}
}

func (c *CompositionRoot) taggingUoWFactory() commands.TaggingUoWFactory {
	return FuncTaggingUoWFactory(func() commands.TaggingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSeedTagsCommandHandler() commands.SeedTagsCommandHandler {
	var f commands.TagUoWFactory = FuncTagUoWFactory(func() commands.TagUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSeedTagsCommandHandler(f)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	return commands.NewRelayOutboxCommandHandler(outboxrepo.NewGormOutboxRepository(c.gormDB), c.publisher)
}

func (c *CompositionRoot) CreateReconcileCapacityCommandHandler() commands.ReconcileCapacityCommandHandler {
	var f commands.PartnerUoWFactory = FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileCapacityCommandHandler(f)
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRelayOutboxCommandHandler(),
		c.CreateReconcileCapacityCommandHandler(),
		c.cfg.Schedules(),
		c.logger,
	)
}

// Consumer handles the notification tasks in the worker process.
func (c *CompositionRoot) Consumer() *worker.Consumer {
	handler := notifications.NewShipmentNotificationHandler(
		queries.NewGetShipmentQueryHandler(c.gormDB),
		c.verificationCodes(),
		c.mailer,
		c.sms,
		c.urlCodec,
		c.cfg.App.BaseURL,
		nil,
		c.logger,
	)
	return worker.NewConsumer(handler, c.logger)
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncCreateShipmentUoWFactory func() commands.CreateShipmentUoW

func (f FuncCreateShipmentUoWFactory) Create() commands.CreateShipmentUoW {
	return f()
}

type FuncTaggingUoWFactory func() commands.TaggingUoW

func (f FuncTaggingUoWFactory) Create() commands.TaggingUoW {
	return f()
}

type FuncReviewUoWFactory func() commands.ReviewUoW

func (f FuncReviewUoWFactory) Create() commands.ReviewUoW {
	return f()
}

type FuncAccountUoWFactory func() commands.AccountUoW

func (f FuncAccountUoWFactory) Create() commands.AccountUoW {
	return f()
}

type FuncTagUoWFactory func() commands.TagUoW

func (f FuncTagUoWFactory) Create() commands.TagUoW {
	return f()
}

type FuncPartnerUoWFactory func() commands.PartnerUoW

func (f FuncPartnerUoWFactory) Create() commands.PartnerUoW {
	return f()
}
