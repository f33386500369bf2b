package app

import (
	"context"
	"time"

	"jobhub/internal/config"
	"jobhub/internal/database"
	dbpostgres "jobhub/internal/database/postgres"
	"jobhub/internal/infrastructure/cache"
	"jobhub/internal/infrastructure/mail"
	"jobhub/internal/infrastructure/storage"
	"jobhub/internal/notification"
	"jobhub/internal/pkg/jwt"
	"jobhub/internal/pkg/logger"
	"jobhub/internal/repository"
	"jobhub/internal/usecase"
	"jobhub/internal/ws"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Container owns the long-lived dependencies shared by the HTTP and
// websocket servers.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	JWT    *jwt.HMACService

	Users        *repository.PostgresUserRepository
	Skills       *repository.PostgresSkillRepository
	Profiles     *repository.PostgresProfileRepository
	Companies    *repository.PostgresCompanyRepository
	Jobs         *repository.PostgresJobRepository
	Applications *repository.PostgresApplicationRepository
	Interviews   *repository.PostgresInterviewRepository

	Storage  usecase.ObjectStorage
	Notifier *notification.Dispatcher
	Events   *ws.Notifier
}

func NewContainer(ctx context.Context, cfg config.Config, l *zap.Logger) (*Container, error) {
	l = logger.OrNop(l)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, l)
	if err != nil {
		return nil, err
	}

	mailer, err := mail.New(ctx, cfg.Mail, l)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init mailer")
	}

	var store usecase.ObjectStorage
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3(ctx, cfg.Storage)
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "init object storage")
		}
		store = s3
	} else {
		l.Info("object storage not configured, document uploads disabled")
	}

	hub := ws.NewHub(l)

	return &Container{
		Config: cfg,
		Logger: l,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, l),
		Hub:    hub,
		JWT: jwt.NewHMACService(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),

		Users:        repository.NewPostgresUserRepository(db),
		Skills:       repository.NewPostgresSkillRepository(db),
		Profiles:     repository.NewPostgresProfileRepository(db),
		Companies:    repository.NewPostgresCompanyRepository(db),
		Jobs:         repository.NewPostgresJobRepository(db),
		Applications: repository.NewPostgresApplicationRepository(db),
		Interviews:   repository.NewPostgresInterviewRepository(db),

		Storage:  store,
		Notifier: notification.NewDispatcher(mailer, cfg.App.PublicURL, l),
		Events:   ws.NewNotifier(hub),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs error
	if c.Cache != nil {
		errs = errors.CombineErrors(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = errors.CombineErrors(errs, c.DB.Close())
	}
	return errs
}
