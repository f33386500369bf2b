package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jobhub/internal/config"
	"jobhub/internal/delivery/http/handler"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/delivery/http/routes"
	v1 "jobhub/internal/delivery/http/routes/v1"
	"jobhub/internal/infrastructure/ratelimit"
	"jobhub/internal/notification"
	"jobhub/internal/usecase"
	"jobhub/internal/ws"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// multipartOverhead is added to the upload limit for form boundaries and headers.
const multipartOverhead = 1 << 20

type App struct {
	Fiber *fiber.App
	WS    *http.Server
	Hub   *ws.Hub

	container *Container
}

func New(c *Container) *App {
	cfg := c.Config

	errMw := middleware.NewErrorMiddleware(c.Logger)
	f := fiber.New(fiber.Config{
		AppName:      cfg.App.AppName,
		ErrorHandler: errMw.Handle,
		BodyLimit:    int(cfg.Storage.MaxUploadSize) + multipartOverhead,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	registerGlobalMiddleware(f, c.Logger, errMw)
	routes.NewRegistry(handler.NewHealthHandler(c.DB), handlers(c)).Register(f)

	out := &App{Fiber: f, Hub: c.Hub, container: c}
	if strings.TrimSpace(cfg.App.WSPort) != "" {
		addr, err := ListenAddr(cfg.App.WSPort)
		if err == nil {
			out.WS = &http.Server{
				Addr:              addr,
				Handler:           ws.NewServeMux(ws.NewHandler(c.Hub, c.JWT, c.Logger)),
				ReadHeaderTimeout: 10 * time.Second,
			}
		}
	}
	return out
}

// Bootstrap builds the container and both servers. The cleanup func closes
// the container and must run after the servers have shut down.
func Bootstrap(ctx context.Context, cfg config.Config, l *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func handlers(c *Container) v1.Handlers {
	cfg := c.Config
	l := c.Logger

	authUC := usecase.NewAuthUsecase(c.Users, c.JWT)
	accountUC := usecase.NewAccountUsecase(c.Users)
	skillUC := usecase.NewSkillUsecase(c.Skills)
	profileUC := usecase.NewProfileUsecase(c.Profiles, c.Storage, cfg.Storage.MaxUploadSize, l)
	companyUC := usecase.NewCompanyUsecase(c.Companies, c.Cache, l)
	jobUC := usecase.NewJobUsecase(c.Jobs, c.Companies, c.Cache, l)
	appUC := usecase.NewApplicationUsecase(c.Applications, c.Jobs, c.Profiles, c.Notifier, c.Events, l)
	interviewUC := usecase.NewInterviewUsecase(c.Interviews, c.Applications, c.Jobs, c.Notifier, c.Events, l).
		WithMailPool(notification.NewPool(c.Config.Mail.Workers, c.Config.Mail.PerSecond))

	redisClient := c.Cache.Client()

	return v1.Handlers{
		Auth:        handler.NewAuthHandler(authUC, accountUC),
		Skill:       handler.NewSkillHandler(skillUC),
		Profile:     handler.NewProfileHandler(profileUC),
		Company:     handler.NewCompanyHandler(companyUC),
		Job:         handler.NewJobHandler(jobUC),
		Application: handler.NewApplicationHandler(appUC),
		Interview:   handler.NewInterviewHandler(interviewUC),

		RequireAuth: middleware.NewAuthMiddleware(c.JWT).Middleware(),

		ApplyLimiter:   ratelimit.New(redisClient, cfg.RateLimit.ApplyPerMinute, time.Minute, "ratelimit:apply", l),
		RespondLimiter: ratelimit.New(redisClient, cfg.RateLimit.RespondPerMinute, time.Minute, "ratelimit:respond", l),
	}
}

func registerGlobalMiddleware(app *fiber.App, l *zap.Logger, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(l).Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", errors.New("empty port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
