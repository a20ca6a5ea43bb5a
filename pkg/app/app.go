// Package app wires configuration, storage, services, background jobs and
// the middleware chain into a runnable server.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/pdfvault/pkg/api"
	"github.com/yeisme/pdfvault/pkg/configs"
	"github.com/yeisme/pdfvault/pkg/internal/abuse"
	"github.com/yeisme/pdfvault/pkg/internal/handle"
	"github.com/yeisme/pdfvault/pkg/internal/jobs"
	"github.com/yeisme/pdfvault/pkg/internal/service"
	"github.com/yeisme/pdfvault/pkg/internal/storage"
	"github.com/yeisme/pdfvault/pkg/internal/transform"
	"github.com/yeisme/pdfvault/pkg/log"
	"github.com/yeisme/pdfvault/pkg/metrics"
	"github.com/yeisme/pdfvault/pkg/middleware"
	"github.com/yeisme/pdfvault/pkg/scheduler"
	"github.com/yeisme/pdfvault/pkg/token"
)

// App is the assembled server.
type App struct {
	Engine *gin.Engine
	config *configs.AppConfig
	sched  *scheduler.Scheduler
}

// NewApp builds the full application from the config at configPath.
// Initialization failures are fatal; a half-wired server must not start.
func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	log.Init()

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	blobs, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	vault := service.NewVault(blobs, config.Storage.GetRetention())
	transforms := service.NewTransformService(vault, transform.NewPDFCPUEngine())
	issuer := token.NewIssuer(config.Token.Secret)

	tracker := abuse.NewTracker(config.Abuse.FailureThreshold,
		config.Abuse.GetBlockDuration(), config.Abuse.GetIdleTimeout())
	limiter := abuse.NewWindowLimiter()

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterJobs(sched, vault, tracker, limiter); err != nil {
		fmt.Printf("Error registering jobs: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.CORSMiddleware(config.Server),
		middleware.GinLoggerMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.AbuseGuard(tracker),
		middleware.RateLimitMiddleware(config.RateLimit),
	)

	h := handle.New(vault, transforms, issuer, sched)
	api.RegisterGroup(engine, h, limiter, issuer)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine: engine,
		config: config,
		sched:  sched,
	}
}

// Run starts the background jobs and serves until the listener fails.
func (a *App) Run() error {
	a.sched.Start()
	defer func() { _ = a.sched.Stop() }()

	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}
