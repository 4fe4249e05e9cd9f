package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"radio-cms/bootstrap"
	"radio-cms/common"
	"radio-cms/config"
	"radio-cms/database"
	"radio-cms/domain"
	"radio-cms/middleware"
	adAPI "radio-cms/modules/advertising/delivery/api"
	adJob "radio-cms/modules/advertising/job"
	adRepo "radio-cms/modules/advertising/repository"
	adUC "radio-cms/modules/advertising/usecase"
	authAPI "radio-cms/modules/auth/delivery/api"
	authUC "radio-cms/modules/auth/usecase"
	commentAPI "radio-cms/modules/comment/delivery/api"
	commentRepo "radio-cms/modules/comment/repository"
	commentUC "radio-cms/modules/comment/usecase"
	contactAPI "radio-cms/modules/contact/delivery/api"
	contactRepo "radio-cms/modules/contact/repository"
	contactUC "radio-cms/modules/contact/usecase"
	menuAPI "radio-cms/modules/menu/delivery/api"
	menuRepo "radio-cms/modules/menu/repository"
	menuUC "radio-cms/modules/menu/usecase"
	newsAPI "radio-cms/modules/news/delivery/api"
	newsRepo "radio-cms/modules/news/repository"
	newsUC "radio-cms/modules/news/usecase"
	notificationUC "radio-cms/modules/notification/usecase"
	podcastAPI "radio-cms/modules/podcast/delivery/api"
	podcastRepo "radio-cms/modules/podcast/repository"
	podcastUC "radio-cms/modules/podcast/usecase"
	roleAPI "radio-cms/modules/role/delivery/api"
	roleRepo "radio-cms/modules/role/repository"
	roleUC "radio-cms/modules/role/usecase"
	userAPI "radio-cms/modules/user/delivery/api"
	userRepo "radio-cms/modules/user/repository"
	userUC "radio-cms/modules/user/usecase"
	"radio-cms/pkg/async"
	"radio-cms/pkg/cache"
	"radio-cms/pkg/log"
	"radio-cms/pkg/metrics"
	"radio-cms/pkg/realtime"
	"radio-cms/pkg/scheduler"
	"radio-cms/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	envPath := flag.String("env-file", "", "ENV config file path")
	yamlPath := flag.String("config", "./config/config.yml", "YAML config file path")
	flag.Parse()

	if *envPath == "" {
		fmt.Printf("App is starting with config path is '%s' and no load env file\n", *yamlPath)
	} else {
		fmt.Printf("App is starting with config path is '%s' and env path is '%s'...\n", *yamlPath, *envPath)
	}

	cfg, err := config.Load(config.Sources(*yamlPath, *envPath)...)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	if err = config.Validate(cfg); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	var logger log.Logger
	if cfg.App().IsProduction() {
		logger = log.MustNewProductionLogger(cfg.App().Name(), cfg.App().Version(), cfg.Logger())
	} else {
		logger = log.MustNewDevelopmentLogger()
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Printf("Failed to sync logger: %v\n", err)
		}
	}()

	common.SetLogger(common.NewLoggerAdapter(logger))
	log.SetDefaultLogger(logger)
	validator.RegisterValidatorWithGin()

	logger.Info("Application starting",
		log.String("name", cfg.App().Name()),
		log.String("version", cfg.App().Version()),
		log.String("environment", cfg.App().Environment()),
		log.String("config_path", *yamlPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", log.Error(err))
	}
	if cfg.Database().AutoMigrate() {
		if err = database.MigrateDB(db); err != nil {
			logger.Fatal("Failed to migrate database", log.Error(err))
		}
	}
	logger.Info("Database connected")

	cacheClient, err := cache.New(cache.Provider(cfg.Cache().Provider()), &cache.Config{
		Host:       cfg.Redis().Host(),
		Port:       cfg.Redis().Port(),
		Password:   cfg.Redis().Password(),
		DB:         cfg.Redis().DB(),
		DefaultTTL: cfg.Cache().DefaultTTL(),
		MaxSize:    cfg.Cache().MaxSize(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create cache", log.Error(err), log.String("provider", cfg.Cache().Provider()))
	}
	defer cacheClient.Close()

	appMetrics := metrics.New()

	// Realtime fan-out
	hub := realtime.NewHub(realtime.NewRoomRegistry(), realtime.Config{
		SendBuffer:      cfg.Realtime().SendBuffer(),
		WriteTimeout:    cfg.Realtime().WriteTimeout(),
		PongTimeout:     cfg.Realtime().PongTimeout(),
		MaxMessageSize:  cfg.Realtime().MaxMessageSize(),
		AllowedOrigins:  cfg.Server().AllowedOrigins(),
		PrivilegedRooms: []string{domain.RoomAdmin},
		Authorize: func(c *gin.Context) bool {
			return common.GetPrincipalFromCtx(c).HasRank(domain.MinRankAdmin)
		},
	}, logger, appMetrics)
	publisher := notificationUC.NewPublisher(hub, async.NewRunner(logger, cfg.Realtime().PublishTimeout()), logger, appMetrics)
	audit := notificationUC.NewLogAuditSink(logger)
	notifier := common.NewNotifier(publisher, audit, logger)

	queryTimeout := cfg.Database().QueryTimeout()

	// Roles first: every rank check reads the registry.
	registry, err := domain.NewRoleRegistry()
	if err != nil {
		logger.Fatal("Failed to create role registry", log.Error(err))
	}
	roleRepository := roleRepo.NewRoleRepository(db, queryTimeout)
	roleUsecase := roleUC.NewRoleUsecase(roleRepository, registry, notifier, logger)
	if err = roleUsecase.Sync(ctx); err != nil {
		logger.Fatal("Failed to synchronise roles", log.Error(err))
	}

	hasher := common.NewHasher(cfg.App().BcryptCost())
	jwtProvider := common.NewJWTProvider(cfg.App())

	userRepository := userRepo.NewUserRepository(db, queryTimeout)
	userUsecase := userUC.NewUserUsecase(userRepository, registry, hasher, notifier, logger)
	authUsecase := authUC.NewAuthUsecase(userRepository, hasher, jwtProvider, registry, logger)

	menuRepository := menuRepo.NewMenuRepository(db, queryTimeout)
	menuUsecase := menuUC.NewMenuUsecase(menuRepository, cacheClient, notifier, logger,
		menuUC.WithTreeTTL(cfg.Cache().MenuTreeTTL()),
		menuUC.WithMetrics(appMetrics),
	)

	newsRepository := newsRepo.NewNewsRepository(db, queryTimeout)
	newsUsecase := newsUC.NewNewsUsecase(newsRepository, notifier, logger)
	backgroundRunner := async.NewRunner(logger, queryTimeout)
	commentUsecase := commentUC.NewCommentUsecase(commentRepo.NewCommentRepository(db, queryTimeout), newsUsecase, notifier, backgroundRunner, logger)
	podcastUsecase := podcastUC.NewPodcastUsecase(podcastRepo.NewPodcastRepository(db, queryTimeout), notifier, logger)
	adUsecase := adUC.NewAdvertisingUsecase(adRepo.NewAdvertisingRepository(db, queryTimeout), notifier, logger)
	contactUsecase := contactUC.NewContactUsecase(contactRepo.NewContactRepository(db, queryTimeout), notifier, logger)

	if err = seed(ctx, cfg, menuRepository, cacheClient, registry, userUsecase, logger); err != nil {
		logger.Fatal("Failed to seed data", log.Error(err))
	}

	sched := scheduler.New(logger)
	if cfg.Scheduler().Enabled() {
		job := adJob.NewExpiryJob(adUsecase, cacheClient, appMetrics, logger, cfg.Scheduler().JobTimeout())
		if err = sched.Add(adJob.ExpiryJobName, cfg.Scheduler().AdExpiryCron(), job); err != nil {
			logger.Fatal("Failed to schedule job", log.String("job", adJob.ExpiryJobName), log.Error(err))
		}
	}

	middlewares := middleware.NewMiddlewares(middleware.Dependencies{
		Cache:  cacheClient,
		Logger: logger,
		Auth:   authUsecase,
	})

	gin.DisableConsoleColor()
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middlewares.Recovery())
	r.Use(middlewares.RequestIDMiddleware())
	r.Use(middlewares.LoggingMiddleware(middleware.LoggerConfig{
		SkipPaths: []string{"/health", "/metrics"},
	}))
	corsConfig := middleware.DefaultCORSConfig()
	if origins := cfg.Server().AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	}
	r.Use(middlewares.CORS(corsConfig))
	r.Use(appMetrics.Middleware())

	apiGroup := r.Group("/api/v1")
	authAPI.NewAuthHandler(authUsecase, middlewares).RegisterRoutes(apiGroup)
	userAPI.NewUserHandler(userUsecase, middlewares).RegisterRoutes(apiGroup)
	roleAPI.NewRoleHandler(roleUsecase, middlewares).RegisterRoutes(apiGroup)
	menuAPI.NewMenuHandler(menuUsecase, middlewares).RegisterRoutes(apiGroup)
	newsAPI.NewNewsHandler(newsUsecase, middlewares).RegisterRoutes(apiGroup)
	commentAPI.NewCommentHandler(commentUsecase, middlewares).RegisterRoutes(apiGroup)
	podcastAPI.NewPodcastHandler(podcastUsecase, middlewares).RegisterRoutes(apiGroup)
	adAPI.NewAdvertisingHandler(adUsecase, middlewares).RegisterRoutes(apiGroup)
	contactAPI.NewContactHandler(contactUsecase, middlewares).RegisterRoutes(apiGroup)

	r.GET("/ws", middlewares.OptionalAuthenticator(), hub.Handler())
	r.GET("/metrics", gin.WrapH(appMetrics.Handler()))
	r.GET("/health", healthHandler(db, cacheClient, hub))

	srv := &http.Server{
		Addr:           cfg.Server().Address(),
		Handler:        r,
		ReadTimeout:    cfg.Server().ReadTimeout(),
		WriteTimeout:   cfg.Server().WriteTimeout(),
		IdleTimeout:    cfg.Server().IdleTimeout(),
		MaxHeaderBytes: cfg.Server().MaxHeaderBytes(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", log.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if cfg.Scheduler().Enabled() {
		sched.Start()
		logger.Info("Scheduler started", log.Int("jobs", sched.Len()))
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server().ShutdownTimeout())
		defer cancel()

		if err := sched.Stop(shutdownCtx); err != nil {
			logger.Warn("Scheduler did not stop in time", log.Error(err))
		}
		hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", log.Error(err))
		return
	}
	logger.Info("Server exited gracefully")
}

func seed(
	ctx context.Context,
	cfg config.Config,
	menus bootstrap.MenuStore,
	cacheClient cache.Client,
	ranks bootstrap.RankResolver,
	users bootstrap.SuperAdminEnsurer,
	logger log.Logger,
) error {
	set, err := bootstrap.DefaultMenuSeeds()
	if err != nil {
		return err
	}
	created, err := bootstrap.NewMenuSeeder(menus, ranks, logger).Seed(ctx, set)
	if err != nil {
		return err
	}
	// trees cached by a previous deployment predate the seed
	if created > 0 {
		if err := cacheClient.DeletePattern(ctx, menuUC.TreeCachePattern); err != nil {
			logger.Warn("Failed to drop cached menu trees", log.Error(err))
		}
	}
	return bootstrap.SeedSuperAdmin(ctx, users, cfg.Seed(), logger)
}

func healthHandler(db *gorm.DB, cacheClient cache.Client, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok", "cache": "ok"}
		healthy := true

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unavailable"
			healthy = false
		}
		if err := cacheClient.Ping(ctx); err != nil {
			checks["cache"] = "unavailable"
			healthy = false
		}

		status := http.StatusOK
		state := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(status, gin.H{
			"status":    state,
			"checks":    checks,
			"observers": hub.Clients(),
			"timestamp": time.Now().Unix(),
		})
	}
}

