package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salescheck/config"
	"salescheck/constants"
	"salescheck/controllers"
	"salescheck/i18n"
	"salescheck/jobs"
	"salescheck/routes"
	"salescheck/services"
	"salescheck/services/logger"
	"salescheck/services/notification"
	"salescheck/store"
	"salescheck/validator"

	"github.com/redis/go-redis/v9"
)

// stores gom các store theo STORE_DRIVER đã chọn
type stores struct {
	records store.RecordStore
	users   store.UserStore
	health  map[string]routes.HealthCheck
	close   func(ctx context.Context)
}

func openStores(cfg *config.Config, log logger.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case constants.StoreDriverMongo:
		m, err := store.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		records, err := store.NewMongoStore(ctx, m)
		if err != nil {
			return nil, err
		}
		users, err := store.NewMongoUserStore(ctx, m)
		if err != nil {
			return nil, err
		}
		return &stores{
			records: records,
			users:   users,
			health:  map[string]routes.HealthCheck{"mongodb": m.Ping},
			close: func(ctx context.Context) {
				if err := m.Close(ctx); err != nil {
					log.Error("close mongodb: %v", err)
				}
			},
		}, nil

	case constants.StoreDriverMemory:
		log.Warn("STORE_DRIVER=memory, data is lost on restart")
		return &stores{
			records: store.NewMemoryStore(),
			users:   store.NewMemoryUserStore(),
			health:  map[string]routes.HealthCheck{},
			close:   func(context.Context) {},
		}, nil

	default:
		db, err := config.ConnectDB(cfg)
		if err != nil {
			return nil, err
		}
		records := store.NewGormStore(db)
		users := store.NewGormUserStore(db)
		if err := users.AutoMigrate(); err != nil {
			return nil, err
		}
		if err := records.AutoMigrate(); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &stores{
			records: records,
			users:   users,
			health:  map[string]routes.HealthCheck{"postgres": sqlDB.PingContext},
			close: func(context.Context) {
				if err := sqlDB.Close(); err != nil {
					log.Error("close postgres: %v", err)
				}
			},
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appLogger := logger.NewDefaultLogger(logger.ParseLevel(cfg.LogLevel))

	i18n.Init(cfg.DefaultLocale)
	if err := validator.RegisterBindings(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	router, m, c := config.InitApp(cfg)

	st, err := openStores(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}

	rdb, err := config.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	if rdb != nil {
		st.health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	cld, err := config.ConnectCloudinary(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("Failed to connect cloudinary: %v", err)
	}

	var lock services.SessionLock = services.NewLocalSessionLock()
	if rdb != nil {
		lock = services.NewRedisSessionLock(rdb, constants.CheckInLockKeyPrefix, constants.CheckInLockTTL)
	}

	geocoder := services.NewGeocoder(services.GeocoderOptions{
		Provider: cfg.GeocoderProvider,
		BaseURL:  cfg.GeocoderURL,
		APIKey:   cfg.GoongAPIKey,
		Timeout:  cfg.GeocoderTimeout,
		Redis:    rdb,
		Logger:   appLogger.With("geocoder"),
	})

	reports := services.NewReportService(services.ReportOptions{
		Store:    st.records,
		Redis:    rdb,
		Location: cfg.Timezone,
		Logger:   appLogger.With("report"),
	})

	notify := notification.NewMelodyService(m)
	notifier := services.NewNotifier(notify, reports, appLogger.With("notify"))

	var mailer services.Mailer = services.LogMailer{Logger: appLogger.With("mail")}
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(services.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	var avatars services.AvatarUploader
	if cld != nil {
		avatars = services.NewCloudinaryUploader(cld)
	}

	idp := services.NewLocalIdentityProvider(services.AuthOptions{
		Users:          st.users,
		Tokens:         services.NewTokenManager(cfg.AccessTokenSecret, cfg.AccessTokenMinutes),
		Redis:          rdb,
		Mailer:         mailer,
		Avatars:        avatars,
		GoogleClientID: cfg.GoogleClientID,
		AdminEmails:    cfg.AdminEmails,
		Logger:         appLogger.With("auth"),
	})
	unsubscribe := idp.Subscribe(notifier.OnSessionEvent)
	defer unsubscribe()

	auditor := &jobs.OpenSessionAuditor{
		Store:  st.records,
		Notify: notify,
		Logger: appLogger.With("cron"),
	}
	if err := jobs.InitCronJobs(c, auditor); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	routes.SetupRoutes(router, routes.Dependencies{
		Identity: idp,
		CheckIn: controllers.NewCheckInController(controllers.CheckInControllerOptions{
			Store:    st.records,
			Geocoder: geocoder,
			Lock:     lock,
			Matcher:  services.NewLocationMatcher(constants.Locations),
			Notifier: notifier,
			Policy: services.GeolocationPolicy{
				Timeout: cfg.GeolocationTimeout,
				MaxAge:  cfg.GeolocationMaxAge,
			},
			FormResetDelay: cfg.FormResetDelay,
			Logger:         appLogger.With("checkin"),
		}),
		History:      controllers.NewHistoryController(reports),
		Auth:         controllers.NewAuthController(idp),
		Melody:       m,
		HealthChecks: st.health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("Server starting on port " + cfg.Port + "...")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-c.Stop().Done()
	if err := m.Close(); err != nil {
		appLogger.Warn("close websocket hub: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("server shutdown: %v", err)
	}
	closeRedis(rdb, appLogger)
	st.close(ctx)
}

func closeRedis(rdb *redis.Client, log logger.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		log.Error("close redis: %v", err)
	}
}
