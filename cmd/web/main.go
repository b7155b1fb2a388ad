package main

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"workbuddy-store/pkg/common/config"
	"workbuddy-store/pkg/common/i18n"
	"workbuddy-store/pkg/core/catalog"
	"workbuddy-store/pkg/core/registration"
	"workbuddy-store/pkg/core/user/model"
	dao "workbuddy-store/pkg/core/user/repository/dao/impl"
	"workbuddy-store/pkg/core/user/service"
	"workbuddy-store/pkg/core/verification"
	"workbuddy-store/pkg/web/handler"
	"workbuddy-store/pkg/web/router"
	"workbuddy-store/pkg/web/session"
)

func main() {
	cfg := config.Load()
	hlog.SetLevel(cfg.HlogLevel())
	printer := i18n.NewPrinter(cfg.Locale)

	db, err := cfg.InitDB()
	if err != nil {
		hlog.Fatalf("Failed to initialize database: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		hlog.Fatalf("Failed to migrate database: %v", err)
	}
	repo := dao.NewGormUserRepository(db)

	checks := []handler.ComponentCheck{{Name: "database", IsCore: true, Ping: repo.Ping}}

	var codes verification.CodeStore = verification.NewMemoryStore(cfg.Verification.MaxAttempts)
	if cfg.Redis.Enabled {
		rdb := cfg.InitRedis()
		defer rdb.Close()
		codes = verification.NewRedisStore(rdb, cfg.Verification.MaxAttempts)
		checks = append(checks, handler.ComponentCheck{
			Name:   "redis",
			IsCore: true,
			Ping:   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	} else {
		hlog.Warnf("redis disabled, verification codes are kept in memory")
	}

	var notifier verification.Notifier = verification.LogNotifier{}
	if cfg.Kafka.Enabled {
		w := verification.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer w.Close()
		notifier = verification.NewKafkaNotifier(w, cfg.Kafka.WriteTimeout)
	}

	users := service.NewUserService(repo, codes, notifier,
		service.WithCodeTTL(cfg.Verification.CodeTTL),
	)

	var source catalog.Source
	if cfg.Catalog.UpstreamURL != "" {
		httpSource, err := catalog.NewHTTPSource(cfg.Catalog.UpstreamURL, cfg.Catalog.Timeout)
		if err != nil {
			hlog.Fatalf("Failed to create catalog client: %v", err)
		}
		source = httpSource
	}

	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.Middleware.Security.MaxBodySize)),
	)

	router.RegisterAPIs(h, cfg, router.Dependencies{
		Users:        users,
		Sessions:     session.NewStore(users, cfg.Session.TTL, registration.WithPrinter(printer)),
		Catalog:      catalog.NewService(source, printer),
		HealthChecks: checks,
	})

	h.Spin()
}
