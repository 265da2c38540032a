// README: Entry point; loads config, wires module services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"navette/internal/config"
	httptransport "navette/internal/http"
	"navette/internal/infra"
	"navette/internal/logger"
	"navette/internal/maps"
	"navette/internal/modules/assignment"
	"navette/internal/modules/availability"
	"navette/internal/modules/driver"
	"navette/internal/modules/mission"
	"navette/internal/modules/tracking"
	"navette/internal/modules/transport"
	"navette/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer func() { _ = redisClient.Close() }()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.NSQ.Addr != "" {
		producer, err := infra.NewNSQProducer(cfg.NSQ.Addr)
		if err != nil {
			zlog.Fatal("nsq init", zap.Error(err))
		}
		defer producer.Stop()
		notifier = notify.NewNSQNotifier(producer, zlog)
	}

	var geocoder transport.Geocoder
	if cfg.Maps.APIKey != "" {
		g, err := maps.NewGeocoder(cfg.Maps.APIKey)
		if err != nil {
			zlog.Fatal("maps init", zap.Error(err))
		}
		geocoder = g
	}

	driverStore := driver.NewStore(dbPool)
	driverSvc := driver.NewService(driverStore)

	availabilityStore := availability.NewStore(dbPool)
	availabilitySvc := availability.NewService(availabilityStore)

	transportStore := transport.NewStore(dbPool)
	transportSvc := transport.NewService(transportStore, geocoder, zlog)

	missionStore := mission.NewStore(dbPool)
	missionSvc := mission.NewService(missionStore, notifier, zlog)

	engine := assignment.NewEngine(
		transportStore, driverStore, availabilitySvc, missionStore, missionStore,
		notifier, cfg.Assignment, zlog,
	)

	trackingStore := tracking.NewStore(dbPool, redisClient,
		time.Duration(cfg.Tracking.FreshnessMinutes)*time.Minute)
	trackingSvc := tracking.NewService(trackingStore, missionSvc, transportSvc, cfg.Tracking, zlog)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Transport:    transportSvc,
		Drivers:      driverSvc,
		Availability: availabilitySvc,
		Assignment:   engine,
		Missions:     missionSvc,
		Tracking:     trackingSvc,
		JWTSecret:    cfg.JWT.Secret,
		Log:          zlog,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal("server", zap.Error(err))
	}
}
