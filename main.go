package main

import (
	"context"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jeswinjohn/ledgerd/api"
	"github.com/jeswinjohn/ledgerd/internal/analytics"
	"github.com/jeswinjohn/ledgerd/internal/cache"
	"github.com/jeswinjohn/ledgerd/internal/config"
	"github.com/jeswinjohn/ledgerd/internal/logging"
	"github.com/jeswinjohn/ledgerd/internal/notify"
	"github.com/jeswinjohn/ledgerd/internal/operator"
	"github.com/jeswinjohn/ledgerd/internal/remote"
	"github.com/jeswinjohn/ledgerd/internal/service"
	"github.com/jeswinjohn/ledgerd/internal/signal"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("ledgerd starting")

	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	location, err := envConfig.Location()
	if err != nil {
		logrus.WithError(err).Fatal("config.Location")
		return
	}
	annualRate, err := envConfig.AnnualRate()
	if err != nil {
		logrus.WithError(err).Fatal("config.AnnualRate")
		return
	}
	autoRatio, err := envConfig.AutoRatio()
	if err != nil {
		logrus.WithError(err).Fatal("config.AutoRatio")
		return
	}

	snapshots, err := cache.NewSnapshots(envConfig.CacheDir)
	if err != nil {
		logrus.WithError(err).Fatal("cache.NewSnapshots")
		return
	}

	remoteClient := remote.NewClient(envConfig.RemoteAPIURL, logger)
	store := syncstore.NewStore(remoteClient, snapshots, logger)

	notifier := notify.NewNotifier(logger)
	go func() {
		for event := range notifier.Events() {
			logger.WithFields(logrus.Fields{
				"severity": string(event.Severity),
				"message":  event.Message,
			}).Info("Notifier.event")
		}
	}()

	delegator := operator.NewOperatorDelegator(store, logger, 1)
	delegator.Start()

	svc := service.NewService(store, delegator, snapshots, notifier, logger, service.Settings{
		Location:   location,
		AnnualRate: annualRate,
		AutoRatio:  autoRatio,
		Thresholds: analytics.DefaultThresholds(),
	})

	// Warm the cache before serving so the first dashboard request is not
	// the one paying for a cold remote round trip.
	store.RefetchAll(context.Background())

	listener := signal.NewListener(envConfig.RemoteSignalURL, logger, func(ctx context.Context) {
		store.RefetchAll(ctx)
	})
	go listener.Run(context.Background())

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.ListenPort,
			Service: svc,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
