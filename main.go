package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	aqm "github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/restoqr/restoqr/internal/dispatch"
	"github.com/restoqr/restoqr/internal/mongo"
	"github.com/restoqr/restoqr/internal/order"
	"github.com/restoqr/restoqr/internal/waiter"
	"github.com/restoqr/restoqr/pkg"
)

const (
	appNamespace = "FLOOR"
	appName      = "floor"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	orderRepo := mongo.NewOrderRepo(db)
	orderItemRepo := mongo.NewOrderItemRepo(db)
	waiterCallRepo := mongo.NewWaiterCallRepo(db)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	store := order.NewStore(orderRepo, orderItemRepo, pub, logger)

	printURL := config.GetStringOrDef("services.print.url", "")
	if printURL == "" {
		log.Fatalf("%s(%s) cannot create print service client: services.print.url is required", appName, appVersion)
	}
	printClient := aqm.NewServiceClient(printURL)
	cloud := dispatch.NewCloudDispatcher(printClient, logger)

	bridgeURL := config.GetStringOrDef("bridge.url", "http://localhost:3005")
	bridgeTimeout := parseDurationOrDef(config.GetStringOrDef("bridge.timeout", ""), dispatch.DefaultBridgeTimeout)
	bridge := dispatch.NewBridgeClient(bridgeURL, bridgeTimeout, logger)

	coordinator := dispatch.NewCoordinator(cloud, bridge, pub, logger)
	printSub := dispatch.NewOrderStatusSubscriber(sub, store, coordinator, logger)

	waiterService := waiter.NewService(waiterCallRepo, pub, logger)
	readySub := waiter.NewOrderReadySubscriber(sub, waiterService, logger)

	sweepInterval := parseDurationOrDef(config.GetStringOrDef("waiter.sweep.interval", ""), waiter.DefaultSweepInterval)
	sweepRetention := parseDurationOrDef(config.GetStringOrDef("waiter.sweep.retention", ""), waiter.DefaultSweepRetention)
	sweeper := waiter.NewSweeper(waiterService, sweepInterval, sweepRetention, logger)

	publisherLifecycle := aqm.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := aqm.LifecycleHooks{
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	orderHandler := order.NewHandler(store, config, logger)
	dispatchHandler := dispatch.NewHandler(store, coordinator, logger)
	waiterHandler := waiter.NewHandler(waiterService, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})
	stack = append(stack, middleware.InternalOnly())

	lifecycles := []interface{}{
		aqm.LifecycleHooks{OnStop: baseRepo.Stop},
		printSub,
		readySub,
		sweeper,
		publisherLifecycle,
		subLifecycle,
	}

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", orderHandler, dispatchHandler, waiterHandler),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func parseDurationOrDef(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
