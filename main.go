package main

import (
	"autobay/common"
	"autobay/config"
	"autobay/domain/catalog"
	"autobay/domain/shop"
	"autobay/domain/shop/shoprest"
	"autobay/domain/workorder"
	"autobay/domain/workorder/workorderrest"
	"autobay/event"
	"autobay/infra/metrics"
	"autobay/infra/tracing"
	"autobay/monitor"
	"autobay/persistence"
	"autobay/servehttp"
	"context"

	"github.com/sirupsen/logrus"
)

func main() {
	shopConfig, err := config.ParseShopConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse shop config failed: %v", err)
	}
	common.ConfigureLogging(shopConfig.LogLevel, shopConfig.LogFormat)
	logrus.Info("service start")

	fixtures := shop.DefaultFixtures()
	if shopConfig.FixturesPath != "" {
		if fixtures, err = shop.LoadFixtures(shopConfig.FixturesPath); err != nil {
			logrus.Fatalf("load fixtures failed: %v", err)
		}
	}
	taskCatalog := catalog.NewDefaultCatalog()
	for _, entry := range fixtures.Tasks {
		taskCatalog.Put(entry)
	}
	repo := shop.NewRepository(fixtures)

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed: %v", err)
	}
	if dbConfig.Enabled() {
		// create database (no conflict)
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database: %v", err)
		}
		ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
		if err := ds.Start(); err != nil {
			logrus.Fatalf("database connection failed: %v", err)
		}
		defer ds.Stop()

		// database migration (race condition)
		if err := ds.GormDB(context.Background()).AutoMigrate(&event.EventRecord{}, &workorder.ReceiptRecord{}).Error; err != nil {
			logrus.Fatalf("database migration failed: %v", err)
		}
		persistence.ActiveDataSourceManager = ds
	} else {
		logrus.Info("no database configured, receipts and events stay in memory")
	}

	shopMetrics := metrics.New(metrics.DefaultConfig(common.ServiceName))
	closer, err := tracing.InitGlobalTracer(common.ServiceName, shopMetrics.Registry())
	if err != nil {
		logrus.Fatalf("init tracer failed: %v", err)
	}
	defer closer.Close()

	event.RegisterHandler(event.LoggingHandler)

	manager := workorder.NewManager(repo, taskCatalog, workorder.Settings{
		ServiceIDPrefix: shopConfig.ServiceIDPrefix,
		ShopCapacity:    shopConfig.ShopCapacity,
		HourlyRate:      shopConfig.HourlyRate,
		Hours:           shopConfig.BusinessHours(),
		Metrics:         shopMetrics,
	})

	stockMonitor := monitor.NewStockMonitor(repo, shopMetrics)
	crontab, err := stockMonitor.StartCron(shopConfig.StockMonitorSpec)
	if err != nil {
		logrus.Fatalf("start stock monitor failed: %v", err)
	}
	if crontab != nil {
		defer crontab.Stop()
	}
	stockMonitor.Inspect()

	engine := servehttp.NewEngine(shopMetrics)
	workorderrest.RegisterWorkOrdersRestAPI(engine, manager,
		servehttp.RateLimit(servehttp.NewIntakeLimiter(shopConfig.IntakeRateLimit, shopConfig.IntakeRateBurst)),
		servehttp.Idempotent(servehttp.NewIdempotencyCache(shopConfig.IdempotencyTTL)))
	shoprest.RegisterShopRestAPI(engine, repo, taskCatalog)

	servehttp.StartHTTPServer(shopConfig.HTTPAddr, engine)
	logrus.Info("service exiting")
}
