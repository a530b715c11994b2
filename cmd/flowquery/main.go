package main

import (
	"context"
	"database/sql"

	config "github.com/davicafu/flowquery/internal/config"
	incidentApp "github.com/davicafu/flowquery/internal/incident/application"
	incidentDomain "github.com/davicafu/flowquery/internal/incident/domain"
	incidentEvents "github.com/davicafu/flowquery/internal/incident/infra/inbound/events"
	incidentHttp "github.com/davicafu/flowquery/internal/incident/infra/inbound/http"
	incidentClickhouse "github.com/davicafu/flowquery/internal/incident/infra/outbound/analytics/clickhouse"
	incidentCache "github.com/davicafu/flowquery/internal/incident/infra/outbound/cache"
	incidentPostgres "github.com/davicafu/flowquery/internal/incident/infra/outbound/db/postgre"
	incidentSqlite "github.com/davicafu/flowquery/internal/incident/infra/outbound/db/sqlite"
	instanceApp "github.com/davicafu/flowquery/internal/instance/application"
	instanceDomain "github.com/davicafu/flowquery/internal/instance/domain"
	instanceEvents "github.com/davicafu/flowquery/internal/instance/infra/inbound/events"
	instanceHttp "github.com/davicafu/flowquery/internal/instance/infra/inbound/http"
	instanceMongo "github.com/davicafu/flowquery/internal/instance/infra/outbound/db/mongodb"
	instanceSqlite "github.com/davicafu/flowquery/internal/instance/infra/outbound/db/sqlite"
	infraEvents "github.com/davicafu/flowquery/internal/shared/infra/events"
	"github.com/davicafu/flowquery/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	logger.Init()          // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	ctx := context.Background()
	cfg := config.LoadConfig()

	// SQLite es el backend por defecto de ambos módulos; se abre una sola vez.
	var sqliteDB *sql.DB
	openSQLite := func() *sql.DB {
		if sqliteDB != nil {
			return sqliteDB
		}
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping SQLite", zap.Error(err))
		}
		sqliteDB = db
		return db
	}

	// ------------- Incidencias -------------
	var incidentEngine incidentDomain.IncidentEngine
	var incidentStore incidentDomain.IncidentStore

	switch cfg.IncidentBackend {
	case "postgres":
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		defer db.Close()
		if err := incidentPostgres.InitPostgres(db); err != nil {
			log.Fatal("failed to initialize Postgres", zap.Error(err))
		}
		engine := incidentPostgres.NewIncidentEngine(db)
		incidentEngine, incidentStore = engine, engine

	case "clickhouse":
		engine, err := incidentClickhouse.NewIncidentEngine(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Fatal("failed to connect to ClickHouse", zap.Error(err))
		}
		if err := engine.InitSchema(); err != nil {
			log.Fatal("failed to initialize ClickHouse schema", zap.Error(err))
		}
		incidentEngine, incidentStore = engine, engine

	default:
		db := openSQLite()
		if err := incidentSqlite.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize SQLite", zap.Error(err))
		}
		engine := incidentSqlite.NewIncidentEngine(db)
		incidentEngine, incidentStore = engine, engine
	}
	log.Info("Incident backend ready", zap.String("backend", cfg.IncidentBackend))

	// ------------- Instancias --------------
	var instanceEngine instanceDomain.InstanceEngine
	var instanceStore instanceDomain.InstanceStore

	switch cfg.InstanceBackend {
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to mongoDB", zap.Error(err))
		}
		defer client.Disconnect(ctx)
		engine, err := instanceMongo.NewInstanceEngine(ctx, client, cfg.MongoDB)
		if err != nil {
			log.Fatal("failed to initialize mongoDB", zap.Error(err))
		}
		instanceEngine, instanceStore = engine, engine

	default:
		db := openSQLite()
		if err := instanceSqlite.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize SQLite", zap.Error(err))
		}
		engine := instanceSqlite.NewInstanceEngine(db)
		instanceEngine, instanceStore = engine, engine
	}
	if sqliteDB != nil {
		defer sqliteDB.Close()
	}
	log.Info("Instance backend ready", zap.String("backend", cfg.InstanceBackend))

	// ---------------- Cache ----------------
	var countCache incidentDomain.QueryCache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria:", zap.Error(err))
		countCache = incidentCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		countCache = incidentCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache de counts habilitado")
	}

	// --------------- Servicio --------------
	incidentService := incidentApp.NewIncidentService(incidentEngine, incidentStore, countCache, log)
	instanceService := instanceApp.NewInstanceService(instanceEngine, instanceStore, log)

	// ---------------- Events ---------------
	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka para la ingesta de eventos del motor")

		incidentConsumer := incidentEvents.NewIncidentConsumer(incidentService, log)
		instanceConsumer := instanceEvents.NewInstanceConsumer(instanceService, log)

		incidentReader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopicIncident,
			GroupID:  cfg.KafkaGroupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		instanceReader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopicInstance,
			GroupID:  cfg.KafkaGroupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})

		incidentAdapter := infraEvents.NewConsumerAdapter(incidentReader, incidentConsumer, log)
		instanceAdapter := infraEvents.NewConsumerAdapter(instanceReader, instanceConsumer, log)
		defer incidentAdapter.Close()
		defer instanceAdapter.Close()

		incidentAdapter.Start(ctx)
		instanceAdapter.Start(ctx)
	} else {
		log.Info("⚡️ Ingesta por eventos deshabilitada, servicio de solo lectura")
	}

	// ---------------- HTTP ----------------
	incidentHandler := incidentHttp.NewIncidentHandler(incidentService)
	instanceHandler := instanceHttp.NewInstanceHandler(instanceService)
	router := gin.Default()
	incidentHttp.RegisterIncidentRoutes(router, incidentHandler)
	instanceHttp.RegisterInstanceRoutes(router, instanceHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
