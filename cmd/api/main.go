package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-service/internal/application/inventory"
	"github.com/jhoicas/inventario-service/internal/domain/repository"
	"github.com/jhoicas/inventario-service/internal/infrastructure/catalog"
	"github.com/jhoicas/inventario-service/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-service/internal/infrastructure/mysql"
	"github.com/jhoicas/inventario-service/internal/infrastructure/notifier"
	"github.com/jhoicas/inventario-service/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-service/internal/interfaces/http"
	"github.com/jhoicas/inventario-service/pkg/config"
	"github.com/jhoicas/inventario-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("notifier", cfg.Notifier.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	txRunner, repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("inicializar almacenamiento")
	}
	defer closeStore()

	sinks, closeSinks, err := buildSinks(cfg.Notifier, log.Named("notifier"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Notifier.Driver).Msg("inicializar notificador")
	}
	defer closeSinks()
	dispatcher := notifier.NewDispatcher(cfg.Notifier.Buffer, log.Named("notifier"), sinks...)

	productClient := catalog.NewClient(catalog.Config{
		BaseURL:     cfg.ProductService.URL,
		APIKey:      cfg.ProductService.APIKey,
		Timeout:     cfg.ProductService.Timeout,
		MaxAttempts: cfg.ProductService.MaxRetries,
		RetryDelay:  cfg.ProductService.RetryDelay,
	}, log.Named("catalog"))

	inventoryUC := inventory.NewUseCase(txRunner, repo, productClient, dispatcher, log.Named("inventory"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Inventory: inventoryUC,
		Auth:      cfg.Auth,
		Log:       log,
	})

	g, gctx := errgroup.WithContext(ctx)

	// El dispatcher se cierra después del apagado HTTP y vacía la cola antes de salir.
	g.Go(func() error {
		return dispatcher.Run(context.Background())
	})

	g.Go(func() error {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			return fmt.Errorf("servidor HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		defer dispatcher.Close()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("apagado del servidor: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("aplicación finalizada con error")
		closeSinks()
		closeStore()
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// openStore abre el almacenamiento según STORE_DRIVER y asegura el esquema.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.TxRunner, repository.InventoryRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return postgres.NewTxRunner(pool), postgres.NewInventoryRepository(pool), pool.Close, nil

	case config.StoreDriverMySQL:
		db, err := mysql.Open(ctx, cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("conexión a MySQL: %w", err)
		}
		if err := mysql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return mysql.NewTxRunner(db), mysql.NewInventoryRepositoryFromDB(db), func() { db.Close() }, nil

	default:
		log.Warn().Msg("STORE_DRIVER=memory: el inventario no sobrevive reinicios")
		repo := memory.NewInventoryRepository()
		return memory.NewTxRunner(repo), repo, func() {}, nil
	}
}

// buildSinks arma los destinos de eventos. El log siempre está activo; NOTIFIER_DRIVER agrega un broker.
func buildSinks(cfg config.NotifierConfig, log *logger.Logger) ([]notifier.Sink, func(), error) {
	sinks := []notifier.Sink{notifier.NewLogSink(log)}

	switch cfg.Driver {
	case config.NotifierDriverAMQP:
		conn, ch, err := notifier.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ch.Close()
			conn.Close()
		}
		return append(sinks, notifier.NewAMQPSink(ch, cfg.AMQPExchange)), closeFn, nil

	case config.NotifierDriverKafka:
		w := notifier.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		closeFn := func() {
			if err := w.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar writer de Kafka")
			}
		}
		return append(sinks, notifier.NewKafkaSink(w)), closeFn, nil

	case config.NotifierDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("conexión a Redis: %w", err)
		}
		return append(sinks, notifier.NewRedisSink(client, cfg.RedisChannel)), func() { client.Close() }, nil

	default:
		return sinks, func() {}, nil
	}
}
