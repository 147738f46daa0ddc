// Package app wires the catalog service together: the MongoDB client, the
// repositories over its collections, the rate limiter backend and the
// optional MongoDB log sink.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close(context.Background())
//	return a.Serve(ctx)
//
// NewInMemory builds the same graph over in-process collections, for tests
// and for commands such as route:list that never touch the database.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/internal/kernel"
	"github.com/shashiranjanraj/catalog/internal/server"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/docstore"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

const rateWindow = time.Minute

// Application is the booted service.
type Application struct {
	Products  *repositories.ProductRepository
	Suppliers *repositories.SupplierRepository
	Limiter   middleware.Limiter

	client  *mongo.Client
	db      *mongo.Database
	redis   *redis.Client
	logSink *logger.MongoHandler
}

// Boot loads config and connects every backing service. Redis is optional:
// when it is not configured or not reachable, rate limiting stays in memory.
func Boot(ctx context.Context) (*Application, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	client, err := database.Connect(ctx)
	if err != nil {
		return nil, err
	}
	db := client.Database(config.MongoDatabase())

	a := &Application{client: client, db: db}
	a.wire(
		docstore.Instrument(docstore.NewMongo(db.Collection(database.ProductsCollection))),
		docstore.Instrument(docstore.NewMongo(db.Collection(database.SuppliersCollection))),
	)

	if config.LogToMongo() {
		col := db.Collection(config.LogMongoCollection())
		if err := logger.EnsureLogIndex(ctx, col); err != nil {
			logger.Warn("log index not created", "error", err)
		}
		a.logSink = logger.NewMongoHandler(col, slog.LevelInfo)
		logger.Use(logger.NewMultiHandler(logger.Base(), a.logSink))
	}

	a.Limiter = a.connectLimiter(ctx)

	logger.Info("application booted",
		"database", config.MongoDatabase(),
		"rate_limiter", a.Limiter.Backend(),
		"auth_required", config.AuthRequired(),
	)
	return a, nil
}

// NewInMemory builds an Application over in-process collections.
func NewInMemory() *Application {
	a := &Application{}
	a.wire(
		docstore.Instrument(docstore.NewMemory(database.ProductsCollection).Unique(database.ProductUniqueFields...)),
		docstore.Instrument(docstore.NewMemory(database.SuppliersCollection)),
	)
	a.Limiter = middleware.NewMemoryLimiter(config.RateLimit(), rateWindow)
	return a
}

func (a *Application) wire(products, suppliers docstore.Collection) {
	a.Suppliers = repositories.NewSupplierRepository(suppliers)
	a.Products = repositories.NewProductRepository(products, a.Suppliers)
}

func (a *Application) connectLimiter(ctx context.Context) middleware.Limiter {
	memory := middleware.NewMemoryLimiter(config.RateLimit(), rateWindow)
	if config.RedisAddr() == "" {
		return memory
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.RedisAddr(),
		Password:     config.RedisPassword(),
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting in memory", "addr", config.RedisAddr(), "error", err)
		_ = rdb.Close()
		return memory
	}

	a.redis = rdb
	return middleware.NewRedisLimiter(rdb, config.RateLimit(), rateWindow)
}

// Ping reports whether the database answers. Always nil in memory.
func (a *Application) Ping(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Ping(ctx, nil)
}

// Kernel builds the HTTP kernel over the application's repositories.
func (a *Application) Kernel() *kernel.HTTPKernel {
	return kernel.NewHTTPKernel(a.Limiter, func(r *router.Router) {
		routes.RegisterAPI(r, routes.Deps{
			Products:     a.Products,
			Suppliers:    a.Suppliers,
			Ping:         a.Ping,
			AuthRequired: config.AuthRequired(),
		})
	})
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	var workers []server.Worker
	if m, ok := a.Limiter.(*middleware.MemoryLimiter); ok {
		workers = append(workers, func(ctx context.Context) { m.Run(ctx, rateWindow) })
	}
	return server.Start(ctx, a.Kernel().Handler(), workers...)
}

// EnsureIndexes creates the product and supplier indexes.
func (a *Application) EnsureIndexes(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return database.EnsureIndexes(ctx, a.db)
}

// Close flushes the log sink and disconnects from Redis and MongoDB.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.logSink != nil {
		logger.Use(logger.Base())
		a.logSink.Close()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.client != nil {
		errs = append(errs, a.client.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
