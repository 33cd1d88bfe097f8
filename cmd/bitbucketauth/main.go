package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"bitbucketauth/cfg"
	"bitbucketauth/pkg/bitbucket"
	"bitbucketauth/pkg/cache"
	"bitbucketauth/pkg/idgen"
	"bitbucketauth/pkg/logger"
	"bitbucketauth/pkg/oauth2"
)

func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	ids, err := idgen.NewSnowflakeGenerator(config.NodeID)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// Otel
	// ============
	if config.Observability.OTLPEndpoint != "" {
		shutdownOtel, err := initOtel(context.Background(), &config.Observability, zlogger)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				zlogger.Error("failed to shutdown OpenTelemetry", logger.Err(err))
			}
		}()
	}

	// ============
	// Bitbucket
	// ============
	schema, err := bitbucket.ParseSchema(config.Bitbucket.ProfileSchema)
	if err != nil {
		log.Fatal(err)
	}

	opts := []bitbucket.Option{bitbucket.WithLogger(zlogger)}
	if config.Redis.Enabled() {
		redis := cache.NewRedisCache(config.Redis.Addr(), config.Redis.Password)
		defer redis.Close()
		opts = append(opts, bitbucket.WithStateStorage(oauth2.NewCacheStorage(redis)))
	}

	bb := config.Bitbucket
	strategy, err := bitbucket.New(bitbucket.Config{
		ClientID:         bb.ClientID,
		ClientSecret:     bb.ClientSecret,
		CallbackURL:      bb.CallbackURL,
		AuthorizationURL: bb.AuthorizationURL,
		TokenURL:         bb.TokenURL,
		UserProfileURL:   bb.UserProfileURL,
		Scopes:           bb.Scopes,
		IncludeEmail:     bb.IncludeEmail,
		UserAgent:        bb.UserAgent,
		CustomHeaders:    bb.CustomHeaders,
		ProfileSchema:    schema,
	}, opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer strategy.Close()

	// ============
	// HTTP
	// ============
	r := gin.Default()
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(TraceLoggerMiddleware(zlogger))

	oauth2.RegisterRoutes(r, strategy.Engine(), zlogger, ids)

	addr := fmt.Sprintf(":%s", config.AppPort)
	zlogger.Info("listening", logger.Field{Key: "addr", Value: addr})
	if err := r.Run(addr); err != nil {
		zlogger.Error("failed to start server", logger.Err(err))
	}
}
