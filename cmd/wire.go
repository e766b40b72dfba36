package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"opportunity/discovery-service/internal/cache"
	"opportunity/discovery-service/internal/config"
	"opportunity/discovery-service/internal/credentials"
	"opportunity/discovery-service/internal/discovery"
	"opportunity/discovery-service/internal/events"
	"opportunity/discovery-service/internal/expiry"
	"opportunity/discovery-service/internal/logger"
	"opportunity/discovery-service/internal/metrics"
	"opportunity/discovery-service/internal/query"
	"opportunity/discovery-service/internal/relevance"
	"opportunity/discovery-service/internal/search"
	"opportunity/discovery-service/internal/store"
)

// loadConfig reads the env files named on the root command, then the
// environment, and builds the logger.
func loadConfig(c *cli.Command) (*config.Config, *zap.Logger, error) {
	if err := config.LoadDotEnv(c.StringSlice("env-file")...); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// newService assembles the pipeline. rdb may be nil, which disables the
// response cache and event publishing.
func newService(cfg *config.Config, log *zap.Logger, st store.Store, rdb *redis.Client, m *metrics.Metrics) (*discovery.Service, error) {
	rules, err := relevance.LoadRules(cfg.RelevanceRulesFile)
	if err != nil {
		return nil, err
	}

	pool := credentials.NewPool(cfg.SearchAPIKeys, cfg.KeyRPS)
	if pool.Empty() {
		log.Warn("No search API keys configured, serving the built-in dataset")
	}
	gw := search.NewGateway(pool, search.Options{
		Endpoint:       cfg.SearchEndpoint,
		EngineID:       cfg.SearchEngineID,
		ResultsPerPage: cfg.ResultsPerPage,
		Timeout:        cfg.SearchTimeout,
		DateRestrict:   cfg.DateRestrict,
		Sort:           cfg.Sort,
		Geo:            cfg.Geo,
		Country:        cfg.Country,
	}, log, m)

	deps := discovery.Deps{
		Fetcher: gw,
		Store:   st,
		Logger:  log,
		Metrics: m,
	}
	if rdb != nil {
		deps.Cache = cache.NewRedis(rdb, cfg.CacheTTL)
		deps.Events = events.NewRedisPublisher(rdb)
	}

	return discovery.NewService(deps, discovery.Options{
		PageOffsets: cfg.PageOffsets,
		Composer:    query.Composer{Geo: cfg.DefaultGeo},
		Rules:       &rules,
		Expiry:      expiry.NewFilter(cfg.ExpiryGrace),
	}), nil
}
