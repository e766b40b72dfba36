// Package discovery runs the opportunity pipeline: compose a query, fetch
// hits, extract fields, score and filter, then persist the survivors.
//
// Every upstream failure is recovered here. Only caller input errors
// (*ValidationError) and store read errors escape.
package discovery

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"opportunity/discovery-service/internal/cache"
	"opportunity/discovery-service/internal/events"
	"opportunity/discovery-service/internal/expiry"
	"opportunity/discovery-service/internal/extract"
	"opportunity/discovery-service/internal/metrics"
	"opportunity/discovery-service/internal/model"
	"opportunity/discovery-service/internal/query"
	"opportunity/discovery-service/internal/relevance"
	"opportunity/discovery-service/internal/search"
	"opportunity/discovery-service/internal/store"
	"opportunity/discovery-service/internal/urlnorm"
)

// Listing limits for CachedOpportunities.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// DefaultPageOffsets are the provider start offsets requested per run.
var DefaultPageOffsets = []int{1, 11}

// Fetcher returns raw hits for a composed query. *search.Gateway satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, query string, offsets []int) ([]model.RawSearchHit, error)
}

// ResponseCache stores whole pipeline responses. *cache.Redis satisfies it.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]model.OpportunityRecord, bool, error)
	Set(ctx context.Context, key string, recs []model.OpportunityRecord) error
}

// Publisher announces finished runs. *events.RedisPublisher satisfies it.
type Publisher interface {
	PublishDiscovered(ctx context.Context, ev events.Discovered) error
}

// Deps are the collaborators of a Service. Only Store is required; a nil
// Fetcher always serves the built-in dataset.
type Deps struct {
	Fetcher Fetcher
	Store   store.Store
	Cache   ResponseCache
	Events  Publisher
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Options tune the pipeline. Zero values take defaults.
type Options struct {
	PageOffsets []int
	Composer    query.Composer
	Rules       *relevance.Rules
	Expiry      expiry.Filter
	Now         func() time.Time
}

// SearchResult is the response of one pipeline run.
type SearchResult struct {
	Opportunities []model.OpportunityRecord `json:"opportunities"`
	Count         int                       `json:"count"`
	Query         string                    `json:"query"`
	Source        string                    `json:"source"`
}

// Service is safe for concurrent use.
type Service struct {
	fetcher  Fetcher
	store    store.Store
	cache    ResponseCache
	events   Publisher
	log      *zap.Logger
	metrics  *metrics.Metrics
	offsets  []int
	composer query.Composer
	scorer   *relevance.Scorer
	expiry   expiry.Filter
	now      func() time.Time
}

func NewService(d Deps, o Options) *Service {
	s := &Service{
		fetcher:  d.Fetcher,
		store:    d.Store,
		cache:    d.Cache,
		events:   d.Events,
		log:      d.Logger,
		metrics:  d.Metrics,
		offsets:  o.PageOffsets,
		composer: o.Composer,
		expiry:   o.Expiry,
		now:      o.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.With(zap.String("component", "discovery"))
	if len(s.offsets) == 0 {
		s.offsets = DefaultPageOffsets
	}
	rules := relevance.DefaultRules()
	if o.Rules != nil {
		rules = *o.Rules
	}
	s.scorer = relevance.NewScorer(rules)
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// Search runs the pipeline for q. It fails only on invalid input.
func (s *Service) Search(ctx context.Context, q model.OpportunityQuery) (*SearchResult, error) {
	raw := strings.TrimSpace(q.RawText)
	if raw == "" {
		return nil, &ValidationError{Msg: "query is required"}
	}
	year := strings.TrimSpace(q.YearHint)
	if year != "" && !yearPattern.MatchString(year) {
		return nil, &ValidationError{Msg: "year must be a four-digit year"}
	}

	started := time.Now()
	defer func() { s.metrics.ObserveSearch(time.Since(started)) }()

	now := s.now().UTC()
	currentYear := strconv.Itoa(now.Year())
	if year == "" {
		year = currentYear
	}
	enhanced := s.composer.Compose(raw, q.TypeFilter, year)
	log := s.log.With(zap.String("query", enhanced))

	key := cache.Key(enhanced, q.TypeFilter)
	if recs, ok := s.fromCache(ctx, log, key, now); ok {
		s.metrics.Search(metrics.SourceCache)
		return &SearchResult{Opportunities: recs, Count: len(recs), Query: enhanced, Source: metrics.SourceCache}, nil
	}

	hits, source := s.fetch(ctx, log, enhanced, now)
	kept := s.rank(hits, q.TypeFilter, currentYear, now)
	records := s.persist(ctx, log, kept, now)

	// built-in results must not shadow the provider once it recovers
	if source == metrics.SourceLive {
		s.toCache(ctx, log, key, records)
	}
	s.publish(ctx, log, enhanced, source, records, now)
	s.metrics.Search(source)

	log.Info("Search complete",
		zap.String("source", source), zap.Int("hits", len(hits)), zap.Int("kept", len(records)))
	return &SearchResult{Opportunities: records, Count: len(records), Query: enhanced, Source: source}, nil
}

// fetch asks the provider and falls back to the built-in dataset on any
// failure or empty answer.
func (s *Service) fetch(ctx context.Context, log *zap.Logger, enhanced string, now time.Time) ([]model.RawSearchHit, string) {
	if s.fetcher == nil {
		return search.MockResults(now), metrics.SourceMock
	}
	hits, err := s.fetcher.Fetch(ctx, enhanced, s.offsets)
	switch {
	case errors.Is(err, search.ErrCredentialsMissing):
		log.Info("No search credentials, serving built-in results")
	case err != nil:
		log.Warn("Search provider failed, serving built-in results", zap.Error(err))
	case len(hits) == 0:
		log.Warn("Search provider returned nothing, serving built-in results")
	default:
		return hits, metrics.SourceLive
	}
	return search.MockResults(now), metrics.SourceMock
}

// rank extracts and scores hits, drops weak or expired ones, orders the rest
// by score and keeps the first candidate per record id.
func (s *Service) rank(hits []model.RawSearchHit, typ *model.OpportunityType, year string, now time.Time) []model.Candidate {
	kept := make([]model.Candidate, 0, len(hits))
	for _, h := range hits {
		c := extract.Extract(h)
		if typ != nil {
			c.Type = *typ
		}
		c.RelevanceScore = s.scorer.Score(c, year)
		if !s.scorer.Keep(c.RelevanceScore) {
			s.metrics.Dropped(metrics.DropLowScore)
			continue
		}
		if s.expiry.IsExpired(c, now) {
			s.metrics.Dropped(metrics.DropExpired)
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RelevanceScore > kept[j].RelevanceScore
	})

	seen := make(map[string]bool, len(kept))
	out := kept[:0]
	for _, c := range kept {
		id := urlnorm.RecordID(c.Link)
		if seen[id] {
			s.metrics.Dropped(metrics.DropDuplicate)
			continue
		}
		seen[id] = true
		out = append(out, c)
	}
	return out
}

// persist upserts each candidate in order. A failed write still returns the
// in-memory record, marked as not cached.
func (s *Service) persist(ctx context.Context, log *zap.Logger, kept []model.Candidate, now time.Time) []model.OpportunityRecord {
	out := make([]model.OpportunityRecord, 0, len(kept))
	for _, c := range kept {
		rec := model.RecordFromCandidate(urlnorm.RecordID(c.Link), c, now)
		if s.store == nil {
			out = append(out, rec)
			continue
		}
		saved, err := s.store.Upsert(ctx, rec)
		if err != nil {
			log.Warn("Store upsert failed, returning unsaved record", zap.String("id", rec.ID), zap.Error(err))
			s.metrics.StoreError()
			out = append(out, rec)
			continue
		}
		s.metrics.Upserted()
		out = append(out, saved)
	}
	return out
}

// fromCache returns a cached response with anything that has since expired
// removed. An entry that is now empty counts as a miss.
func (s *Service) fromCache(ctx context.Context, log *zap.Logger, key string, now time.Time) ([]model.OpportunityRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	recs, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("Response cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	fresh := make([]model.OpportunityRecord, 0, len(recs))
	for _, r := range recs {
		c := model.Candidate{RawSearchHit: model.RawSearchHit{Title: r.Title, Link: r.Link, Snippet: r.Description}}
		if !s.expiry.IsExpired(c, now) {
			fresh = append(fresh, r)
		}
	}
	return fresh, len(fresh) > 0
}

func (s *Service) toCache(ctx context.Context, log *zap.Logger, key string, recs []model.OpportunityRecord) {
	if s.cache == nil || len(recs) == 0 {
		return
	}
	if err := s.cache.Set(ctx, key, recs); err != nil {
		log.Warn("Response cache write failed", zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, log *zap.Logger, enhanced, source string, recs []model.OpportunityRecord, now time.Time) {
	if s.events == nil || len(recs) == 0 {
		return
	}
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	ev := events.NewDiscovered(enhanced, source, ids, now)
	if err := s.events.PublishDiscovered(ctx, ev); err != nil {
		log.Warn("Publish discovery event failed", zap.String("run_id", ev.RunID), zap.Error(err))
	}
}

// CachedOpportunities lists stored records, most recently seen first.
// limit <= 0 means DefaultListLimit; larger values are capped at MaxListLimit.
func (s *Service) CachedOpportunities(ctx context.Context, limit int, typ *model.OpportunityType) ([]model.OpportunityRecord, error) {
	if s.store == nil {
		return []model.OpportunityRecord{}, nil
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.store.ListRecent(ctx, limit, typ)
}

// Opportunity returns one stored record, or ErrNotFound.
func (s *Service) Opportunity(ctx context.Context, id string) (model.OpportunityRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.OpportunityRecord{}, &ValidationError{Msg: "id is required"}
	}
	if s.store == nil {
		return model.OpportunityRecord{}, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// Suggestions returns personalised search queries for a student profile.
func (s *Service) Suggestions(p query.Profile) []string {
	return query.Suggest(p, strconv.Itoa(s.now().Year()))
}

// RefreshSeeds runs Search for each seed query in turn and returns how many
// records were returned overall. Failures are logged and skipped.
func (s *Service) RefreshSeeds(ctx context.Context, seeds []string) int {
	total := 0
	for _, seed := range seeds {
		if ctx.Err() != nil {
			break
		}
		res, err := s.Search(ctx, model.OpportunityQuery{RawText: seed})
		if err != nil {
			s.log.Warn("Seed search failed", zap.String("seed", seed), zap.Error(err))
			continue
		}
		total += res.Count
	}
	return total
}
