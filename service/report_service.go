package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"li-server/analysis"
	"li-server/api/locations"
	"li-server/cache"
	"li-server/models"
)

// Location-score blend weights: traffic 40%, inverse competition 40%,
// market potential 20%.
const (
	TRAFFIC_WEIGHT          = 0.4
	COMPETITION_WEIGHT      = 0.4
	MARKET_POTENTIAL_WEIGHT = 0.2

	// A section that failed to generate contributes a neutral score so one
	// missing input does not drag the blend to an extreme.
	NEUTRAL_SECTION_SCORE = 50

	DEFAULT_RADIUS_METERS = 2000
	SEARCH_LIMIT          = 50
	EVENTS_WINDOW         = 7 * 24 * time.Hour
)

// Request-aborting errors. Anything else degrades to a section placeholder.
var (
	ErrInvalidRequest     = errors.New("invalid report request")
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// ReportStore is the durable-storage seam the orchestrator needs.
type ReportStore interface {
	GetRestaurantByID(id string) (*models.Restaurant, error)
	StoreReport(report *models.LocationReport) error
}

// ReportOptions tune one report generation.
type ReportOptions struct {
	RadiusMeters  int
	ForceRefresh  bool
	IncludeEvents bool
}

// ReportService orchestrates report generation: cache check, concurrent
// fan-out to the sub-analyses, aggregation, persistence. Constructed once
// and handed its dependencies explicitly.
type ReportService struct {
	provider locations.Provider
	events   locations.EventsSource
	geoCache *cache.GeoCache
	engine   *analysis.CompetitiveEngine
	store    ReportStore
}

func NewReportService(
	provider locations.Provider,
	events locations.EventsSource,
	geoCache *cache.GeoCache,
	engine *analysis.CompetitiveEngine,
	store ReportStore,
) *ReportService {
	return &ReportService{
		provider: provider,
		events:   events,
		geoCache: geoCache,
		engine:   engine,
		store:    store,
	}
}

// section carries one sub-analysis outcome across the fan-out boundary.
type section[T any] struct {
	value T
	err   error
}

// GenerateReport produces the location intelligence report for a
// restaurant. A report is always returned once the restaurant lookup
// succeeds; failed sub-analyses are marked unavailable instead of failing
// the request.
func (rs *ReportService) GenerateReport(ctx context.Context, restaurantID string, opts ReportOptions) (*models.LocationReport, error) {
	if restaurantID == "" {
		return nil, fmt.Errorf("%w: restaurant id is required", ErrInvalidRequest)
	}
	if opts.RadiusMeters < 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrInvalidRequest)
	}
	if opts.RadiusMeters == 0 {
		opts.RadiusMeters = DEFAULT_RADIUS_METERS
	}

	restaurant, err := rs.store.GetRestaurantByID(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("restaurant lookup failed: %w", err)
	}
	if restaurant == nil {
		return nil, fmt.Errorf("%w: %s", ErrRestaurantNotFound, restaurantID)
	}

	reportKey := cache.Key(cache.CATEGORY_REPORT, restaurant.Location, opts.RadiusMeters, restaurantID)
	if !opts.ForceRefresh {
		var cached models.LocationReport
		if rs.geoCache.Get(reportKey, &cached) {
			log.Printf("[ReportService] Report cache hit for %s", restaurantID)
			return &cached, nil
		}
	}

	log.Printf("[ReportService] Generating report for %s at %s", restaurantID, restaurant.Location.ToString())

	// FetchAll: the three sub-analyses run concurrently and are cached
	// independently. They share no mutable state.
	var wg sync.WaitGroup
	var compResult section[*models.CompetitorAnalysisResult]
	var trafficResult section[*models.TrafficAnalysis]
	var eventsResult section[[]models.Event]

	wg.Add(2)
	go func() {
		defer wg.Done()
		compResult.value, compResult.err = rs.fetchCompetitorAnalysis(ctx, restaurant.Location, opts)
	}()
	go func() {
		defer wg.Done()
		trafficResult.value, trafficResult.err = rs.fetchTrafficAnalysis(ctx, restaurant.Location, opts)
	}()
	if opts.IncludeEvents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eventsResult.value, eventsResult.err = rs.fetchEvents(ctx, restaurant.Location, opts)
		}()
	}
	wg.Wait()

	report := rs.aggregate(restaurant, opts, compResult, trafficResult, eventsResult)

	// Persist: cache plus durable history, both non-fatal.
	rs.geoCache.Set(cache.CATEGORY_REPORT, reportKey, report)
	if err := rs.store.StoreReport(report); err != nil {
		log.Printf("[ReportService] WARN: durable store failed for %s: %v", restaurantID, err)
	}

	return report, nil
}

// AnalyzeCompetitors runs the competitive analysis for an arbitrary point,
// without requiring a stored restaurant. Shares the report's cache entries.
func (rs *ReportService) AnalyzeCompetitors(ctx context.Context, center models.GeoPoint, radiusMeters int, forceRefresh bool) (*models.CompetitorAnalysisResult, error) {
	if radiusMeters <= 0 {
		radiusMeters = DEFAULT_RADIUS_METERS
	}
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return rs.fetchCompetitorAnalysis(ctx, center, ReportOptions{RadiusMeters: radiusMeters, ForceRefresh: forceRefresh})
}

// GetVenueDetails resolves one venue through the active provider, cached by
// provider ID. Returns nil without error when the venue does not exist.
func (rs *ReportService) GetVenueDetails(ctx context.Context, venueID string) (*models.Venue, error) {
	if venueID == "" {
		return nil, fmt.Errorf("%w: venue id is required", ErrInvalidRequest)
	}

	key := cache.IDKey(cache.CATEGORY_VENUE_DETAILS, venueID)
	var cached models.Venue
	if rs.geoCache.Get(key, &cached) {
		return &cached, nil
	}

	venue, err := rs.provider.GetDetails(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, nil
	}

	rs.geoCache.Set(cache.CATEGORY_VENUE_DETAILS, key, venue)
	return venue, nil
}

// InvalidateArea drops cached entries around a point across all categories.
func (rs *ReportService) InvalidateArea(center models.GeoPoint, radiusMeters int) (bool, int) {
	return rs.geoCache.InvalidateArea(center, radiusMeters)
}

// CacheStats exposes the cache hit counters for the stats endpoint.
func (rs *ReportService) CacheStats() cache.Stats {
	return rs.geoCache.Stats()
}

// fetchCompetitorAnalysis is the cache-aside path around the competitive
// engine.
func (rs *ReportService) fetchCompetitorAnalysis(ctx context.Context, center models.GeoPoint, opts ReportOptions) (*models.CompetitorAnalysisResult, error) {
	key := cache.Key(cache.CATEGORY_COMPETITORS, center, opts.RadiusMeters, "")
	if !opts.ForceRefresh {
		var cached models.CompetitorAnalysisResult
		if rs.geoCache.Get(key, &cached) {
			return &cached, nil
		}
	}

	venues, err := rs.fetchVenues(ctx, center, opts)
	if err != nil {
		return nil, err
	}

	result := rs.engine.Analyze(venues, center)
	rs.geoCache.Set(cache.CATEGORY_COMPETITORS, key, result)
	return &result, nil
}

// fetchTrafficAnalysis prefers provider visit stats (sampled from the most
// popular nearby venue) and falls back to a popularity proxy for providers
// without that capability.
func (rs *ReportService) fetchTrafficAnalysis(ctx context.Context, center models.GeoPoint, opts ReportOptions) (*models.TrafficAnalysis, error) {
	key := cache.Key(cache.CATEGORY_TRAFFIC, center, opts.RadiusMeters, "")
	if !opts.ForceRefresh {
		var cached models.TrafficAnalysis
		if rs.geoCache.Get(key, &cached) {
			return &cached, nil
		}
	}

	venues, err := rs.fetchVenues(ctx, center, opts)
	if err != nil {
		return nil, err
	}

	traffic := rs.trafficFor(ctx, venues)
	rs.geoCache.Set(cache.CATEGORY_TRAFFIC, key, traffic)
	return traffic, nil
}

func (rs *ReportService) trafficFor(ctx context.Context, venues []models.Venue) *models.TrafficAnalysis {
	if anchor := busiestVenue(venues); anchor != nil {
		stats, err := rs.provider.GetVisitStats(ctx, anchor.ID)
		switch {
		case errors.Is(err, locations.ErrUnsupported):
			// Fall through to the proxy below.
		case err != nil:
			log.Printf("[ReportService] WARN: visit stats failed for %s, using proxy: %v", anchor.ID, err)
		case stats != nil:
			return analysis.TrafficFromVisitStats(stats)
		}
	}
	return analysis.TrafficFromVenuePopularity(venues)
}

func (rs *ReportService) fetchEvents(ctx context.Context, center models.GeoPoint, opts ReportOptions) ([]models.Event, error) {
	key := cache.Key(cache.CATEGORY_EVENTS, center, opts.RadiusMeters, "")
	if !opts.ForceRefresh {
		var cached []models.Event
		if rs.geoCache.Get(key, &cached) {
			return cached, nil
		}
	}

	events, err := rs.events.FindEvents(ctx, center, opts.RadiusMeters, EVENTS_WINDOW)
	if err != nil {
		return nil, err
	}

	rs.geoCache.Set(cache.CATEGORY_EVENTS, key, events)
	return events, nil
}

// fetchVenues is the shared search-cache-aside path under the competitor
// and traffic sections.
func (rs *ReportService) fetchVenues(ctx context.Context, center models.GeoPoint, opts ReportOptions) ([]models.Venue, error) {
	key := cache.Key(cache.CATEGORY_SEARCH, center, opts.RadiusMeters, "restaurant")
	if !opts.ForceRefresh {
		var cached []models.Venue
		if rs.geoCache.Get(key, &cached) {
			return cached, nil
		}
	}

	query := models.SearchQuery{
		Center:         center,
		RadiusMeters:   opts.RadiusMeters,
		CategoryFilter: []string{"restaurant"},
		Limit:          SEARCH_LIMIT,
		SortHint:       models.SortByPopularity,
	}
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	venues, err := rs.provider.FindNearby(ctx, query)
	if err != nil {
		return nil, err
	}

	venues = dedupeVenues(venues)
	rs.geoCache.Set(cache.CATEGORY_SEARCH, key, venues)
	return venues, nil
}

// dedupeVenues drops best-effort duplicates by name plus ~100m-rounded
// location. First occurrence wins.
func dedupeVenues(venues []models.Venue) []models.Venue {
	seen := make(map[string]struct{}, len(venues))
	out := venues[:0]
	for _, v := range venues {
		key := v.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func busiestVenue(venues []models.Venue) *models.Venue {
	var best *models.Venue
	bestPop := -1.0
	for i := range venues {
		if venues[i].PopularityScore != nil && *venues[i].PopularityScore > bestPop {
			best = &venues[i]
			bestPop = *venues[i].PopularityScore
		}
	}
	return best
}

// aggregate folds the fan-out results into one report, substituting
// documented unavailable placeholders for failed sections.
func (rs *ReportService) aggregate(
	restaurant *models.Restaurant,
	opts ReportOptions,
	comp section[*models.CompetitorAnalysisResult],
	traffic section[*models.TrafficAnalysis],
	events section[[]models.Event],
) *models.LocationReport {
	now := time.Now()
	report := &models.LocationReport{
		RestaurantID:   restaurant.ID,
		Location:       restaurant.Location,
		GeneratedAt:    now,
		CacheExpiresAt: now.Add(rs.geoCache.TTL(cache.CATEGORY_REPORT)),
	}

	if comp.err != nil {
		log.Printf("[ReportService] WARN: competitor analysis unavailable: %v", comp.err)
		report.CompetitorStatus = models.SectionStatus{Available: false, Reason: "competitor analysis unavailable: provider error"}
	} else {
		report.CompetitorAnalysis = comp.value
		report.CompetitorStatus = models.SectionStatus{Available: true}
	}

	if traffic.err != nil {
		log.Printf("[ReportService] WARN: traffic analysis unavailable: %v", traffic.err)
		report.TrafficStatus = models.SectionStatus{Available: false, Reason: "traffic analysis unavailable: provider error"}
	} else {
		report.TrafficAnalysis = traffic.value
		report.TrafficStatus = models.SectionStatus{Available: true}
	}

	switch {
	case !opts.IncludeEvents:
		report.EventsStatus = models.SectionStatus{Available: false, Reason: "events not requested"}
	case events.err != nil:
		log.Printf("[ReportService] WARN: events lookup unavailable: %v", events.err)
		report.EventsStatus = models.SectionStatus{Available: false, Reason: "events lookup unavailable: provider error"}
	default:
		report.Events = events.value
		report.EventsStatus = models.SectionStatus{Available: true}
	}

	report.LocationScore = locationScore(report.CompetitorAnalysis, report.TrafficAnalysis, report.Events)
	report.Recommendations = analysis.BuildRecommendations(report.CompetitorAnalysis, report.TrafficAnalysis, report.Events)

	return report
}

// locationScore blends the sub-analyses. Competition counts inversely: a
// crowded market lowers the location's appeal.
func locationScore(comp *models.CompetitorAnalysisResult, traffic *models.TrafficAnalysis, events []models.Event) int {
	trafficScore := float64(NEUTRAL_SECTION_SCORE)
	if traffic != nil {
		trafficScore = float64(traffic.TrafficScore)
	}

	inverseCompetition := float64(NEUTRAL_SECTION_SCORE)
	marketPotential := float64(NEUTRAL_SECTION_SCORE)
	if comp != nil {
		inverseCompetition = float64(100 - comp.OverallScore)
		marketPotential = potentialFor(comp.OpportunityLevel)
	}
	marketPotential += eventBoost(events)
	if marketPotential > 100 {
		marketPotential = 100
	}

	score := TRAFFIC_WEIGHT*trafficScore +
		COMPETITION_WEIGHT*inverseCompetition +
		MARKET_POTENTIAL_WEIGHT*marketPotential
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score + 0.5)
}

func potentialFor(level models.OpportunityLevel) float64 {
	switch level {
	case models.OpportunityHigh:
		return 80
	case models.OpportunityMedium:
		return 55
	default:
		return 30
	}
}

// eventBoost adds up to 20 points of market potential for upcoming events.
func eventBoost(events []models.Event) float64 {
	boost := float64(len(events)) * 4
	if boost > 20 {
		boost = 20
	}
	return boost
}
