// Package analytics tracks served queries and aggregates them into
// dashboard reports.
package analytics

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/go-book-recommender/model"
	"github.com/gcbaptista/go-book-recommender/services"
)

const (
	analyticsFileName = "analytics.json"
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
)

// Service implements analytics tracking and reporting
type Service struct {
	mutex          sync.RWMutex
	events         []model.QueryEvent
	catalogManager services.CatalogManager
	dataFilePath   string
}

// NewService creates a new analytics service persisting under dataDir
func NewService(catalogManager services.CatalogManager, dataDir string) *Service {
	service := &Service{
		events:         make([]model.QueryEvent, 0),
		catalogManager: catalogManager,
		dataFilePath:   filepath.Join(dataDir, analyticsFileName),
	}

	// Load existing analytics data
	if err := service.loadData(); err != nil {
		slog.Warn("Failed to load analytics data", "error", err)
	}

	return service
}

// TrackQueryEvent records a new query event
func (s *Service) TrackQueryEvent(event model.QueryEvent) error {
	s.mutex.Lock()

	event.Timestamp = time.Now()
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
	s.mutex.Unlock()

	// Persist data asynchronously
	go func() {
		if err := s.saveData(); err != nil {
			slog.Warn("Failed to save analytics data", "error", err)
		}
	}()

	return nil
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	last24hEvents := filterEventsByTime(s.events, yesterday)
	lastWeekEvents := filterEventsByTime(s.events, lastWeek)

	dashboard := model.AnalyticsDashboard{
		TotalQueries:             len(last24hEvents),
		AvgResponseTime:          calculateAvgResponseTime(last24hEvents),
		QueryPerformance24h:      getHourlyPerformance(last24hEvents),
		PopularQueries:           getPopularQueries(lastWeekEvents),
		ResponseTimeDistribution: getResponseTimeDistribution(last24hEvents),
		QueryKinds:               getQueryKindStats(last24hEvents),
		Catalog:                  s.getCatalogStats(),
	}

	return dashboard, nil
}

// filterEventsByTime returns events after the given time
func filterEventsByTime(events []model.QueryEvent, after time.Time) []model.QueryEvent {
	var filtered []model.QueryEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.QueryEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	avgDuration := total / time.Duration(len(events))
	return avgDuration.Milliseconds()
}

// getHourlyPerformance returns hourly query performance for the last 24 hours
func getHourlyPerformance(events []model.QueryEvent) []model.QueryPerformanceHourly {
	hourlyData := make(map[int][]model.QueryEvent)

	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	var performance []model.QueryPerformanceHourly
	for hour := 0; hour < 24; hour++ {
		events := hourlyData[hour]
		avgResponseTime := calculateAvgResponseTime(events)

		performance = append(performance, model.QueryPerformanceHourly{
			Hour:            hour,
			QueryCount:      len(events),
			AvgResponseTime: avgResponseTime,
		})
	}

	return performance
}

// getPopularQueries returns the most frequently issued query strings
func getPopularQueries(events []model.QueryEvent) []model.PopularQuery {
	queryCounts := make(map[string]int)

	for _, event := range events {
		if event.Query != "" {
			queryCounts[event.Query]++
		}
	}

	type queryCount struct {
		query string
		count int
	}

	var queries []queryCount
	for query, count := range queryCounts {
		queries = append(queries, queryCount{query: query, count: count})
	}

	// Sort by count descending, ties by query for stable output
	sort.Slice(queries, func(i, j int) bool {
		if queries[i].count != queries[j].count {
			return queries[i].count > queries[j].count
		}
		return queries[i].query < queries[j].query
	})

	// Return top 5
	var popular []model.PopularQuery
	for i, qc := range queries {
		if i >= 5 {
			break
		}
		popular = append(popular, model.PopularQuery{
			Query:      qc.query,
			QueryCount: qc.count,
		})
	}

	return popular
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.QueryEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)

	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	// Calculate percentages
	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100

	return dist
}

// getQueryKindStats returns per-operation query counters
func getQueryKindStats(events []model.QueryEvent) model.QueryKindStats {
	stats := model.QueryKindStats{}

	for _, event := range events {
		switch event.Kind {
		case model.QueryKindTop:
			stats.Top++
		case model.QueryKindSearch:
			stats.Search++
		case model.QueryKindBook:
			stats.Book++
		case model.QueryKindRecommendTitle:
			stats.RecommendTitle++
		case model.QueryKindRecommendID:
			stats.RecommendID++
		case model.QueryKindReviews:
			stats.Reviews++
		}
	}

	return stats
}

// getCatalogStats reports the snapshot currently being served
func (s *Service) getCatalogStats() model.CatalogStats {
	if s.catalogManager == nil {
		return model.CatalogStats{}
	}

	status := s.catalogManager.Status()
	return model.CatalogStats{
		Books:          status.Books,
		Ratings:        status.Ratings,
		IndexAvailable: status.IndexAvailable,
		BuiltAt:        status.BuiltAt,
	}
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	if _, err := os.Stat(s.dataFilePath); os.IsNotExist(err) {
		return nil // File doesn't exist yet, that's okay
	}

	data, err := os.ReadFile(s.dataFilePath)
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	if err := json.Unmarshal(data, &s.events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}

	return nil
}

// saveData saves analytics data to file
func (s *Service) saveData() error {
	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	s.mutex.RLock()
	data, err := json.MarshalIndent(s.events, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	if err := os.WriteFile(s.dataFilePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}

	return nil
}
