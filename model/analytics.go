package model

import "time"

// QueryKind classifies the read operations the service exposes.
type QueryKind string

const (
	QueryKindTop            QueryKind = "top"
	QueryKindSearch         QueryKind = "search"
	QueryKindBook           QueryKind = "book"
	QueryKindRecommendTitle QueryKind = "recommend_title"
	QueryKindRecommendID    QueryKind = "recommend_id"
	QueryKindReviews        QueryKind = "reviews"
)

// QueryEvent represents a single served query for analytics tracking
type QueryEvent struct {
	Kind         QueryKind     `json:"kind"`
	Query        string        `json:"query"`
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularQuery represents aggregated data for frequently issued queries
type PopularQuery struct {
	Query      string `json:"query"`
	QueryCount int    `json:"query_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// QueryKindStats represents per-operation query counters
type QueryKindStats struct {
	Top            int `json:"top"`
	Search         int `json:"search"`
	Book           int `json:"book"`
	RecommendTitle int `json:"recommend_title"`
	RecommendID    int `json:"recommend_id"`
	Reviews        int `json:"reviews"`
}

// QueryPerformanceHourly represents hourly query performance data
type QueryPerformanceHourly struct {
	Hour            int   `json:"hour"`
	QueryCount      int   `json:"query_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// CatalogStats describes the snapshot currently being served
type CatalogStats struct {
	Books          int       `json:"books"`
	Ratings        int       `json:"ratings"`
	IndexAvailable bool      `json:"index_available"`
	BuiltAt        time.Time `json:"built_at"`
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	TotalQueries    int   `json:"total_queries"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds

	QueryPerformance24h      []QueryPerformanceHourly `json:"query_performance_24h"`
	PopularQueries           []PopularQuery           `json:"popular_queries"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	QueryKinds               QueryKindStats           `json:"query_kinds"`
	Catalog                  CatalogStats             `json:"catalog"`
}
