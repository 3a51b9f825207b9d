package config

import "time"

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	PredictorHeuristic = "heuristic"
	PredictorRemote    = "remote"

	defaultPort         = "4000"
	defaultStoreDriver  = StoreMemory
	defaultSQLitePath   = "data/insights.db"
	defaultPredictor    = PredictorHeuristic
	defaultMLServiceURL = "http://127.0.0.1:8000"
	defaultMLTimeout    = 10 * time.Second
	// Stats are refreshed from the ML service at most a few times an hour.
	defaultSyncInterval = 15 * time.Minute
	defaultMetricsPort  = "9090"
	defaultServiceName  = "cricket-insights-service"
)
