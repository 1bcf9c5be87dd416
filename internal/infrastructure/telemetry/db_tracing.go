package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls query tracing on the GORM connection.
type DBTracingConfig struct {
	Enabled bool
	DBName  string
	// LogFullSQL includes bind variables in span attributes. Keep this off
	// outside development: usage amounts and phone numbers travel as binds.
	LogFullSQL bool
}

// RegisterDBTracing attaches the otelgorm plugin so every entitlement check
// and ledger write shows up as a child span of the HTTP request. Slow query
// detection stays with the zap GORM logger, which already flags it.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(cfg.DBName),
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
	)
	return nil
}
