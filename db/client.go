// Package db stores an operator-side history of handled lookups.
package db

import (
	"context"
	"fmt"

	"found-music-bot/models"
)

// HistoryClient records lookups and reports per chat totals.
type HistoryClient interface {
	Record(ctx context.Context, l models.Lookup) error
	Stats(ctx context.Context, chatID int64) (models.LookupStats, error)
	Close() error
}

// NewHistoryClient opens the store selected by dbType. An empty dbType
// means history is disabled and (nil, nil) is returned.
func NewHistoryClient(ctx context.Context, dbType, sqlitePath, mongoURI string) (HistoryClient, error) {
	switch dbType {
	case "":
		return nil, nil
	case "sqlite":
		client, err := NewSQLiteClient(sqlitePath)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "mongo":
		client, err := NewMongoClient(ctx, mongoURI)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported db type %q", dbType)
	}
}

func addOutcome(s *models.LookupStats, outcome string, n int) {
	s.Total += n
	switch outcome {
	case models.OutcomeFound:
		s.Found += n
	case models.OutcomeNotFound:
		s.NotFound += n
	case models.OutcomeFailed:
		s.Failed += n
	case models.OutcomeRejected:
		s.Rejected += n
	}
}
