package services

import (
	"pdfslim/internal/database"
)

// DefaultHistoryLimit bounds history listings when no limit is given
const DefaultHistoryLimit = 20

// StatsService tracks session counters and reads lifetime aggregates from
// the compression history
type StatsService struct {
	db    *database.Database
	stats AppStats
}

// NewStatsService creates a new stats service
func NewStatsService(db *database.Database) *StatsService {
	return &StatsService{
		db:    db,
		stats: AppStats{},
	}
}

// Update adds a finished batch to the session counters
func (s *StatsService) Update(filesCompressed int, dataSaved int64) {
	s.stats.SessionFilesCompressed += filesCompressed
	s.stats.SessionDataSaved += dataSaved
}

// GetStats returns session counters merged with lifetime totals
func (s *StatsService) GetStats() (*AppStats, error) {
	totals, err := s.db.GetTotals()
	if err != nil {
		return nil, err
	}

	stats := s.stats
	stats.TotalFilesCompressed = totals.Files
	stats.TotalDataSaved = totals.OriginalBytes - totals.CompressedBytes
	return &stats, nil
}

// History returns the newest compression records, up to limit
func (s *StatsService) History(limit int) ([]database.CompressionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.db.RecentRecords(limit)
}
