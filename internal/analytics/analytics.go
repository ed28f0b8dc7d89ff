package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Lookup outcomes.
const (
	OutcomeInstalled = "installed"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
	OutcomeStale     = "stale"
)

type AnalyticsManager struct {
	db *gorm.DB
}

// LookupEntry is one completed lookup and what became of its result.
type LookupEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Query      string
	Outcome    string `gorm:"index"`
	Candidates int
	LatencyMs  int64
}

func NewAnalyticsManager(dbFilePath string) (*AnalyticsManager, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database")
		return nil, err
	}

	if strings.Contains(dbFilePath, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&LookupEntry{}); err != nil {
		return nil, err
	}

	return &AnalyticsManager{
		db: db,
	}, nil
}

func (analyticsManager *AnalyticsManager) Close() error {
	sqlDB, err := analyticsManager.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (analyticsManager *AnalyticsManager) NewEntry(query string, outcome string, candidates int, latency time.Duration) error {
	entry := LookupEntry{
		Query:      query,
		Outcome:    outcome,
		Candidates: candidates,
		LatencyMs:  latency.Milliseconds(),
	}

	result := analyticsManager.db.Create(&entry)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (analyticsManager *AnalyticsManager) GetRecentEntries(limit int) ([]LookupEntry, error) {
	var entries []LookupEntry
	result := analyticsManager.db.Order("id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (analyticsManager *AnalyticsManager) GetTotalCount() (int64, error) {
	var count int64
	result := analyticsManager.db.Model(&LookupEntry{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetOutcomeCounts returns how many lookups ended with each outcome.
func (analyticsManager *AnalyticsManager) GetOutcomeCounts() (map[string]int64, error) {
	var results []struct {
		Outcome string
		Count   int64
	}
	if err := analyticsManager.db.Model(&LookupEntry{}).Select("outcome, count(*) as count").Group("outcome").Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, r := range results {
		counts[r.Outcome] = r.Count
	}
	return counts, nil
}

// GetAverageLatency averages the latency of lookups whose result was used.
func (analyticsManager *AnalyticsManager) GetAverageLatency() (time.Duration, error) {
	var avg sql.NullFloat64
	err := analyticsManager.db.Model(&LookupEntry{}).
		Select("avg(latency_ms)").
		Where("outcome IN ?", []string{OutcomeInstalled, OutcomeEmpty}).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return time.Duration(avg.Float64 * float64(time.Millisecond)), nil
}
