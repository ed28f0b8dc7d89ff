package history

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemory keeps history for the lifetime of the process only.
const InMemory = ":memory:"

// TimestampLayout renders timestamps the way en-US locales print date and time.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

type HistoryManager struct {
	db *gorm.DB
}

// HistoryEntry is one selection. Entries are never modified after creation.
type HistoryEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Text string
}

// Timestamp returns the localized creation time.
func (e HistoryEntry) Timestamp() string {
	return FormatTimestamp(e.CreatedAt)
}

func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

func NewHistoryManager(dbFilePath string) (*HistoryManager, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database")
		return nil, err
	}

	if strings.Contains(dbFilePath, InMemory) {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&HistoryEntry{}); err != nil {
		return nil, err
	}

	return &HistoryManager{
		db: db,
	}, nil
}

// Close closes the database connection.
func (historyManager *HistoryManager) Close() error {
	sqlDB, err := historyManager.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record appends a selection.
func (historyManager *HistoryManager) Record(text string) (*HistoryEntry, error) {
	entry := HistoryEntry{
		Text: text,
	}

	result := historyManager.db.Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

// Remove detaches exactly the entry with the given id.
func (historyManager *HistoryManager) Remove(id uint) error {
	result := historyManager.db.Delete(&HistoryEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no history entry found with id %d", id)
	}

	return nil
}

// Entries returns all entries in append order.
func (historyManager *HistoryManager) Entries() ([]HistoryEntry, error) {
	var entries []HistoryEntry
	result := historyManager.db.Order("id asc").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// Count returns the number of entries.
func (historyManager *HistoryManager) Count() (int64, error) {
	var count int64
	result := historyManager.db.Model(&HistoryEntry{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
