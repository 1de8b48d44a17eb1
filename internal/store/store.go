// Package store persists capture/analysis results and the saved compliance
// configuration in a local SQLite database. It is deliberately thin: the
// core pipeline produces values, this layer just keeps them.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/veedor/veedor/internal/logging"
	"github.com/veedor/veedor/internal/models"
)

// Store wraps the SQLite-backed result database.
type Store struct {
	db *gorm.DB
}

// configRecord holds named JSON blobs, currently just the saved compliance
// configuration.
type configRecord struct {
	Key       string `gorm:"primaryKey"`
	ValueJSON string
}

func (configRecord) TableName() string { return "config" }

const complianceConfigKey = "compliance_config"

// NewStore opens (creating if needed) the database at path and migrates the
// schema.
func NewStore(path string, logger logging.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			LogLevel: gormlogger.Warn,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&models.PostResult{}, &configRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// SavePosts upserts every result in one transaction.
func (s *Store) SavePosts(posts []models.PostResult) error {
	if len(posts) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range posts {
			if err := tx.Save(&posts[i]).Error; err != nil {
				return fmt.Errorf("save post %s: %w", posts[i].PostID, err)
			}
		}
		return nil
	})
}

// ListPosts returns stored posts, newest first, optionally filtered by
// batch.
func (s *Store) ListPosts(batchID string) ([]models.PostResult, error) {
	query := s.db.Order("created_at DESC")
	if batchID != "" {
		query = query.Where("batch_id = ?", batchID)
	}
	var posts []models.PostResult
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns one post by id, or nil when absent.
func (s *Store) GetPost(postID string) (*models.PostResult, error) {
	var post models.PostResult
	err := s.db.Where("post_id = ?", postID).First(&post).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", postID, err)
	}
	return &post, nil
}

// DeletePost removes one post record. Screenshot files are a separate
// concern and are left in place.
func (s *Store) DeletePost(postID string) error {
	if err := s.db.Where("post_id = ?", postID).Delete(&models.PostResult{}).Error; err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}
	return nil
}

// DeleteBatch removes every post of a batch.
func (s *Store) DeleteBatch(batchID string) error {
	if err := s.db.Where("batch_id = ?", batchID).Delete(&models.PostResult{}).Error; err != nil {
		return fmt.Errorf("delete batch %s: %w", batchID, err)
	}
	return nil
}

// BatchSummary aggregates one batch's outcome counts.
type BatchSummary struct {
	BatchID      string `json:"batch_id"`
	Total        int64  `json:"total"`
	Compliant    int64  `json:"compliant"`
	NonCompliant int64  `json:"non_compliant"`
	Errors       int64  `json:"errors"`
}

// RecentBatches returns summaries of the most recent batches, newest first.
func (s *Store) RecentBatches(limit int) ([]BatchSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	var batchIDs []string
	err := s.db.Model(&models.PostResult{}).
		Select("batch_id").
		Group("batch_id").
		Order("max(created_at) DESC").
		Limit(limit).
		Pluck("batch_id", &batchIDs).Error
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	summaries := make([]BatchSummary, 0, len(batchIDs))
	for _, id := range batchIDs {
		summary, err := s.Summarize(id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Summarize counts a batch's posts by status.
func (s *Store) Summarize(batchID string) (BatchSummary, error) {
	summary := BatchSummary{BatchID: batchID}
	rows, err := s.db.Model(&models.PostResult{}).
		Select("status, count(*) as n").
		Where("batch_id = ?", batchID).
		Group("status").
		Rows()
	if err != nil {
		return summary, fmt.Errorf("summarize batch %s: %w", batchID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return summary, fmt.Errorf("summarize batch %s: %w", batchID, err)
		}
		summary.Total += n
		switch models.ComplianceStatus(status) {
		case models.StatusCompliant:
			summary.Compliant = n
		case models.StatusNonCompliant:
			summary.NonCompliant = n
		case models.StatusError:
			summary.Errors = n
		}
	}
	return summary, rows.Err()
}

// SaveComplianceConfig persists the compliance configuration as JSON.
func (s *Store) SaveComplianceConfig(cfg models.ComplianceConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal compliance config: %w", err)
	}
	record := configRecord{Key: complianceConfigKey, ValueJSON: string(payload)}
	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("save compliance config: %w", err)
	}
	return nil
}

// LoadComplianceConfig returns the saved configuration, or fallback when
// none is stored or the stored blob cannot be decoded.
func (s *Store) LoadComplianceConfig(fallback models.ComplianceConfig) models.ComplianceConfig {
	var record configRecord
	err := s.db.Where("key = ?", complianceConfigKey).First(&record).Error
	if err != nil {
		return fallback
	}
	var cfg models.ComplianceConfig
	if err := json.Unmarshal([]byte(record.ValueJSON), &cfg); err != nil {
		return fallback
	}
	return cfg
}
