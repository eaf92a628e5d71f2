package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/corvid-labs/moirai/internal/models"
)

// FileRepository persists the rule set as a JSON array on disk, the default
// encoding for the persistence boundary. Writes go through a temp file and
// rename so a crash cannot leave a half-written rules file.
type FileRepository struct {
	path string
}

// NewFileRepository creates the parent directory if needed.
func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure rules directory: %w", err)
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) LoadAll() ([]models.Rule, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var rules []models.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode rules file: %w", err)
	}
	return rules, nil
}

func (r *FileRepository) SaveAll(rules []models.Rule) error {
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write rules file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace rules file: %w", err)
	}
	return nil
}

// GormRepository persists the rule set to the database. Conditions and
// actions ride along as JSON columns on the rules table.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) LoadAll() ([]models.Rule, error) {
	var rules []models.Rule
	if err := r.db.Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return rules, nil
}

// SaveAll replaces the stored rule set with the given one in a transaction.
func (r *GormRepository) SaveAll(rules []models.Rule) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Rule{}).Error; err != nil {
			return fmt.Errorf("clear rules: %w", err)
		}
		if len(rules) == 0 {
			return nil
		}
		if err := tx.Create(&rules).Error; err != nil {
			return fmt.Errorf("store rules: %w", err)
		}
		return nil
	})
}
