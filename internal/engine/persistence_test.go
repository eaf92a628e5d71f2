package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/corvid-labs/moirai/internal/models"
)

func sampleRules() []models.Rule {
	now := time.Now().Truncate(time.Second)
	return []models.Rule{
		{
			ID:       "rule-1",
			Name:     "High CPU Auto-Scale",
			Category: models.CategoryPerformance,
			Conditions: []models.Condition{
				{Field: "systemMetrics.cpu", Operator: models.OperatorGreaterThan, Value: 80},
			},
			Actions: []models.Action{
				{Type: models.ActionScaleUp, Target: "system"},
			},
			Priority:  1,
			Enabled:   true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:       "rule-2",
			Name:     "Error Rate Alert",
			Category: models.CategorySystemHealth,
			Conditions: []models.Condition{
				{Field: "systemMetrics.errorRate", Operator: models.OperatorGreaterThan, Value: 5},
			},
			Actions: []models.Action{
				{Type: models.ActionSendAlert, Target: "ops", Parameters: map[string]interface{}{"channel": "pager"}},
			},
			Priority:  2,
			Enabled:   false,
			CreatedAt: now.Add(time.Second),
			UpdatedAt: now.Add(time.Second),
		},
	}
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "rules.json")
	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	rules := sampleRules()
	require.NoError(t, repo.SaveAll(rules))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "rule-1", loaded[0].ID)
	assert.Equal(t, models.OperatorGreaterThan, loaded[0].Conditions[0].Operator)
	assert.Equal(t, models.ActionSendAlert, loaded[1].Actions[0].Type)
	assert.False(t, loaded[1].Enabled)
}

func TestFileRepositoryMissingFileIsEmpty(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "rules.json"))
	require.NoError(t, err)

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileRepositoryLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	require.NoError(t, repo.SaveAll(sampleRules()))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func openRuleDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Rule{}))
	return db
}

func TestGormRepositoryRoundTrip(t *testing.T) {
	repo := NewGormRepository(openRuleDB(t))

	rules := sampleRules()
	require.NoError(t, repo.SaveAll(rules))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "rule-1", loaded[0].ID)
	assert.Equal(t, "rule-2", loaded[1].ID)
	require.Len(t, loaded[1].Actions, 1)
	assert.Equal(t, "ops", loaded[1].Actions[0].Target)
}

func TestGormRepositorySaveAllReplaces(t *testing.T) {
	repo := NewGormRepository(openRuleDB(t))

	require.NoError(t, repo.SaveAll(sampleRules()))

	replacement := sampleRules()[:1]
	replacement[0].Name = "Renamed"
	require.NoError(t, repo.SaveAll(replacement))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Renamed", loaded[0].Name)
}

func TestGormRepositorySaveAllEmptyClears(t *testing.T) {
	repo := NewGormRepository(openRuleDB(t))

	require.NoError(t, repo.SaveAll(sampleRules()))
	require.NoError(t, repo.SaveAll(nil))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
