package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/corvid-labs/moirai/internal/config"
	"github.com/corvid-labs/moirai/internal/database"
	"github.com/corvid-labs/moirai/internal/engine"
	"github.com/corvid-labs/moirai/internal/models"
)

type noopProvider struct{}

func (noopProvider) Sample(context.Context) (models.DecisionContext, error) {
	return models.DecisionContext{}, errors.New("seed tool has no context provider")
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, models.Action) (interface{}, error) {
	return nil, errors.New("seed tool has no dispatcher")
}

// Seeds the default rule set into the configured persistence backend.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config: ", err)
	}

	var repo engine.RuleRepository
	if cfg.Persistence == "file" {
		repo, err = engine.NewFileRepository(cfg.RulesPath)
		if err != nil {
			log.Fatal("open rules file: ", err)
		}
	} else {
		db, err := database.Open(cfg.DatabasePath)
		if err != nil {
			log.Fatal("connect database: ", err)
		}
		if err := db.AutoMigrate(&models.Rule{}); err != nil {
			log.Fatal("migrate database: ", err)
		}
		repo = engine.NewGormRepository(db)
	}

	existing, err := repo.LoadAll()
	if err != nil {
		log.Fatal("load rules: ", err)
	}
	if len(existing) > 0 {
		fmt.Printf("store already holds %d rules, nothing to do\n", len(existing))
		os.Exit(0)
	}

	eng, err := engine.New(engine.Options{
		Provider:   noopProvider{},
		Dispatcher: noopDispatcher{},
		Repository: repo,
	})
	if err != nil {
		log.Fatal("build engine: ", err)
	}
	if err := eng.InstallDefaultRules(); err != nil {
		log.Fatal("seed rules: ", err)
	}

	fmt.Printf("✓ Seeded %d default rules\n", len(engine.DefaultRules()))
}
