// Package importer loads editor-curated recipes from JSON files.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// RecipeStore inserts a recipe unless its slug is taken.
type RecipeStore interface {
	CreateIfAbsent(ctx context.Context, rec *domain.Recipe) (bool, error)
}

// TxRunner runs fn inside a transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds import settings.
type Config struct {
	// Path is a single JSON file or a directory of *.json files.
	Path   string
	DryRun bool
}

// Result holds import statistics.
type Result struct {
	FilesProcessed int
	Inserted       int
	Skipped        int
	Errors         int
}

// Run parses every file under cfg.Path, validates the recipes and inserts
// them in one transaction. Existing slugs are skipped, so the import can be
// re-run safely. Malformed files and invalid recipes are counted and
// logged; a database error aborts the whole import.
func Run(ctx context.Context, cfg Config, repo RecipeStore, tx TxRunner, log *slog.Logger) (Result, error) {
	files, err := resolveFiles(cfg.Path)
	if err != nil {
		return Result{}, err
	}

	var (
		result  Result
		recipes []*domain.Recipe
		seen    = make(map[string]bool)
	)

	for _, path := range files {
		result.FilesProcessed++

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("read file", slog.String("path", path), slog.String("error", err.Error()))
			result.Errors++
			continue
		}

		var entries []CuratedRecipe
		if err := json.Unmarshal(data, &entries); err != nil {
			log.Error("unmarshal JSON", slog.String("path", path), slog.String("error", err.Error()))
			result.Errors++
			continue
		}

		for _, e := range entries {
			if err := Validate(e); err != nil {
				log.Error("invalid recipe", slog.String("path", path), slog.String("error", err.Error()))
				result.Errors++
				continue
			}
			rec := Map(e)
			if seen[rec.Slug] {
				result.Skipped++
				continue
			}
			seen[rec.Slug] = true
			recipes = append(recipes, rec)
		}
	}

	if len(recipes) == 0 {
		log.Info("no valid recipes to import")
		return result, nil
	}

	if cfg.DryRun {
		result.Inserted = len(recipes)
		log.Info("dry run, nothing written", slog.Int("recipes", len(recipes)))
		return result, nil
	}

	var inserted, skipped int
	err = tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, rec := range recipes {
			ok, err := repo.CreateIfAbsent(ctx, rec)
			if err != nil {
				return fmt.Errorf("insert %s: %w", rec.Slug, err)
			}
			if ok {
				inserted++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("importer.Run: %w", err)
	}
	result.Inserted += inserted
	result.Skipped += skipped

	log.Info("import complete",
		slog.Int("files", result.FilesProcessed),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", result.Errors),
	)
	return result, nil
}

func resolveFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("importer: glob %s: %w", path, err)
	}
	return files, nil
}
