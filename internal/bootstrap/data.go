package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/osse101/ashfall/internal/item"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/recipe"
	"github.com/osse101/ashfall/internal/recipedict"
	"github.com/osse101/ashfall/internal/trap"
)

// GameData holds the definitions loaded from the data directory
type GameData struct {
	Catalog    *item.Catalog
	Dictionary *recipedict.Dictionary
	Traps      *trap.Set

	// Rejected lists the recipe definitions that were skipped, with the reason
	Rejected []error
}

// LoadData reads items, recipes and traps from dataDir. Items are loaded
// first because recipes refer to them. A malformed recipe is skipped and
// reported in Rejected; a missing traps file leaves Traps empty.
func LoadData(ctx context.Context, dataDir string, suggestCacheSize int) (*GameData, error) {
	log := logger.FromContext(ctx)

	log.Info(LogMsgLoadingItems)
	itemLoader := item.NewLoader()
	itemConfig, err := itemLoader.Load(filepath.Join(dataDir, item.ConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadItems, err)
	}
	catalog, err := itemLoader.Catalog(ctx, itemConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidItems, err)
	}

	log.Info(LogMsgLoadingRecipes)
	recipeLoader := recipe.NewLoader()
	defs, err := recipeLoader.Load(filepath.Join(dataDir, recipe.ConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadRecipes, err)
	}
	dict := recipedict.New(suggestCacheSize)
	recipes, rejections := recipeLoader.Build(ctx, defs, catalog, dict.NextID())

	data := &GameData{Catalog: catalog, Dictionary: dict}
	for _, r := range rejections {
		data.Rejected = append(data.Rejected, r)
	}
	data.Rejected = append(data.Rejected, dict.Load(ctx, recipes)...)
	if err := dict.CheckConsistency(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInconsistentDict, err)
	}

	log.Info(LogMsgLoadingTraps)
	traps, err := loadTraps(ctx, filepath.Join(dataDir, trap.ConfigFileName))
	if err != nil {
		return nil, err
	}
	data.Traps = traps

	log.Info(LogMsgDataLoaded,
		"items", catalog.Len(),
		"recipes", dict.Len(),
		"rejected", len(data.Rejected),
		"traps", traps.Len())
	return data, nil
}

func loadTraps(ctx context.Context, path string) (*trap.Set, error) {
	loader := trap.NewLoader(trap.NewRegistry())
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Info(LogMsgTrapsSkipped, "path", path)
		return loader.Bind(ctx, &trap.Config{})
	}

	config, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadTraps, err)
	}
	set, err := loader.Bind(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidTraps, err)
	}
	return set, nil
}
