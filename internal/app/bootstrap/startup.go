// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"encoding/json"
	"os"

	"github.com/dalemusser/waffle/config"
	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	"github.com/yash2607-del/samaaj/internal/app/system/chatbot"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// Samaaj uses it to warm the chatbot rule engine and, when configured,
// seed the department catalog from a JSON file.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	chatbot.Shared()

	if appCfg.SeedFile != "" {
		if err := seedDepartments(ctx, appCfg.SeedFile, deps, logger); err != nil {
			return err
		}
	}
	return nil
}

// seedDepartments loads departments from a JSON array file. It only
// runs against an empty collection so restarting the service never
// duplicates or clobbers live data.
func seedDepartments(ctx context.Context, path string, deps DBDeps, logger *zap.Logger) error {
	store := departmentstore.New(deps.MongoDatabase)

	existing, err := store.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("department seed skipped, collection not empty",
			zap.Int("existing", len(existing)))
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Error("department seed file unreadable",
			zap.String("path", path), zap.Error(err))
		return err
	}

	var seeds []models.Department
	if err := json.Unmarshal(raw, &seeds); err != nil {
		logger.Error("department seed file invalid", zap.Error(err))
		return err
	}

	created := 0
	for _, d := range seeds {
		if d.Name == "" {
			continue
		}
		d.IsActive = true
		if _, err := store.Create(ctx, d); err != nil {
			if err == departmentstore.ErrDuplicateName {
				continue
			}
			return err
		}
		created++
	}

	logger.Info("seeded departments",
		zap.String("path", path), zap.Int("created", created))
	return nil
}
