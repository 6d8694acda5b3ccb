package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/terraincognita07/lullaby/internal/db"
	"github.com/terraincognita07/lullaby/internal/services"
	"go.uber.org/zap"
)

// RunExportCommand writes a JSON backup of every child and session. An empty or "-"
// path writes the document to out instead of a file.
func RunExportCommand(ctx context.Context, dbPath string, outPath string, location *time.Location, out io.Writer, logger *zap.Logger) error {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer sqlDB.Close()

	repositories := db.NewRepositories(database)
	store := services.NewSessionStore(repositories.Children, repositories.Sessions, repositories.Settings, logger)
	exporter := services.NewExportService(store, location)

	document, err := exporter.BuildDocument(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("build export: %w", err)
	}
	serialized, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	outPath = strings.TrimSpace(outPath)
	if outPath == "" || outPath == "-" {
		_, err := fmt.Fprintln(out, string(serialized))
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(outPath, serialized, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(out, "Exported %d children and %d sessions to %s\n", len(document.Children), len(document.Sessions), outPath)
	return nil
}
