package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/lullaby/migrations"
	"gorm.io/gorm"
)

var (
	migrationFileNamePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	addColumnPattern         = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+([^\s]+)\s+ADD\s+COLUMN\s+([^\s]+)\b`)

	errEmptyMigration = errors.New("migration has no SQL statements")
)

type schemaMigration struct {
	Version    string
	Sequence   int
	FileName   string
	Statements []string
}

func applyEmbeddedMigrations(database *gorm.DB) error {
	_, err := applySchemaMigrations(database, embeddedmigrations.Files)
	return err
}

// applySchemaMigrations runs every migration in files that schema_migrations
// does not list yet and returns the file names it applied, oldest first.
func applySchemaMigrations(database *gorm.DB, files fs.FS) ([]string, error) {
	const createLedgerSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := database.Exec(createLedgerSQL).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	migrations, err := parseSchemaMigrations(files)
	if err != nil {
		return nil, err
	}

	var appliedVersions []string
	if err := database.Table("schema_migrations").Pluck("version", &appliedVersions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}
	applied := make(map[string]struct{}, len(appliedVersions))
	for _, version := range appliedVersions {
		applied[version] = struct{}{}
	}

	ran := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		if _, ok := applied[migration.Version]; ok {
			continue
		}
		if err := runSchemaMigration(database, migration); err != nil {
			return ran, err
		}
		ran = append(ran, migration.FileName)
	}
	return ran, nil
}

// parseSchemaMigrations reads NNNN_name.sql files ordered by their numeric prefix.
// Other files are ignored and a repeated prefix is an error.
func parseSchemaMigrations(files fs.FS) ([]schemaMigration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(entries))
	byVersion := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()
		matches := migrationFileNamePattern.FindStringSubmatch(fileName)
		if matches == nil {
			continue
		}

		version := matches[1]
		if previous, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, fileName)
		}
		byVersion[version] = fileName

		sequence, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", fileName, err)
		}
		content, err := fs.ReadFile(files, fileName)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", fileName, err)
		}

		migrations = append(migrations, schemaMigration{
			Version:    version,
			Sequence:   sequence,
			FileName:   fileName,
			Statements: splitSQLStatements(string(content)),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Sequence < migrations[j].Sequence
	})
	return migrations, nil
}

func runSchemaMigration(database *gorm.DB, migration schemaMigration) error {
	if len(migration.Statements) == 0 {
		return fmt.Errorf("migration %s: %w", migration.FileName, errEmptyMigration)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range migration.Statements {
			exists, err := addedColumnExists(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", migration.FileName, err)
			}
			// Databases created before the ledger existed may already carry the column.
			if exists {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", migration.FileName, statement, err)
			}
		}

		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			migration.Version,
			migration.FileName,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", migration.FileName, err)
		}
		return nil
	})
}

// splitSQLStatements splits on ';' after dropping full-line "--" comments.
func splitSQLStatements(sqlText string) []string {
	lines := strings.Split(sqlText, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	statements := make([]string, 0)
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func addedColumnExists(database *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(strings.TrimSpace(statement))
	if matches == nil {
		return false, nil
	}

	tableName := unquoteSQLIdentifier(matches[1])
	columnName := unquoteSQLIdentifier(matches[2])
	var columns []struct {
		Name string `gorm:"column:name"`
	}
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(tableName, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", tableName, err)
	}
	for _, column := range columns {
		if strings.EqualFold(strings.TrimSpace(column.Name), columnName) {
			return true, nil
		}
	}
	return false, nil
}

func unquoteSQLIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
