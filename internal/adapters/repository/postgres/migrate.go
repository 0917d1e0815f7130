package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Migrate applies every migration in the given direction: up files in
// ascending order, down files in descending order.
func Migrate(ctx context.Context, db *sql.DB, direction string) ([]string, error) {
	if direction != DirectionUp && direction != DirectionDown {
		return nil, fmt.Errorf("unknown migration direction %q", direction)
	}

	names, err := migrationNames("." + direction + ".sql")
	if err != nil {
		return nil, err
	}
	if direction == DirectionDown {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		if err := execMigration(ctx, db, name); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// RunMigration executes the single migration file whose name ends with
// migrationName followed by ".sql", e.g. "init.up".
func RunMigration(ctx context.Context, db *sql.DB, migrationName string) (string, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid migration name: %w", err)
	}

	names, err := migrationNames(".sql")
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if pattern.MatchString(name) {
			return name, execMigration(ctx, db, name)
		}
	}
	return "", fmt.Errorf("migration file not found: %s", migrationName)
}

func migrationNames(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func execMigration(ctx context.Context, db *sql.DB, name string) error {
	content, err := migrationFiles.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	return nil
}
