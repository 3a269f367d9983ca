package postgres

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

// RunMigrations applies every *.up.sql file in dir that is not yet recorded in
// the migrations table, in file name order, one transaction per file.
func RunMigrations(db *sql.DB, dir string, log *logger.Logger) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.Query("SELECT name FROM migrations")
	if err != nil {
		return fmt.Errorf("failed to query migrations table: %w", err)
	}
	defer rows.Close()

	appliedMigrations := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		appliedMigrations[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	migrations, err := pendingMigrations(dir, appliedMigrations)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		filePath := filepath.Join(dir, migration)
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filePath, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("error executing migration %s: %w", migration, err)
		}

		if _, err := tx.Exec("INSERT INTO migrations (name) VALUES ($1)", migration); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", migration, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction for migration %s: %w", migration, err)
		}

		log.Info("Applied migration", "name", migration)
	}

	return nil
}

func pendingMigrations(dir string, applied map[string]bool) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	var migrations []string
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".up.sql") {
			continue
		}
		if applied[file.Name()] {
			continue
		}
		migrations = append(migrations, file.Name())
	}
	sort.Strings(migrations)

	return migrations, nil
}
