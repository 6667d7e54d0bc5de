package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// listing indexes: owner dashboards and per-project task lists are read
// most-recent-first.
var indexes = []index{
	{"projects", "idx_projects_owner_created", "owner_id, created_at"},
	{"tasks", "idx_tasks_project_created", "project_id, created_at"},
}

// AddIndexes creates the listing indexes that do not exist yet
func AddIndexes(db *gorm.DB, log zerolog.Logger) error {
	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}
