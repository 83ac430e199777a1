package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds secondary indexes used by list filters and rollups.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Problem list filters and admin group-bys
		{"problems", "idx_problems_status", "status"},
		{"problems", "idx_problems_category", "category"},
		{"problems", "idx_problems_priority", "priority"},
		{"problems", "idx_problems_is_verified", "is_verified"},
		{"problems", "idx_problems_reported_by_id", "reported_by_id"},
		{"problems", "idx_problems_assigned_to_id", "assigned_to_id"},
		{"problems", "idx_problems_created_at", "created_at"},

		// Solution filters and the problem link
		{"solutions", "idx_solutions_problem_id", "problem_id"},
		{"solutions", "idx_solutions_status", "status"},
		{"solutions", "idx_solutions_proposed_by_id", "proposed_by_id"},

		// Forum listing (pinned first, newest first)
		{"forum_posts", "idx_forum_posts_author_id", "author_id"},
		{"forum_posts", "idx_forum_posts_is_pinned", "is_pinned"},
		{"forum_posts", "idx_forum_posts_created_at", "created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
