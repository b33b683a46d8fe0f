package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				email VARCHAR(255) UNIQUE NOT NULL,
				display_name VARCHAR(255) NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				is_admin BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		`,
		Down: `
			DROP TABLE IF EXISTS users;
		`,
	},
	{
		Version: 2,
		Up: `
			CREATE TABLE IF NOT EXISTS products (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				price NUMERIC(10,2) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
		`,
		Down: `
			DROP TABLE IF EXISTS products;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE TABLE IF NOT EXISTS reviews (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
				review_text TEXT NOT NULL,
				visible BOOLEAN NOT NULL DEFAULT false,
				views INT NOT NULL DEFAULT 0,
				sentiment_label VARCHAR(20) NOT NULL DEFAULT 'Neutral',
				sentiment_score DOUBLE PRECISION NOT NULL DEFAULT 0,
				contains_banned_words BOOLEAN NOT NULL DEFAULT false,
				banned_words_found TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(product_id, user_id)
			);

			CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id);
			CREATE INDEX IF NOT EXISTS idx_reviews_visible ON reviews(visible);
		`,
		Down: `
			DROP TABLE IF EXISTS reviews;
		`,
	},
	{
		Version: 4,
		Up: `
			CREATE TABLE IF NOT EXISTS banned_words (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				word VARCHAR(255) NOT NULL,
				severity INT NOT NULL DEFAULT 1 CHECK (severity BETWEEN 1 AND 3),
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE UNIQUE INDEX IF NOT EXISTS idx_banned_words_word ON banned_words(LOWER(word));
		`,
		Down: `
			DROP TABLE IF EXISTS banned_words;
		`,
	},
	{
		Version: 5,
		Up: `
			CREATE TABLE IF NOT EXISTS review_interactions (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				review_id UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				helpful BOOLEAN NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(review_id, user_id)
			);

			CREATE INDEX IF NOT EXISTS idx_review_interactions_review ON review_interactions(review_id);
			CREATE INDEX IF NOT EXISTS idx_review_interactions_user ON review_interactions(user_id);
		`,
		Down: `
			DROP TABLE IF EXISTS review_interactions;
		`,
	},
	{
		Version: 6,
		Up: `
			CREATE TABLE IF NOT EXISTS review_votes (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				review_id UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				helpful BOOLEAN NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(review_id, user_id)
			);

			CREATE INDEX IF NOT EXISTS idx_review_votes_review ON review_votes(review_id);
		`,
		Down: `
			DROP TABLE IF EXISTS review_votes;
		`,
	},
	{
		Version: 7,
		Up: `
			CREATE TABLE IF NOT EXISTS review_reports (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				review_id UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				reason TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(review_id, user_id)
			);

			CREATE INDEX IF NOT EXISTS idx_review_reports_review ON review_reports(review_id);
		`,
		Down: `
			DROP TABLE IF EXISTS review_reports;
		`,
	},
	{
		Version: 8,
		Up: `
			CREATE TABLE IF NOT EXISTS review_comments (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				review_id UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				comment_text TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_review_comments_review ON review_comments(review_id, created_at DESC);
		`,
		Down: `
			DROP TABLE IF EXISTS review_comments;
		`,
	},
	{
		Version: 9,
		Up: `
			CREATE TABLE IF NOT EXISTS notifications (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				message VARCHAR(255) NOT NULL,
				type VARCHAR(20) NOT NULL DEFAULT 'system',
				read BOOLEAN NOT NULL DEFAULT false,
				read_at TIMESTAMP,
				review_id UUID REFERENCES reviews(id) ON DELETE SET NULL,
				trigger_user_id UUID REFERENCES users(id) ON DELETE SET NULL,
				action_url TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE read = false;
		`,
		Down: `
			DROP TABLE IF EXISTS notifications;
		`,
	},
	{
		Version: 10,
		Up: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INT PRIMARY KEY,
				applied_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS schema_migrations;
		`,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations(db *sql.DB) error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	// Get current version
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	// Run pending migrations in ascending order by version
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	for _, migration := range sorted {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d...\n", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}
