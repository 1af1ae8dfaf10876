package db

import "database/sql"

// MigrateUp creates the Colette schema: feeds shared across subscribing
// users, per-user subscriptions/bookmarks/tags/collections, and the job
// queue's durable lifecycle table.
func MigrateUp(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS feeds (
    id                        SERIAL PRIMARY KEY,
    source_url                TEXT NOT NULL UNIQUE,
    link                      TEXT NOT NULL DEFAULT '',
    title                     TEXT NOT NULL DEFAULT '',
    description               TEXT NOT NULL DEFAULT '',
    refresh_interval_min      INTEGER NOT NULL DEFAULT 60,
    status                    VARCHAR(20) NOT NULL DEFAULT 'pending',
    refreshed_at              TIMESTAMPTZ,
    is_custom                 BOOLEAN NOT NULL DEFAULT FALSE,
    consecutive_empty_scrapes INTEGER NOT NULL DEFAULT 0
)`,
		`CREATE TABLE IF NOT EXISTS feed_entries (
    id            SERIAL PRIMARY KEY,
    feed_id       INTEGER NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
    link          TEXT NOT NULL,
    title         TEXT NOT NULL DEFAULT '',
    published_at  TIMESTAMPTZ,
    description   TEXT NOT NULL DEFAULT '',
    author        TEXT NOT NULL DEFAULT '',
    thumbnail_url TEXT NOT NULL DEFAULT '',
    UNIQUE (feed_id, link)
)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
    id          SERIAL PRIMARY KEY,
    user_id     TEXT NOT NULL,
    feed_id     INTEGER NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
    title       TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    UNIQUE (user_id, feed_id)
)`,
		`CREATE TABLE IF NOT EXISTS read_entries (
    subscription_id INTEGER NOT NULL REFERENCES subscriptions(id) ON DELETE CASCADE,
    feed_entry_id   INTEGER NOT NULL REFERENCES feed_entries(id) ON DELETE CASCADE,
    user_id         TEXT NOT NULL,
    PRIMARY KEY (subscription_id, feed_entry_id)
)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
    id            SERIAL PRIMARY KEY,
    user_id       TEXT NOT NULL,
    link          TEXT NOT NULL,
    title         TEXT NOT NULL DEFAULT '',
    thumbnail_url TEXT NOT NULL DEFAULT '',
    published_at  TIMESTAMPTZ,
    author        TEXT NOT NULL DEFAULT '',
    archived_path TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, link)
)`,
		`CREATE TABLE IF NOT EXISTS tags (
    id      SERIAL PRIMARY KEY,
    user_id TEXT NOT NULL,
    title   TEXT NOT NULL,
    UNIQUE (user_id, title)
)`,
		`CREATE TABLE IF NOT EXISTS subscription_tags (
    subscription_id INTEGER NOT NULL REFERENCES subscriptions(id) ON DELETE CASCADE,
    tag_id          INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (subscription_id, tag_id)
)`,
		`CREATE TABLE IF NOT EXISTS bookmark_tags (
    bookmark_id INTEGER NOT NULL REFERENCES bookmarks(id) ON DELETE CASCADE,
    tag_id      INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (bookmark_id, tag_id)
)`,
		`CREATE TABLE IF NOT EXISTS collections (
    id      SERIAL PRIMARY KEY,
    user_id TEXT NOT NULL,
    title   TEXT NOT NULL,
    filter  JSONB NOT NULL DEFAULT '{}'
)`,
		`CREATE TABLE IF NOT EXISTS jobs (
    id               SERIAL PRIMARY KEY,
    type             VARCHAR(50) NOT NULL,
    data             JSONB NOT NULL DEFAULT '{}',
    status           VARCHAR(20) NOT NULL DEFAULT 'pending',
    group_identifier TEXT NOT NULL DEFAULT '',
    message          TEXT NOT NULL DEFAULT '',
    attempts         INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	indexes := []string{
		// §4.10 step 1: FindOutdated orders by refreshed_at ASC NULLS FIRST.
		`CREATE INDEX IF NOT EXISTS idx_feeds_refreshed_at ON feeds(refreshed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_feed_entries_feed_id ON feed_entries(feed_id)`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tags_user_id ON tags(user_id)`,
		// job.Repository.List filters by status and, optionally,
		// group_identifier (§4.9).
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_group_identifier ON jobs(group_identifier)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops the Colette schema in dependency order.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS jobs CASCADE`,
		`DROP TABLE IF EXISTS collections CASCADE`,
		`DROP TABLE IF EXISTS bookmark_tags CASCADE`,
		`DROP TABLE IF EXISTS subscription_tags CASCADE`,
		`DROP TABLE IF EXISTS tags CASCADE`,
		`DROP TABLE IF EXISTS bookmarks CASCADE`,
		`DROP TABLE IF EXISTS read_entries CASCADE`,
		`DROP TABLE IF EXISTS subscriptions CASCADE`,
		`DROP TABLE IF EXISTS feed_entries CASCADE`,
		`DROP TABLE IF EXISTS feeds CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
