package store

import "database/sql"

// Schema is the complete cache schema. Timestamps are epoch milliseconds;
// list-valued fields are delimited strings.
const Schema = `
CREATE TABLE IF NOT EXISTS news_articles (
    id                 TEXT PRIMARY KEY,
    title              TEXT NOT NULL,
    summary            TEXT NOT NULL DEFAULT '',
    content            TEXT NOT NULL DEFAULT '',
    url                TEXT NOT NULL,
    image_url          TEXT NOT NULL DEFAULT '',
    source_name        TEXT NOT NULL,
    source_icon_url    TEXT NOT NULL DEFAULT '',
    source_website     TEXT NOT NULL DEFAULT '',
    source_reliability TEXT NOT NULL DEFAULT 'COMMUNITY',
    author             TEXT NOT NULL DEFAULT '',
    published_at       INTEGER NOT NULL,
    tags               TEXT NOT NULL DEFAULT '',
    category           TEXT NOT NULL DEFAULT 'GENERAL',
    saved              INTEGER NOT NULL DEFAULT 0,
    read               INTEGER NOT NULL DEFAULT 0,
    cached_at          INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_published ON news_articles(published_at DESC);
CREATE INDEX IF NOT EXISTS idx_articles_category ON news_articles(category, published_at DESC);
CREATE INDEX IF NOT EXISTS idx_articles_cached ON news_articles(saved, cached_at DESC);

CREATE TABLE IF NOT EXISTS data_breaches (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    domain        TEXT NOT NULL DEFAULT '',
    breach_date   INTEGER NOT NULL,
    added_date    INTEGER NOT NULL,
    modified_date INTEGER,
    pwn_count     INTEGER NOT NULL DEFAULT 0,
    description   TEXT NOT NULL DEFAULT '',
    data_classes  TEXT NOT NULL DEFAULT '',
    is_verified   INTEGER NOT NULL DEFAULT 0,
    is_fabricated INTEGER NOT NULL DEFAULT 0,
    is_sensitive  INTEGER NOT NULL DEFAULT 0,
    is_retired    INTEGER NOT NULL DEFAULT 0,
    is_spam_list  INTEGER NOT NULL DEFAULT 0,
    logo_path     TEXT NOT NULL DEFAULT '',
    cached_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_breaches_date ON data_breaches(breach_date DESC);

CREATE TABLE IF NOT EXISTS cve_entries (
    id                 TEXT PRIMARY KEY,
    description        TEXT NOT NULL DEFAULT '',
    published_date     INTEGER NOT NULL,
    last_modified_date INTEGER NOT NULL,
    cvss_score         REAL,
    severity           TEXT NOT NULL DEFAULT 'NONE',
    attack_vector      TEXT NOT NULL DEFAULT '',
    affected_products  TEXT NOT NULL DEFAULT '',
    reference_urls     TEXT NOT NULL DEFAULT '',
    exploit_available  INTEGER NOT NULL DEFAULT 0,
    patch_available    INTEGER NOT NULL DEFAULT 0,
    cached_at          INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cves_published ON cve_entries(published_date DESC);
CREATE INDEX IF NOT EXISTS idx_cves_severity ON cve_entries(severity, published_date DESC);

CREATE TABLE IF NOT EXISTS cyber_events (
    id                    TEXT PRIMARY KEY,
    name                  TEXT NOT NULL,
    type                  TEXT NOT NULL,
    description           TEXT NOT NULL DEFAULT '',
    url                   TEXT NOT NULL DEFAULT '',
    image_url             TEXT NOT NULL DEFAULT '',
    organizer             TEXT NOT NULL DEFAULT '',
    start_date            INTEGER NOT NULL,
    end_date              INTEGER,
    timezone              TEXT NOT NULL DEFAULT 'UTC',
    is_online             INTEGER NOT NULL DEFAULT 0,
    location              TEXT NOT NULL DEFAULT '',
    prizes                TEXT NOT NULL DEFAULT '',
    registration_url      TEXT NOT NULL DEFAULT '',
    registration_deadline INTEGER,
    registered            INTEGER NOT NULL DEFAULT 0,
    has_reminder          INTEGER NOT NULL DEFAULT 0,
    cached_at             INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_start ON cyber_events(start_date ASC);
CREATE INDEX IF NOT EXISTS idx_events_type ON cyber_events(type, start_date ASC);
`

// ApplySchema creates all tables and indexes on the given database.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
