// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InitSchema creates every table DuckDBStore reads and writes, if it
// does not already exist. Call once at startup before serving traffic.
func InitSchema(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	for _, query := range schemaQueries() {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %s: %w", query, err)
		}
	}
	return nil
}

// schemaQueries returns the table creation statements for the source
// collaborators (articles, aggregator_items, social_posts), the alias
// and tier override tables, and the detector's own persisted state
// (trend_events, trend_evidence, trend_phrase_clusters, trend_baselines).
func schemaQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			headline TEXT,
			published_at TIMESTAMP NOT NULL,
			publisher_domain TEXT,
			canonical_url TEXT,
			sentiment_score DOUBLE,
			sentiment_label TEXT,
			extracted_topics TEXT,
			tags_joined TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles (published_at)`,

		`CREATE TABLE IF NOT EXISTS aggregator_items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			headline TEXT,
			published_at TIMESTAMP NOT NULL,
			redirect_host TEXT,
			canonical_url TEXT,
			sentiment_score DOUBLE,
			sentiment_label TEXT,
			extracted_topics TEXT,
			tags_joined TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_aggregator_items_published_at ON aggregator_items (published_at)`,

		`CREATE TABLE IF NOT EXISTS social_posts (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			published_at TIMESTAMP NOT NULL,
			sentiment_score DOUBLE,
			sentiment_label TEXT,
			topics TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_social_posts_published_at ON social_posts (published_at)`,

		`CREATE TABLE IF NOT EXISTS topic_aliases (
			surface_form TEXT PRIMARY KEY,
			canonical_title TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS publisher_tier_overrides (
			domain TEXT PRIMARY KEY,
			tier TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS trend_events (
			event_key TEXT PRIMARY KEY,
			event_title TEXT NOT NULL,
			canonical_label TEXT,
			is_event_phrase BOOLEAN,
			label_quality TEXT,
			label_source TEXT,
			related_entities TEXT,
			related_phrases TEXT,
			context_terms TEXT,
			context_phrases TEXT,
			context_summary TEXT,
			cluster_id TEXT,
			first_seen_at TIMESTAMP,
			last_seen_at TIMESTAMP,
			peak_at TIMESTAMP,
			baseline_7d DOUBLE,
			baseline_30d DOUBLE,
			current_1h INTEGER,
			current_6h INTEGER,
			current_24h INTEGER,
			velocity DOUBLE,
			velocity_1h DOUBLE,
			velocity_6h DOUBLE,
			acceleration DOUBLE,
			trend_score DOUBLE,
			z_score_velocity DOUBLE,
			confidence_score DOUBLE,
			rank_score DOUBLE,
			recency_decay DOUBLE,
			evergreen_penalty DOUBLE,
			confidence_factors TEXT,
			is_trending BOOLEAN,
			is_breaking BOOLEAN,
			trend_stage TEXT,
			source_count INTEGER,
			news_source_count INTEGER,
			social_source_count INTEGER,
			corroboration_score DOUBLE,
			evidence_count INTEGER,
			top_headline TEXT,
			sentiment_score DOUBLE,
			sentiment_label TEXT,
			tier1_count INTEGER,
			tier2_count INTEGER,
			tier3_count INTEGER,
			weighted_evidence_score DOUBLE,
			has_tier12_corroboration BOOLEAN,
			is_tier3_only BOOLEAN,
			embedding TEXT,
			updated_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_events_last_seen_at ON trend_events (last_seen_at)`,

		`CREATE TABLE IF NOT EXISTS trend_evidence (
			event_key TEXT NOT NULL,
			source_type TEXT NOT NULL,
			source_id TEXT NOT NULL,
			source_url TEXT,
			source_title TEXT,
			source_domain TEXT,
			published_at TIMESTAMP,
			contribution_score DOUBLE,
			is_primary BOOLEAN,
			canonical_url TEXT,
			content_hash TEXT,
			sentiment_score DOUBLE,
			sentiment_label TEXT,
			source_tier TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_evidence_event_key ON trend_evidence (event_key)`,

		`CREATE TABLE IF NOT EXISTS trend_phrase_clusters (
			canonical_phrase TEXT PRIMARY KEY,
			member_phrases TEXT,
			member_event_keys TEXT,
			similarity_threshold DOUBLE,
			total_mentions INTEGER,
			top_authority_score DOUBLE,
			updated_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS trend_baselines (
			event_key TEXT NOT NULL,
			baseline_date DATE NOT NULL,
			mentions_count INTEGER,
			hourly_average DOUBLE,
			hourly_std_dev DOUBLE,
			relative_std_dev DOUBLE,
			news_mentions INTEGER,
			social_mentions INTEGER,
			PRIMARY KEY (event_key, baseline_date)
		)`,
	}
}
