// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"context"
	"database/sql"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/trendline/detector/internal/logging"
)

// DuckDBStore implements Store against a DuckDB-compatible
// database/sql connection (relational-store collaborator).
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore wraps an already-opened *sql.DB.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

// fieldSep separates list elements packed into a single TEXT column.
// DuckDB supports native LIST columns, but the teacher's store layer
// favors a single flat TEXT column plus a join/split pair over nested
// array bind parameters, so this keeps that convention.
const fieldSep = "\x1f"

func joinStrings(vals []string) string { return strings.Join(vals, fieldSep) }
func splitStrings(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, fieldSep)
}

// scannable is the minimal interface shared by *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...interface{}) error
}

func scanArticleRow(s scannable, r *ArticleRow) error {
	var extractedJSON, tagsJoined sql.NullString
	var sentiment sql.NullFloat64
	var sentimentLabel sql.NullString
	var headline sql.NullString
	if err := s.Scan(
		&r.ID, &r.Title, &headline, &r.PublishedAt, &r.PublisherDomain,
		&r.CanonicalURL, &sentiment, &sentimentLabel, &extractedJSON, &tagsJoined,
	); err != nil {
		return err
	}
	r.Headline = headline.String
	if sentiment.Valid {
		v := sentiment.Float64
		r.SentimentScore = &v
	}
	r.SentimentLabel = SentimentLabel(sentimentLabel.String)
	if extractedJSON.Valid {
		var topics []RawTopic
		if err := json.Unmarshal([]byte(extractedJSON.String), &topics); err == nil {
			r.ExtractedTopics = topics
		} else {
			r.ExtractedTopics = []RawTopic{}
		}
	}
	if tagsJoined.Valid {
		r.Tags = splitStrings(tagsJoined.String)
	}
	return nil
}

const articleSelectColumns = `
	id, title, COALESCE(headline, '') as headline, published_at,
	COALESCE(publisher_domain, '') as publisher_domain,
	COALESCE(canonical_url, '') as canonical_url,
	sentiment_score, COALESCE(sentiment_label, '') as sentiment_label,
	extracted_topics, tags_joined`

// LoadArticles implements ArticleReader.
func (s *DuckDBStore) LoadArticles(ctx context.Context, since time.Time, limit int) ([]ArticleRow, error) {
	query := `SELECT ` + articleSelectColumns + `
		FROM articles WHERE published_at >= ?
		ORDER BY published_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArticleRow
	for rows.Next() {
		var r ArticleRow
		if err := scanArticleRow(rows, &r); err != nil {
			logging.Error().Err(err).Msg("failed to scan article row")
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadAggregatorItems implements AggregatorReader.
func (s *DuckDBStore) LoadAggregatorItems(ctx context.Context, since time.Time, limit int) ([]AggregatorRow, error) {
	query := `SELECT id, title, COALESCE(headline, '') as headline, published_at,
		COALESCE(redirect_host, '') as redirect_host,
		COALESCE(canonical_url, '') as canonical_url,
		sentiment_score, COALESCE(sentiment_label, '') as sentiment_label,
		extracted_topics, tags_joined
		FROM aggregator_items WHERE published_at >= ?
		ORDER BY published_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AggregatorRow
	for rows.Next() {
		var r AggregatorRow
		var extractedJSON, tagsJoined sql.NullString
		var sentiment sql.NullFloat64
		var sentimentLabel sql.NullString
		var headline sql.NullString
		if err := rows.Scan(&r.ID, &r.Title, &headline, &r.PublishedAt, &r.RedirectHost,
			&r.CanonicalURL, &sentiment, &sentimentLabel, &extractedJSON, &tagsJoined); err != nil {
			logging.Error().Err(err).Msg("failed to scan aggregator row")
			continue
		}
		r.Headline = headline.String
		if sentiment.Valid {
			v := sentiment.Float64
			r.SentimentScore = &v
		}
		r.SentimentLabel = SentimentLabel(sentimentLabel.String)
		if extractedJSON.Valid {
			var topics []RawTopic
			if err := json.Unmarshal([]byte(extractedJSON.String), &topics); err == nil {
				r.ExtractedTopics = topics
			} else {
				r.ExtractedTopics = []RawTopic{}
			}
		}
		if tagsJoined.Valid {
			r.Tags = splitStrings(tagsJoined.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadSocialPosts implements SocialReader.
func (s *DuckDBStore) LoadSocialPosts(ctx context.Context, since time.Time, limit int) ([]SocialRow, error) {
	query := `SELECT id, text, published_at, sentiment_score,
		COALESCE(sentiment_label, '') as sentiment_label, topics
		FROM social_posts WHERE published_at >= ?
		ORDER BY published_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SocialRow
	for rows.Next() {
		var r SocialRow
		var sentiment sql.NullFloat64
		var sentimentLabel sql.NullString
		var topicsJSON sql.NullString
		if err := rows.Scan(&r.ID, &r.Text, &r.PublishedAt, &sentiment, &sentimentLabel, &topicsJSON); err != nil {
			logging.Error().Err(err).Msg("failed to scan social row")
			continue
		}
		if sentiment.Valid {
			v := sentiment.Float64
			r.SentimentScore = &v
		}
		r.SentimentLabel = SentimentLabel(sentimentLabel.String)
		if topicsJSON.Valid {
			var topics []RawTopic
			if err := json.Unmarshal([]byte(topicsJSON.String), &topics); err == nil {
				r.Topics = topics
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadAliases implements AliasReader.
func (s *DuckDBStore) LoadAliases(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT surface_form, canonical_title FROM topic_aliases`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var surface, canonical string
		if err := rows.Scan(&surface, &canonical); err != nil {
			continue
		}
		out[surface] = canonical
	}
	return out, rows.Err()
}

// LoadTierOverrides implements TierReader.
func (s *DuckDBStore) LoadTierOverrides(ctx context.Context) ([]string, []string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT domain, tier FROM publisher_tier_overrides`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var tier1, tier2 []string
	for rows.Next() {
		var domain, tier string
		if err := rows.Scan(&domain, &tier); err != nil {
			continue
		}
		switch Tier(tier) {
		case Tier1:
			tier1 = append(tier1, domain)
		case Tier2:
			tier2 = append(tier2, domain)
		}
	}
	return tier1, tier2, rows.Err()
}

// LoadBaselines implements BaselineReader. An empty keys slice preloads
// every event key's history (load-baselines phase runs
// before topic keys are known from this run's mentions); a non-empty
// slice restricts the query to those keys.
func (s *DuckDBStore) LoadBaselines(ctx context.Context, keys []string, asOf time.Time) (map[string][]DailyRollup, error) {
	var query string
	args := make([]interface{}, 0, len(keys)+1)

	if len(keys) == 0 {
		query = `SELECT event_key, baseline_date, mentions_count, hourly_average,
			hourly_std_dev, relative_std_dev, news_mentions, social_mentions
			FROM trend_baselines
			WHERE baseline_date < ?
			ORDER BY baseline_date DESC`
		args = append(args, asOf)
	} else {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
		for _, k := range keys {
			args = append(args, k)
		}
		args = append(args, asOf)

		query = `SELECT event_key, baseline_date, mentions_count, hourly_average,
			hourly_std_dev, relative_std_dev, news_mentions, social_mentions
			FROM trend_baselines
			WHERE event_key IN (` + placeholders + `) AND baseline_date < ?
			ORDER BY baseline_date DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]DailyRollup)
	for rows.Next() {
		var r DailyRollup
		if err := rows.Scan(&r.Key, &r.Date, &r.MentionsCount, &r.HourlyAverage,
			&r.HourlyStdDev, &r.RelativeStdDev, &r.NewsMentions, &r.SocialMentions); err != nil {
			logging.Error().Err(err).Msg("failed to scan baseline rollup row")
			continue
		}
		out[r.Key] = append(out[r.Key], r)
	}
	return out, rows.Err()
}

// LoadPriorEmbeddings implements PriorEventReader.
func (s *DuckDBStore) LoadPriorEmbeddings(ctx context.Context, maxEvents int) ([]PriorEmbedding, error) {
	query := `SELECT event_key, embedding FROM trend_events
		WHERE embedding IS NOT NULL AND last_seen_at >= ?
		ORDER BY last_seen_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, time.Now().Add(-7*24*time.Hour), maxEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriorEmbedding
	for rows.Next() {
		var key string
		var embeddingJSON string
		if err := rows.Scan(&key, &embeddingJSON); err != nil {
			continue
		}
		var emb []float64
		if err := json.Unmarshal([]byte(embeddingJSON), &emb); err != nil {
			continue
		}
		out = append(out, PriorEmbedding{Key: key, Embedding: emb})
	}
	return out, rows.Err()
}

const trendEventUpsertSQL = `
	INSERT INTO trend_events (
		event_key, event_title, canonical_label, is_event_phrase, label_quality,
		label_source, related_entities, related_phrases, context_terms,
		context_phrases, context_summary, cluster_id, first_seen_at,
		last_seen_at, peak_at, baseline_7d, baseline_30d, current_1h,
		current_6h, current_24h, velocity, velocity_1h, velocity_6h,
		acceleration, trend_score, z_score_velocity, confidence_score,
		rank_score, recency_decay, evergreen_penalty, confidence_factors,
		is_trending, is_breaking, trend_stage, source_count,
		news_source_count, social_source_count, corroboration_score,
		evidence_count, top_headline, sentiment_score, sentiment_label,
		tier1_count, tier2_count, tier3_count, weighted_evidence_score,
		has_tier12_corroboration, is_tier3_only, updated_at
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	ON CONFLICT (event_key) DO UPDATE SET
		event_title = EXCLUDED.event_title,
		canonical_label = EXCLUDED.canonical_label,
		is_event_phrase = EXCLUDED.is_event_phrase,
		label_quality = EXCLUDED.label_quality,
		label_source = EXCLUDED.label_source,
		related_entities = EXCLUDED.related_entities,
		related_phrases = EXCLUDED.related_phrases,
		context_terms = EXCLUDED.context_terms,
		context_phrases = EXCLUDED.context_phrases,
		context_summary = EXCLUDED.context_summary,
		cluster_id = EXCLUDED.cluster_id,
		last_seen_at = EXCLUDED.last_seen_at,
		peak_at = EXCLUDED.peak_at,
		baseline_7d = EXCLUDED.baseline_7d,
		baseline_30d = EXCLUDED.baseline_30d,
		current_1h = EXCLUDED.current_1h,
		current_6h = EXCLUDED.current_6h,
		current_24h = EXCLUDED.current_24h,
		velocity = EXCLUDED.velocity,
		velocity_1h = EXCLUDED.velocity_1h,
		velocity_6h = EXCLUDED.velocity_6h,
		acceleration = EXCLUDED.acceleration,
		trend_score = EXCLUDED.trend_score,
		z_score_velocity = EXCLUDED.z_score_velocity,
		confidence_score = EXCLUDED.confidence_score,
		rank_score = EXCLUDED.rank_score,
		recency_decay = EXCLUDED.recency_decay,
		evergreen_penalty = EXCLUDED.evergreen_penalty,
		confidence_factors = EXCLUDED.confidence_factors,
		is_trending = EXCLUDED.is_trending,
		is_breaking = EXCLUDED.is_breaking,
		trend_stage = EXCLUDED.trend_stage,
		source_count = EXCLUDED.source_count,
		news_source_count = EXCLUDED.news_source_count,
		social_source_count = EXCLUDED.social_source_count,
		corroboration_score = EXCLUDED.corroboration_score,
		evidence_count = EXCLUDED.evidence_count,
		top_headline = EXCLUDED.top_headline,
		sentiment_score = EXCLUDED.sentiment_score,
		sentiment_label = EXCLUDED.sentiment_label,
		tier1_count = EXCLUDED.tier1_count,
		tier2_count = EXCLUDED.tier2_count,
		tier3_count = EXCLUDED.tier3_count,
		weighted_evidence_score = EXCLUDED.weighted_evidence_score,
		has_tier12_corroboration = EXCLUDED.has_tier12_corroboration,
		is_tier3_only = EXCLUDED.is_tier3_only,
		updated_at = EXCLUDED.updated_at`

// UpsertTrendEvents implements TrendEventWriter. Each event is written
// in its own statement execution within the batch so a single bad row
// does not fail its whole batch; callers already chunk into
// fixed-size batches (persister.go).
func (s *DuckDBStore) UpsertTrendEvents(ctx context.Context, events []TrendEvent) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, trendEventUpsertSQL)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, e := range events {
		factorsJSON, _ := json.Marshal(e.ConfidenceFactors)
		var peakAt interface{}
		if e.PeakAt != nil {
			peakAt = *e.PeakAt
		}
		var clusterID interface{}
		if e.ClusterID != nil {
			clusterID = *e.ClusterID
		}
		var sentimentScore interface{}
		if e.SentimentScore != nil {
			sentimentScore = *e.SentimentScore
		}
		_, execErr := stmt.ExecContext(ctx,
			e.EventKey, e.EventTitle, e.CanonicalLabel, e.IsEventPhrase, string(e.LabelQuality),
			e.LabelSource, joinStrings(e.RelatedEntities), joinStrings(e.RelatedPhrases),
			joinStrings(e.ContextTerms), joinStrings(e.ContextPhrases), e.ContextSummary,
			clusterID, e.FirstSeen, e.LastSeen, peakAt, e.Baseline7d, e.Baseline30d,
			e.Current1h, e.Current6h, e.Current24h, e.Velocity, e.Velocity1h, e.Velocity6h,
			e.Acceleration, e.TrendScore, e.ZScoreVelocity, e.ConfidenceScore, e.RankScore,
			e.RecencyDecay, e.EvergreenPenalty, string(factorsJSON), e.IsTrending, e.IsBreaking,
			string(e.TrendStage), e.SourceCount, e.NewsSourceCount, e.SocialSourceCount,
			e.CorroborationScore, e.EvidenceCount, e.TopHeadline, sentimentScore,
			string(e.SentimentLabel), e.Tier1Count, e.Tier2Count, e.Tier3Count,
			e.WeightedEvidenceScore, e.HasTier12Corroboration, e.IsTier3Only, e.UpdatedAt,
		)
		if execErr != nil {
			logging.Error().Err(execErr).Str("event_key", e.EventKey).Msg("event upsert failed, continuing batch")
			continue
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return n, err
	}
	return n, nil
}

// ReplaceEvidence implements EvidenceWriter: delete then reinsert,
// transactional per event ("old evidence ... deleted and
// rewritten on each run (transactionally per event batch)").
func (s *DuckDBStore) ReplaceEvidence(ctx context.Context, eventKey string, evidence []Evidence) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trend_evidence WHERE event_key = ?`, eventKey); err != nil {
		tx.Rollback()
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trend_evidence (
		event_key, source_type, source_id, source_url, source_title,
		source_domain, published_at, contribution_score, is_primary,
		canonical_url, content_hash, sentiment_score, sentiment_label, source_tier
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, ev := range evidence {
		var sentimentScore interface{}
		if ev.SentimentScore != nil {
			sentimentScore = *ev.SentimentScore
		}
		if _, err := stmt.ExecContext(ctx, ev.EventKey, string(ev.SourceType), ev.SourceID,
			ev.SourceURL, ev.SourceTitle, ev.SourceDomain, ev.PublishedAt, ev.ContributionScore,
			ev.IsPrimary, ev.CanonicalURL, ev.ContentHash, sentimentScore, string(ev.SentimentLabel),
			string(ev.SourceTier)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// UpsertClusters implements ClusterWriter.
func (s *DuckDBStore) UpsertClusters(ctx context.Context, clusters []*PhraseCluster) (int, error) {
	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO trend_phrase_clusters (
		canonical_phrase, member_phrases, member_event_keys, similarity_threshold,
		total_mentions, top_authority_score, updated_at
	) VALUES (?,?,?,?,?,?,?)
	ON CONFLICT (canonical_phrase) DO UPDATE SET
		member_phrases = EXCLUDED.member_phrases,
		member_event_keys = EXCLUDED.member_event_keys,
		total_mentions = EXCLUDED.total_mentions,
		top_authority_score = EXCLUDED.top_authority_score,
		updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, c := range clusters {
		titles := make([]string, 0, len(c.MemberTitles))
		for t := range c.MemberTitles {
			titles = append(titles, t)
		}
		keys := make([]string, 0, len(c.MemberKeys))
		for k := range c.MemberKeys {
			keys = append(keys, k)
		}
		_, err := stmt.ExecContext(ctx, c.CanonicalTitle, joinStrings(titles), joinStrings(keys),
			textSimilarityThreshold, c.TotalDeduped, c.TopAuthority, time.Now())
		if err != nil {
			logging.Error().Err(err).Str("canonical_phrase", c.CanonicalTitle).Msg("cluster upsert failed")
			continue
		}
		n++
	}
	return n, nil
}

// UpsertBaselineRollup implements BaselineWriter.
func (s *DuckDBStore) UpsertBaselineRollup(ctx context.Context, rollups []DailyRollup) error {
	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO trend_baselines (
		event_key, baseline_date, mentions_count, hourly_average,
		hourly_std_dev, relative_std_dev, news_mentions, social_mentions
	) VALUES (?,?,?,?,?,?,?,?)
	ON CONFLICT (event_key, baseline_date) DO UPDATE SET
		mentions_count = EXCLUDED.mentions_count,
		hourly_average = EXCLUDED.hourly_average,
		hourly_std_dev = EXCLUDED.hourly_std_dev,
		relative_std_dev = EXCLUDED.relative_std_dev,
		news_mentions = EXCLUDED.news_mentions,
		social_mentions = EXCLUDED.social_mentions`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rollups {
		if _, err := stmt.ExecContext(ctx, r.Key, r.Date, r.MentionsCount, r.HourlyAverage,
			r.HourlyStdDev, r.RelativeStdDev, r.NewsMentions, r.SocialMentions); err != nil {
			logging.Error().Err(err).Str("event_key", r.Key).Msg("baseline rollup upsert failed")
			continue
		}
	}
	return nil
}
