// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

// Package trend implements the trending/breaking news detection pipeline:
// baseline loading, mention ingestion and deduplication, topic
// aggregation, phrase clustering, quality gating, velocity/z-score
// scoring, breaking-path classification, and batched persistence under
// a wall-clock execution budget.
//
// The package consumes its inputs exclusively through the reader/writer
// interfaces declared in store.go; it never assumes a particular
// relational backend, ingestion pipeline, or caller. A run is driven by
// Engine.Run, which executes the phases in the fixed order described in
// the package-level design notes below:
//
//	load aliases -> load tier tables -> load baselines -> load mentions
//	-> load prior events/embeddings -> aggregate -> cluster -> score
//	-> persist
//
// No phase begins before its predecessor completes; within a phase,
// reads from distinct sources may run concurrently but are joined
// before the next phase starts.
package trend
