package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/unnitin/slides/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
)

var _ driven.IndexStore = (*Store)(nil)

// Store is the SQLite-backed design index: three chunk tables with
// full-text shadow tables, phrase triggers, and the feedback log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store at the specified data directory.
// If dataDir is empty, defaults to ~/.slides/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".slides", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode: concurrent readers, one writer per handle.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies versioned .up.sql files in order, tracking the applied
// version in schema_migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Upserts ====================

// UpsertDeck inserts or replaces a deck record and refreshes its
// full-text row in the same transaction.
func (s *Store) UpsertDeck(ctx context.Context, deck *domain.DeckRecord) error {
	typeSeq, err := json.Marshal(deck.SlideTypeSequence)
	if err != nil {
		return fmt.Errorf("marshalling slide type sequence: %w", err)
	}
	tags := marshalStrings(deck.TopicTags)
	colors := marshalStrings(deck.BrandColors)
	childIDs := marshalStrings(deck.SlideChunkIDs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO deck_chunks
		(id, source_file, title, author, company, created_at, slide_count,
		 slide_type_sequence, topic_tags, template_used, brand_colors,
		 date, confidentiality, narrative_summary, audience, purpose,
		 embedding, slide_chunk_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, deck.ID, deck.SourceFile, deck.Title, deck.Author, deck.Company,
		deck.CreatedAt, deck.SlideCount, string(typeSeq), tags,
		deck.TemplateUsed, colors, deck.Date, deck.Confidentiality,
		deck.NarrativeSummary, deck.Audience, deck.Purpose,
		float32SliceToBytes(deck.Embedding), childIDs)
	if err != nil {
		return fmt.Errorf("saving deck: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM deck_fts WHERE id = ?", deck.ID); err != nil {
		return fmt.Errorf("clearing deck fts row: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO deck_fts (id, title, narrative_summary, audience, purpose, topic_tags)
		VALUES (?, ?, ?, ?, ?, ?)
	`, deck.ID, deck.Title, deck.NarrativeSummary, deck.Audience,
		deck.Purpose, strings.Join(deck.TopicTags, " "))
	if err != nil {
		return fmt.Errorf("saving deck fts row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpsertSlide inserts or replaces a slide record and refreshes its
// full-text row in the same transaction.
func (s *Store) UpsertSlide(ctx context.Context, slide *domain.SlideRecord) error {
	tags := marshalStrings(slide.TopicTags)
	palette := marshalStrings(slide.ColorPalette)
	childIDs := marshalStrings(slide.ElementChunkIDs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO slide_chunks
		(id, deck_chunk_id, slide_index, slide_name, slide_type,
		 layout_variant, background,
		 has_stats, stat_count, has_bullets, bullet_count,
		 has_columns, column_count, has_timeline, step_count,
		 has_comparison, has_image, has_icons, has_source, has_exhibit,
		 has_next_steps, next_step_count,
		 dsl_text, prev_slide_type, next_slide_type, section_name,
		 deck_position, semantic_summary, topic_tags, content_domain,
		 thumbnail_path, color_palette,
		 use_count, keep_count, edit_count, regen_count,
		 embedding, element_chunk_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		        ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, slide.ID, slide.DeckChunkID, slide.SlideIndex, slide.SlideName,
		string(slide.SlideType), slide.LayoutVariant, string(slide.Background),
		slide.HasStats, slide.StatCount, slide.HasBullets, slide.BulletCount,
		slide.HasColumns, slide.ColumnCount, slide.HasTimeline, slide.StepCount,
		slide.HasComparison, slide.HasImage, slide.HasIcons, slide.HasSource,
		slide.HasExhibit, slide.HasNextSteps, slide.NextStepCount,
		slide.DSLText, string(slide.PrevSlideType), string(slide.NextSlideType),
		slide.SectionName, string(slide.DeckPosition), slide.SemanticSummary,
		tags, slide.ContentDomain, slide.ThumbnailPath, palette,
		slide.UseCount, slide.KeepCount, slide.EditCount, slide.RegenCount,
		float32SliceToBytes(slide.Embedding), childIDs)
	if err != nil {
		return fmt.Errorf("saving slide: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM slide_fts WHERE id = ?", slide.ID); err != nil {
		return fmt.Errorf("clearing slide fts row: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO slide_fts (id, slide_name, semantic_summary, topic_tags, content_domain, dsl_text)
		VALUES (?, ?, ?, ?, ?, ?)
	`, slide.ID, slide.SlideName, slide.SemanticSummary,
		strings.Join(slide.TopicTags, " "), slide.ContentDomain, slide.DSLText)
	if err != nil {
		return fmt.Errorf("saving slide fts row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpsertElement inserts or replaces an element record and refreshes its
// full-text row in the same transaction.
func (s *Store) UpsertElement(ctx context.Context, element *domain.ElementRecord) error {
	payload, err := domain.MarshalPayload(element.Payload)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}
	treatment, err := json.Marshal(element.VisualTreatment)
	if err != nil {
		return fmt.Errorf("marshalling visual treatment: %w", err)
	}
	tags := marshalStrings(element.TopicTags)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO element_chunks
		(id, slide_chunk_id, deck_chunk_id, element_type, position_in_slide,
		 sibling_count, payload, slide_type, semantic_summary, topic_tags,
		 visual_treatment, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, element.ID, element.SlideChunkID, element.DeckChunkID,
		string(element.Type), element.PositionInSlide, element.SiblingCount,
		string(payload), string(element.SlideType), element.SemanticSummary,
		tags, string(treatment), float32SliceToBytes(element.Embedding))
	if err != nil {
		return fmt.Errorf("saving element: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM element_fts WHERE id = ?", element.ID); err != nil {
		return fmt.Errorf("clearing element fts row: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO element_fts (id, element_type, semantic_summary, topic_tags)
		VALUES (?, ?, ?, ?)
	`, element.ID, string(element.Type), element.SemanticSummary,
		strings.Join(element.TopicTags, " "))
	if err != nil {
		return fmt.Errorf("saving element fts row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Reads ====================

const deckColumns = `id, source_file, title, author, company, created_at,
	slide_count, slide_type_sequence, topic_tags, template_used, brand_colors,
	date, confidentiality, narrative_summary, audience, purpose,
	embedding, slide_chunk_ids`

// GetDeck retrieves a deck by id.
func (s *Store) GetDeck(ctx context.Context, id string) (*domain.DeckRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+deckColumns+" FROM deck_chunks WHERE id = ?", id)
	return scanDeck(row)
}

const slideColumns = `id, deck_chunk_id, slide_index, slide_name, slide_type,
	layout_variant, background,
	has_stats, stat_count, has_bullets, bullet_count,
	has_columns, column_count, has_timeline, step_count,
	has_comparison, has_image, has_icons, has_source, has_exhibit,
	has_next_steps, next_step_count,
	dsl_text, prev_slide_type, next_slide_type, section_name, deck_position,
	semantic_summary, topic_tags, content_domain, thumbnail_path, color_palette,
	use_count, keep_count, edit_count, regen_count,
	embedding, element_chunk_ids`

// GetSlide retrieves a slide by id.
func (s *Store) GetSlide(ctx context.Context, id string) (*domain.SlideRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+slideColumns+" FROM slide_chunks WHERE id = ?", id)
	return scanSlide(row)
}

const elementColumns = `id, slide_chunk_id, deck_chunk_id, element_type,
	position_in_slide, sibling_count, payload, slide_type, semantic_summary,
	topic_tags, visual_treatment, embedding`

// GetElement retrieves an element by id.
func (s *Store) GetElement(ctx context.Context, id string) (*domain.ElementRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+elementColumns+" FROM element_chunks WHERE id = ?", id)
	return scanElement(row)
}

// GetSlidesForDeck returns a deck's slides ordered by slide index.
func (s *Store) GetSlidesForDeck(ctx context.Context, deckID string) ([]domain.SlideRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+slideColumns+" FROM slide_chunks WHERE deck_chunk_id = ? ORDER BY slide_index",
		deckID)
	if err != nil {
		return nil, fmt.Errorf("querying slides: %w", err)
	}
	defer rows.Close()

	var slides []domain.SlideRecord
	for rows.Next() {
		slide, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		slides = append(slides, *slide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slides: %w", err)
	}
	return slides, nil
}

// GetElementsForSlide returns a slide's elements ordered by position.
func (s *Store) GetElementsForSlide(ctx context.Context, slideID string) ([]domain.ElementRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+elementColumns+" FROM element_chunks WHERE slide_chunk_id = ? ORDER BY position_in_slide",
		slideID)
	if err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	defer rows.Close()

	var elements []domain.ElementRecord
	for rows.Next() {
		element, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		elements = append(elements, *element)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating elements: %w", err)
	}
	return elements, nil
}

// AllEmbeddings returns every stored (id, vector) pair in a collection.
func (s *Store) AllEmbeddings(ctx context.Context, c domain.Collection) ([]driven.EmbeddingRow, error) {
	table, err := collectionTable(c)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, embedding FROM "+table+" WHERE embedding IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var result []driven.EmbeddingRow
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		result = append(result, driven.EmbeddingRow{
			ChunkID:   id,
			Embedding: bytesToFloat32Slice(blob),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}
	return result, nil
}

// SearchKeyword runs a full-text query over a collection.
func (s *Store) SearchKeyword(ctx context.Context, c domain.Collection, query string, keywords []string, limit int) ([]driven.KeywordHit, error) {
	ftsTable, err := collectionFTS(c)
	if err != nil {
		return nil, err
	}
	match := buildMatchQuery(query, keywords)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, rank FROM "+ftsTable+" WHERE "+ftsTable+" MATCH ? ORDER BY rank LIMIT ?",
		match, limit)
	if err != nil {
		// An FTS syntax error from adversarial input is an empty result.
		// Anything else is a real persistence failure and must surface.
		if isFTSQueryError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying %s: %w", ftsTable, err)
	}
	defer rows.Close()

	var hits []driven.KeywordHit
	for rows.Next() {
		var hit driven.KeywordHit
		if err := rows.Scan(&hit.ChunkID, &hit.Rank); err != nil {
			return nil, fmt.Errorf("scanning keyword hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keyword hits: %w", err)
	}
	return hits, nil
}

// filterColumns whitelists the fields each collection exposes to
// structural filtering. Unknown field names never match.
var filterColumns = map[domain.Collection]map[string]bool{
	domain.CollectionDeck: {
		"source_file": true, "title": true, "author": true, "company": true,
		"template_used": true, "date": true, "confidentiality": true,
		"audience": true, "purpose": true, "slide_count": true,
	},
	domain.CollectionSlide: {
		"slide_type": true, "layout_variant": true, "background": true,
		"prev_slide_type": true, "next_slide_type": true, "section_name": true,
		"deck_position": true, "content_domain": true, "deck_chunk_id": true,
		"has_stats": true, "stat_count": true, "has_bullets": true,
		"bullet_count": true, "has_columns": true, "column_count": true,
		"has_timeline": true, "step_count": true, "has_comparison": true,
		"has_image": true, "has_icons": true, "has_source": true,
		"has_exhibit": true, "has_next_steps": true, "next_step_count": true,
	},
	domain.CollectionElement: {
		"element_type": true, "slide_type": true, "slide_chunk_id": true,
		"deck_chunk_id": true, "position_in_slide": true, "sibling_count": true,
	},
}

// MatchFields reports whether the record's stored fields exactly match
// every filter predicate. Values are compared as text; boolean columns
// match against "0"/"1".
func (s *Store) MatchFields(ctx context.Context, c domain.Collection, id string, filters map[string]string) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}
	table, err := collectionTable(c)
	if err != nil {
		return false, err
	}
	allowed := filterColumns[c]

	cols := make([]string, 0, len(filters))
	values := make([]string, 0, len(filters))
	for field, value := range filters {
		if !allowed[field] {
			return false, nil
		}
		cols = append(cols, "CAST("+field+" AS TEXT)")
		values = append(values, value)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+strings.Join(cols, ", ")+" FROM "+table+" WHERE id = ?", id)

	stored := make([]string, len(cols))
	dest := make([]any, len(cols))
	for i := range stored {
		dest[i] = &stored[i]
	}
	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scanning filter fields: %w", err)
	}

	for i := range stored {
		if stored[i] != values[i] {
			return false, nil
		}
	}
	return true, nil
}

// ==================== Phrase triggers ====================

// RecordPhraseTrigger inserts a trigger for the normalized phrase or, on
// repeat, increments its hit counter and repoints it at the latest match.
func (s *Store) RecordPhraseTrigger(ctx context.Context, phrase, slideChunkID, elementChunkID string) error {
	normalized := domain.NormalizePhrase(phrase)
	if normalized == "" {
		return fmt.Errorf("%w: phrase normalizes to empty", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phrase_triggers
		(id, phrase, normalized_phrase, matched_slide_chunk_id,
		 matched_element_chunk_id, confidence, hit_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(normalized_phrase) DO UPDATE SET
			hit_count = hit_count + 1,
			matched_slide_chunk_id = excluded.matched_slide_chunk_id,
			matched_element_chunk_id = excluded.matched_element_chunk_id,
			updated_at = excluded.updated_at
	`, uuid.NewString(), phrase, normalized, slideChunkID, elementChunkID,
		domain.DefaultTriggerConfidence, now, now)
	if err != nil {
		return fmt.Errorf("recording phrase trigger: %w", err)
	}
	return nil
}

// GetPhraseTrigger retrieves a trigger by its normalized key.
func (s *Store) GetPhraseTrigger(ctx context.Context, normalized string) (*domain.PhraseTrigger, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, phrase, normalized_phrase, matched_slide_chunk_id,
		       matched_element_chunk_id, confidence, hit_count, created_at, updated_at
		FROM phrase_triggers WHERE normalized_phrase = ?
	`, normalized)

	var t domain.PhraseTrigger
	err := row.Scan(&t.ID, &t.Phrase, &t.NormalizedPhrase,
		&t.MatchedSlideChunkID, &t.MatchedElementChunkID,
		&t.Confidence, &t.HitCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning phrase trigger: %w", err)
	}
	return &t, nil
}

// ==================== Feedback ====================

// RecordFeedback appends an event to the feedback log and, for slide
// use/keep/edit/regen signals, increments the slide's counter in the same
// transaction.
func (s *Store) RecordFeedback(ctx context.Context, chunkID string, c domain.Collection, signal domain.FeedbackSignal, context map[string]any) error {
	if !signal.Valid() {
		return fmt.Errorf("%w: signal %q", domain.ErrInvalidInput, signal)
	}
	table, err := collectionTable(c)
	if err != nil {
		return err
	}

	var contextJSON any
	if len(context) > 0 {
		raw, err := json.Marshal(context)
		if err != nil {
			return fmt.Errorf("marshalling context: %w", err)
		}
		contextJSON = string(raw)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Feedback against an unknown chunk is a usage error, not a no-op.
	var exists int
	row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", chunkID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking chunk: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s chunk %s", domain.ErrNotFound, c, chunkID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO feedback_log (id, chunk_id, chunk_type, signal, context, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), chunkID, string(c), string(signal), contextJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("appending feedback: %w", err)
	}

	if c == domain.CollectionSlide {
		var col string
		switch signal {
		case domain.SignalUse:
			col = "use_count"
		case domain.SignalKeep:
			col = "keep_count"
		case domain.SignalEdit:
			col = "edit_count"
		case domain.SignalRegen:
			col = "regen_count"
		}
		if col != "" {
			_, err = tx.ExecContext(ctx,
				"UPDATE slide_chunks SET "+col+" = "+col+" + 1 WHERE id = ?", chunkID)
			if err != nil {
				return fmt.Errorf("updating slide counter: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Stats returns per-collection row counts.
func (s *Store) Stats(ctx context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats
	counts := []struct {
		table string
		dest  *int
	}{
		{"deck_chunks", &stats.Decks},
		{"slide_chunks", &stats.Slides},
		{"element_chunks", &stats.Elements},
		{"phrase_triggers", &stats.PhraseTriggers},
		{"feedback_log", &stats.FeedbackEvents},
	}
	for _, c := range counts {
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table)
		if err := row.Scan(c.dest); err != nil {
			return stats, fmt.Errorf("counting %s: %w", c.table, err)
		}
	}
	return stats, nil
}

// ==================== Helpers ====================

func collectionTable(c domain.Collection) (string, error) {
	switch c {
	case domain.CollectionDeck:
		return "deck_chunks", nil
	case domain.CollectionSlide:
		return "slide_chunks", nil
	case domain.CollectionElement:
		return "element_chunks", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
}

func collectionFTS(c domain.Collection) (string, error) {
	switch c {
	case domain.CollectionDeck:
		return "deck_fts", nil
	case domain.CollectionSlide:
		return "slide_fts", nil
	case domain.CollectionElement:
		return "element_fts", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
}

// buildMatchQuery turns free text plus extra keywords into an FTS5 MATCH
// expression: each term quoted, joined disjunctively.
func buildMatchQuery(query string, keywords []string) string {
	var terms []string
	for _, tok := range strings.Fields(query) {
		tok = strings.ReplaceAll(tok, `"`, "")
		if tok != "" {
			terms = append(terms, `"`+tok+`"`)
		}
	}
	for _, kw := range keywords {
		kw = strings.ReplaceAll(strings.TrimSpace(kw), `"`, "")
		if kw != "" {
			terms = append(terms, `"`+kw+`"`)
		}
	}
	return strings.Join(terms, " OR ")
}

// isFTSQueryError reports whether err is an FTS5 complaint about the MATCH
// expression itself rather than a failure of the underlying store. The
// driver exposes these only as text.
func isFTSQueryError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "fts5: syntax error") ||
		strings.Contains(msg, "unknown special query") ||
		strings.Contains(msg, "malformed MATCH expression")
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDeck(row scanner) (*domain.DeckRecord, error) {
	var d domain.DeckRecord
	var typeSeq, tags, colors, childIDs string
	var blob []byte

	err := row.Scan(&d.ID, &d.SourceFile, &d.Title, &d.Author, &d.Company,
		&d.CreatedAt, &d.SlideCount, &typeSeq, &tags, &d.TemplateUsed,
		&colors, &d.Date, &d.Confidentiality, &d.NarrativeSummary,
		&d.Audience, &d.Purpose, &blob, &childIDs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning deck: %w", err)
	}

	if err := json.Unmarshal([]byte(typeSeq), &d.SlideTypeSequence); err != nil {
		return nil, fmt.Errorf("unmarshalling slide type sequence: %w", err)
	}
	d.TopicTags = unmarshalStrings(tags)
	d.BrandColors = unmarshalStrings(colors)
	d.SlideChunkIDs = unmarshalStrings(childIDs)
	d.Embedding = bytesToFloat32Slice(blob)
	return &d, nil
}

func scanSlide(row scanner) (*domain.SlideRecord, error) {
	var sl domain.SlideRecord
	var slideType, background, prevType, nextType, position string
	var tags, palette, childIDs string
	var blob []byte

	err := row.Scan(&sl.ID, &sl.DeckChunkID, &sl.SlideIndex, &sl.SlideName,
		&slideType, &sl.LayoutVariant, &background,
		&sl.HasStats, &sl.StatCount, &sl.HasBullets, &sl.BulletCount,
		&sl.HasColumns, &sl.ColumnCount, &sl.HasTimeline, &sl.StepCount,
		&sl.HasComparison, &sl.HasImage, &sl.HasIcons, &sl.HasSource,
		&sl.HasExhibit, &sl.HasNextSteps, &sl.NextStepCount,
		&sl.DSLText, &prevType, &nextType, &sl.SectionName, &position,
		&sl.SemanticSummary, &tags, &sl.ContentDomain, &sl.ThumbnailPath,
		&palette, &sl.UseCount, &sl.KeepCount, &sl.EditCount, &sl.RegenCount,
		&blob, &childIDs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning slide: %w", err)
	}

	sl.SlideType = domain.SlideType(slideType)
	sl.Background = domain.BackgroundType(background)
	sl.PrevSlideType = domain.SlideType(prevType)
	sl.NextSlideType = domain.SlideType(nextType)
	sl.DeckPosition = domain.DeckPosition(position)
	sl.TopicTags = unmarshalStrings(tags)
	sl.ColorPalette = unmarshalStrings(palette)
	sl.ElementChunkIDs = unmarshalStrings(childIDs)
	sl.Embedding = bytesToFloat32Slice(blob)
	return &sl, nil
}

func scanElement(row scanner) (*domain.ElementRecord, error) {
	var e domain.ElementRecord
	var elementType, slideType, payload, tags, treatment string
	var blob []byte

	err := row.Scan(&e.ID, &e.SlideChunkID, &e.DeckChunkID, &elementType,
		&e.PositionInSlide, &e.SiblingCount, &payload, &slideType,
		&e.SemanticSummary, &tags, &treatment, &blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning element: %w", err)
	}

	e.Type = domain.ElementType(elementType)
	e.SlideType = domain.SlideType(slideType)
	e.TopicTags = unmarshalStrings(tags)
	e.Embedding = bytesToFloat32Slice(blob)

	e.Payload, err = domain.UnmarshalPayload(e.Type, []byte(payload))
	if err != nil {
		return nil, fmt.Errorf("unmarshalling payload: %w", err)
	}
	if treatment != "" && treatment != "{}" && treatment != "null" {
		if err := json.Unmarshal([]byte(treatment), &e.VisualTreatment); err != nil {
			return nil, fmt.Errorf("unmarshalling visual treatment: %w", err)
		}
	}
	return &e, nil
}

// marshalStrings renders a string slice as a JSON array, never null.
func marshalStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func unmarshalStrings(raw string) []string {
	if raw == "" || raw == "[]" || raw == "null" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
