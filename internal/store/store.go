package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"briefcast/internal/core"
)

// Store persists completed digests in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the digest database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "briefcast.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	digestsTable := `
	CREATE TABLE IF NOT EXISTS digests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT,
		content TEXT,
		state TEXT,
		audio_urls TEXT,
		speech_files TEXT,
		created_at DATETIME
	);`

	if _, err := s.db.Exec(digestsTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	userIndex := `CREATE INDEX IF NOT EXISTS idx_digests_user ON digests (user_id);`
	if _, err := s.db.Exec(userIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// WriteDigest persists a completed digest. The digest is written whole in a
// single statement; nothing is persisted for a run that fails earlier.
func (s *Store) WriteDigest(digest core.Digest) error {
	audioURLs, err := json.Marshal(digest.AudioURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal audio URLs: %w", err)
	}
	speechFiles, err := json.Marshal(digest.SpeechFiles)
	if err != nil {
		return fmt.Errorf("failed to marshal speech files: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO digests
	(id, user_id, title, content, state, audio_urls, speech_files, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query,
		digest.ID,
		digest.UserID,
		digest.Title,
		digest.Content,
		digest.State,
		string(audioURLs),
		string(speechFiles),
		digest.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write digest: %w", err)
	}

	return nil
}

// GetDigest retrieves a digest by id. Returns nil without error when the
// digest does not exist.
func (s *Store) GetDigest(id string) (*core.Digest, error) {
	query := `
	SELECT id, user_id, title, content, state, audio_urls, speech_files, created_at
	FROM digests
	WHERE id = ?`

	row := s.db.QueryRow(query, id)

	var digest core.Digest
	var audioURLs, speechFiles string

	err := row.Scan(
		&digest.ID,
		&digest.UserID,
		&digest.Title,
		&digest.Content,
		&digest.State,
		&audioURLs,
		&speechFiles,
		&digest.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan digest: %w", err)
	}

	if err := json.Unmarshal([]byte(audioURLs), &digest.AudioURLs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audio URLs: %w", err)
	}
	if err := json.Unmarshal([]byte(speechFiles), &digest.SpeechFiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal speech files: %w", err)
	}

	return &digest, nil
}

// ListDigests returns the digests belonging to a user, newest first.
func (s *Store) ListDigests(userID string) ([]core.Digest, error) {
	query := `
	SELECT id, user_id, title, content, state, audio_urls, speech_files, created_at
	FROM digests
	WHERE user_id = ?
	ORDER BY created_at DESC`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query digests: %w", err)
	}
	defer rows.Close()

	var digests []core.Digest
	for rows.Next() {
		var digest core.Digest
		var audioURLs, speechFiles string

		err := rows.Scan(
			&digest.ID,
			&digest.UserID,
			&digest.Title,
			&digest.Content,
			&digest.State,
			&audioURLs,
			&speechFiles,
			&digest.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan digest: %w", err)
		}

		if err := json.Unmarshal([]byte(audioURLs), &digest.AudioURLs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audio URLs: %w", err)
		}
		if err := json.Unmarshal([]byte(speechFiles), &digest.SpeechFiles); err != nil {
			return nil, fmt.Errorf("failed to unmarshal speech files: %w", err)
		}

		digests = append(digests, digest)
	}

	return digests, rows.Err()
}
