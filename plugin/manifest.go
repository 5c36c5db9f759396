package plugin

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/graphengine/graph"
)

// ManifestCache persists a Registry.All() snapshot to a local SQLite file and
// reads it back with Load. transport.Server does not read it: GET
// /api/node-metas always serves the live registry. Same lightweight
// file-based persistence idiom
// as a checkpoint store, applied to node-type metadata instead of
// execution state.
type ManifestCache struct {
	db        *sql.DB
	tableName string
}

// ManifestOptions configures ManifestCache's backing file.
type ManifestOptions struct {
	Path      string
	TableName string // default "node_manifest"
}

// NewManifestCache opens (creating if necessary) the SQLite file at
// opts.Path and ensures its schema exists.
func NewManifestCache(opts ManifestOptions) (*ManifestCache, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open manifest database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "node_manifest"
	}

	cache := &ManifestCache{db: db, tableName: tableName}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return cache, nil
}

func (c *ManifestCache) initSchema() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			node_type TEXT PRIMARY KEY,
			metadata  TEXT NOT NULL
		);
	`, c.tableName)
	_, err := c.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create manifest schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (c *ManifestCache) Close() error {
	return c.db.Close()
}

// Store replaces the cached manifest with a fresh snapshot of reg.
func (c *ManifestCache) Store(reg *graph.Registry) error {
	all := reg.All()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin manifest transaction: %w", err)
	}

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", c.tableName)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear manifest: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (node_type, metadata) VALUES (?, ?)", c.tableName)
	for nodeType, meta := range all {
		data, err := json.Marshal(meta)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to marshal metadata for %q: %w", nodeType, err)
		}
		if _, err := tx.Exec(insert, nodeType, string(data)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to store metadata for %q: %w", nodeType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit manifest: %w", err)
	}
	return nil
}

// Load returns the last stored manifest, keyed by node type.
func (c *ManifestCache) Load() (map[string]graph.Metadata, error) {
	rows, err := c.db.Query(fmt.Sprintf("SELECT node_type, metadata FROM %s", c.tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to query manifest: %w", err)
	}
	defer rows.Close()

	result := make(map[string]graph.Metadata)
	for rows.Next() {
		var nodeType, data string
		if err := rows.Scan(&nodeType, &data); err != nil {
			return nil, fmt.Errorf("failed to scan manifest row: %w", err)
		}
		var meta graph.Metadata
		if err := json.Unmarshal([]byte(data), &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata for %q: %w", nodeType, err)
		}
		result[nodeType] = meta
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating manifest rows: %w", err)
	}
	return result, nil
}
