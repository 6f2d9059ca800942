// Package directory persists named peers to a local SQLite database
// (scs.db3), letting later runs redial a peer by nickname instead of a
// full multiaddr + peer ID.
package directory

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS peer (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	addrs BLOB,
	peer_id TEXT NOT NULL UNIQUE,
	last_seen TEXT
)`

// Record is a single named peer entry.
type Record struct {
	Name     string
	Addrs    string
	PeerID   string
	LastSeen time.Time
}

// Store wraps the scs.db3 connection.
type Store struct {
	db *sql.DB
}

// Open creates (if necessary) and opens "<dataDir>/scs.db3".
func Open(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "scs.db3")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a peer record by name.
func (s *Store) Save(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO peer (name, addrs, peer_id, last_seen) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET addrs=excluded.addrs, peer_id=excluded.peer_id, last_seen=excluded.last_seen`,
		r.Name, r.Addrs, r.PeerID, r.LastSeen.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save peer %s: %w", r.Name, err)
	}
	return nil
}

// GetByName returns the peer saved under name. Matches the original CLI's
// exact error message when no such peer exists.
func (s *Store) GetByName(name string) (Record, error) {
	row := s.db.QueryRow(`SELECT name, addrs, peer_id, last_seen FROM peer WHERE name = ?`, name)
	var r Record
	var lastSeen string
	if err := row.Scan(&r.Name, &r.Addrs, &r.PeerID, &lastSeen); err != nil {
		if err == sql.ErrNoRows {
			return Record{}, fmt.Errorf("Cannot find peer with name: %s", name)
		}
		return Record{}, fmt.Errorf("query peer %s: %w", name, err)
	}
	r.LastSeen, _ = time.Parse(time.RFC3339, lastSeen)
	return r, nil
}

// GetByPeerID returns the peer saved under a given libp2p peer ID, or
// ok=false if none is stored — unlike GetByName, a miss here isn't an
// error, since callers use this for opportunistic nickname lookup.
func (s *Store) GetByPeerID(peerID string) (r Record, ok bool, err error) {
	row := s.db.QueryRow(`SELECT name, addrs, peer_id, last_seen FROM peer WHERE peer_id = ?`, peerID)
	var lastSeen string
	if scanErr := row.Scan(&r.Name, &r.Addrs, &r.PeerID, &lastSeen); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("query peer by id %s: %w", peerID, scanErr)
	}
	r.LastSeen, _ = time.Parse(time.RFC3339, lastSeen)
	return r, true, nil
}

// List returns every saved peer, ordered by name.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`SELECT name, addrs, peer_id, last_seen FROM peer ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list peers: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var lastSeen string
		if err := rows.Scan(&r.Name, &r.Addrs, &r.PeerID, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan peer row: %w", err)
		}
		r.LastSeen, _ = time.Parse(time.RFC3339, lastSeen)
		out = append(out, r)
	}
	return out, rows.Err()
}
