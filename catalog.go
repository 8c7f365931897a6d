package romgfx

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog records every successful extraction so a stream doesn't need to
// be decoded again.
type Catalog struct {
	db *sql.DB
}

// Entry is a single extraction. Data holds the decoded buffer and is only
// populated by Lookup.
type Entry struct {
	SHA1           string
	Name           string
	Address        int64
	CompressedSize int64
	DecodedSize    int
	Data           []byte
}

var zstdEncPool = sync.Pool{
	New: func() interface{} {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			panic(err)
		}
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() interface{} {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
		if err != nil {
			panic(err)
		}
		return dec
	},
}

func compressZstd(data []byte) []byte {
	// Non-nil so sqlite stores an empty blob rather than NULL
	if len(data) == 0 {
		return []byte{}
	}

	enc := zstdEncPool.Get().(*zstd.Encoder)
	defer zstdEncPool.Put(enc)
	return enc.EncodeAll(data, nil)
}

func decompressZstd(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)
	return dec.DecodeAll(data, nil)
}

// NewCatalog opens or creates the catalogue database in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// Batch workers share the handle, keep sqlite writes serialised
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, name TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS extraction (id INTEGER PRIMARY KEY NOT NULL, source_id INTEGER NOT NULL, address INTEGER NOT NULL, compressed_size INTEGER NOT NULL, decoded_size INTEGER NOT NULL, data BLOB NOT NULL, UNIQUE(source_id, address), FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// addSource returns the id for sha, creating the row if needed. Batch
// workers can race to add the same source so the insert tolerates an
// existing row.
func (c *Catalog) addSource(sha, name string) (int64, error) {
	if _, err := c.db.Exec("INSERT OR IGNORE INTO source (sha1, name) VALUES (?, ?)", sha, name); err != nil {
		return 0, err
	}

	var id int64
	if err := c.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Record stores e, replacing any earlier extraction from the same address.
func (c *Catalog) Record(e Entry) error {
	source, err := c.addSource(e.SHA1, e.Name)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO extraction (source_id, address, compressed_size, decoded_size, data) VALUES (?, ?, ?, ?, ?)", source, e.Address, e.CompressedSize, len(e.Data), compressZstd(e.Data)); err != nil {
		return err
	}
	return nil
}

// Lookup returns the extraction for the given source and address, or nil
// if there isn't one.
func (c *Catalog) Lookup(sha string, address int64) (*Entry, error) {
	e := Entry{
		SHA1:    sha,
		Address: address,
	}
	var blob []byte
	switch err := c.db.QueryRow("SELECT s.name, x.compressed_size, x.decoded_size, x.data FROM extraction AS x JOIN source AS s ON x.source_id = s.id WHERE s.sha1 = ? AND x.address = ?", sha, address).Scan(&e.Name, &e.CompressedSize, &e.DecodedSize, &blob); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		data, err := decompressZstd(blob)
		if err != nil {
			return nil, err
		}
		if len(data) != e.DecodedSize {
			return nil, fmt.Errorf("catalogue entry for %s at %#x is corrupt", sha, address)
		}
		e.Data = data
		return &e, nil
	default:
		return nil, err
	}
}

// List returns every recorded extraction ordered by source and address,
// without the decoded data.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query("SELECT s.sha1, s.name, x.address, x.compressed_size, x.decoded_size FROM extraction AS x JOIN source AS s ON x.source_id = s.id ORDER BY s.name, x.address")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SHA1, &e.Name, &e.Address, &e.CompressedSize, &e.DecodedSize); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
