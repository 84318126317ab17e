package imgflip

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bodgit/imgflip/img"
	_ "github.com/mattn/go-sqlite3"
)

// Conversion is a single entry in the catalog.
type Conversion struct {
	Source      string
	Destination string
	Flip        Flip
	// Hash and Header are only set if the source was decoded
	Hash    string
	Header  *img.Header
	Err     string
	Created time.Time
}

// Catalog is an SQLite database of every conversion performed along with
// the images that were read.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens, creating if necessary, the catalog stored in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Batch workers write concurrently
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, hash TEXT NOT NULL UNIQUE, byte_order INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, format INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, image_id INTEGER, source TEXT NOT NULL, destination TEXT NOT NULL, flip_h INTEGER NOT NULL, flip_v INTEGER NOT NULL, error TEXT, created INTEGER NOT NULL, FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) addImage(hash string, h *img.Header) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM image WHERE hash = ?", hash).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO image (hash, byte_order, width, height, format) VALUES (?, ?, ?, ?, ?)", hash, h.Order, h.Width, h.Height, h.Format)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Record stores conv in the catalog.
func (c *Catalog) Record(conv Conversion) error {
	var image sql.NullInt64
	if conv.Header != nil && conv.Hash != "" {
		id, err := c.addImage(conv.Hash, conv.Header)
		if err != nil {
			return err
		}
		image.Int64, image.Valid = id, true
	}

	var msg sql.NullString
	if conv.Err != "" {
		msg.String, msg.Valid = conv.Err, true
	}

	if _, err := c.db.Exec("INSERT INTO conversion (image_id, source, destination, flip_h, flip_v, error, created) VALUES (?, ?, ?, ?, ?, ?, ?)", image, conv.Source, conv.Destination, conv.Flip.Horizontal, conv.Flip.Vertical, msg, conv.Created.UnixNano()); err != nil {
		return err
	}

	return nil
}

// History returns up to limit conversions, most recent first. A limit of
// zero or less returns everything.
func (c *Catalog) History(limit int) ([]Conversion, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := c.db.Query("SELECT c.source, c.destination, c.flip_h, c.flip_v, c.error, c.created, i.hash, i.byte_order, i.width, i.height, i.format FROM conversion AS c LEFT JOIN image AS i ON c.image_id = i.id ORDER BY c.id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []Conversion
	for rows.Next() {
		var conv Conversion
		var msg, hash sql.NullString
		var order, width, height, format sql.NullInt64
		var created int64
		if err := rows.Scan(&conv.Source, &conv.Destination, &conv.Flip.Horizontal, &conv.Flip.Vertical, &msg, &created, &hash, &order, &width, &height, &format); err != nil {
			return nil, err
		}
		conv.Err = msg.String
		conv.Created = time.Unix(0, created)
		if hash.Valid {
			conv.Hash = hash.String
			conv.Header = &img.Header{
				Order:  img.ByteOrder(order.Int64),
				Width:  uint16(width.Int64),
				Height: uint16(height.Int64),
				Format: img.Format(format.Int64),
			}
		}
		history = append(history, conv)
	}

	return history, rows.Err()
}

// FindByHash returns the header of a previously converted image with the
// given hash, or nil if there is none.
func (c *Catalog) FindByHash(hash string) (*img.Header, error) {
	var order, width, height, format int64
	switch err := c.db.QueryRow("SELECT byte_order, width, height, format FROM image WHERE hash = ?", hash).Scan(&order, &width, &height, &format); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &img.Header{
			Order:  img.ByteOrder(order),
			Width:  uint16(width),
			Height: uint16(height),
			Format: img.Format(format),
		}, nil
	default:
		return nil, err
	}
}
