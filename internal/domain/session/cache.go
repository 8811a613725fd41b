package session

import (
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/go-faster/errors"
)

const (
	cacheBucket = "session"
	keyToken    = "token"
	keyProfile  = "profile"
)

// Cache is the durable session store: a single-bucket bolt database holding
// the bearer token and the last known profile. It is the desktop analogue of
// the browser's localStorage entries.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open session cache")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cacheBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create session bucket")
	}
	return &Cache{db: db}, nil
}

// Close releases the database file lock.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Save stores the token and profile, replacing any previous session.
func (c *Cache) Save(token string, id *Identity) error {
	profile, err := json.Marshal(id)
	if err != nil {
		return errors.Wrap(err, "encode profile")
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cacheBucket))
		if err := b.Put([]byte(keyToken), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(keyProfile), profile)
	})
}

// Load returns the cached token and profile. A missing session yields an
// empty token and nil identity, not an error.
func (c *Cache) Load() (string, *Identity, error) {
	var (
		token string
		id    *Identity
	)
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cacheBucket))
		if v := b.Get([]byte(keyToken)); v != nil {
			token = string(v)
		}
		if v := b.Get([]byte(keyProfile)); v != nil {
			var cached Identity
			if err := json.Unmarshal(v, &cached); err != nil {
				return errors.Wrap(err, "decode profile")
			}
			id = &cached
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return token, id, nil
}

// Clear removes the stored session.
func (c *Cache) Clear() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cacheBucket))
		if err := b.Delete([]byte(keyToken)); err != nil {
			return err
		}
		return b.Delete([]byte(keyProfile))
	})
}
