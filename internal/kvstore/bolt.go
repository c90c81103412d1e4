package kvstore

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("photogrip")

// Bolt is a Store backed by a single bbolt file
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the store at path.
// Errors are marked ErrUnavailable.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, unavailable(err, "create store directory")
	}

	// A second running instance holds the file lock; fail fast instead of hanging.
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, unavailable(err, "open store %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, unavailable(err, "create bucket")
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, unavailable(err, "get %q", key)
	}
	return value, found, nil
}

func (b *Bolt) Set(key, value string) error {
	if key == "" {
		return errors.New("kvstore: empty key")
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return unavailable(err, "set %q", key)
	}
	return nil
}

func (b *Bolt) Delete(key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return unavailable(err, "delete %q", key)
	}
	return nil
}

// Keys returns all keys in byte order
func (b *Bolt) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, unavailable(err, "list keys")
	}
	return keys, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
