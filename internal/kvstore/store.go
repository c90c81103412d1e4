package kvstore

import "github.com/cockroachdb/errors"

// ErrUnavailable marks failures of the underlying storage medium
var ErrUnavailable = errors.New("kvstore: storage unavailable")

// Store is a string-keyed persistent store
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// unavailable wraps err and marks it as ErrUnavailable
func unavailable(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrUnavailable)
}
