package db

import (
	"database/sql"
	"strings"

	"github.com/teranos/patternkit/errors"
)

// ErrClosed reports a cache write after the connection went away, e.g. a
// watch pass still storing results while the command shuts down
var ErrClosed = errors.New("cache database is closed")

// closedMessage is what database/sql returns from a closed *sql.DB
const closedMessage = "sql: database is closed"

// Closed maps any closed-connection failure to ErrClosed, keeping format
// as context. Other errors are wrapped unchanged.
func Closed(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if isClosed(err) {
		return errors.Wrapf(ErrClosed, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

func isClosed(err error) bool {
	if errors.IsAny(err, ErrClosed, sql.ErrConnDone, sql.ErrTxDone) {
		return true
	}
	// database/sql keeps its closed error unexported
	return strings.Contains(err.Error(), closedMessage)
}
