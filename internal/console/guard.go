package console

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBlockedKeyword is returned for statements that may never run from the
// console.
var ErrBlockedKeyword = errors.New("statement contains a blocked keyword")

// ErrEmptyStatement is returned for blank input.
var ErrEmptyStatement = errors.New("query is empty")

var blockedKeywords = []string{"drop", "truncate", "delete from", "alter table"}

var readPrefixes = []string{"select", "with", "show", "explain"}

// Blocked returns the first blocked keyword contained in sql.
func Blocked(sql string) (string, bool) {
	s := strings.ToLower(sql)
	for _, kw := range blockedKeywords {
		if strings.Contains(s, kw) {
			return kw, true
		}
	}
	return "", false
}

// IsRead reports whether sql starts with a read-only verb.
func IsRead(sql string) bool {
	s := strings.ToLower(strings.TrimSpace(sql))
	for _, p := range readPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Check rejects empty and blocked statements and reports whether the
// statement is a read.
func Check(sql string) (read bool, err error) {
	if strings.TrimSpace(sql) == "" {
		return false, ErrEmptyStatement
	}
	if kw, blocked := Blocked(sql); blocked {
		return false, fmt.Errorf("%w: %s", ErrBlockedKeyword, strings.ToUpper(kw))
	}
	return IsRead(sql), nil
}
