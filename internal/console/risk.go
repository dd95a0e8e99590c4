package console

import (
	"regexp"
	"strings"
)

// Risk is the display classification of a statement.
type Risk string

const (
	RiskSafe      Risk = "safe"
	RiskModerate  Risk = "moderate"
	RiskDangerous Risk = "dangerous"
)

var (
	lineCommentRe  = regexp.MustCompile(`--[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	dangerousRe    = regexp.MustCompile(`\b(delete|drop|truncate|alter)\b`)
	moderateRe     = regexp.MustCompile(`\b(insert|update|create|grant|revoke|merge)\b`)
)

// StripComments removes -- and /* */ comments.
func StripComments(sql string) string {
	return blockCommentRe.ReplaceAllString(lineCommentRe.ReplaceAllString(sql, ""), "")
}

// Classify grades a statement by the keywords it contains. It is advisory
// only; Check decides what may run.
func Classify(sql string) Risk {
	s := strings.ToLower(StripComments(strings.TrimSpace(sql)))
	switch {
	case dangerousRe.MatchString(s):
		return RiskDangerous
	case moderateRe.MatchString(s):
		return RiskModerate
	default:
		return RiskSafe
	}
}
