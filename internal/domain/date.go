package domain

import (
	"regexp"
	"strconv"
)

// dateSeparator splits a begin date on every '/' and ' '. Adjacent
// separators produce empty tokens.
var dateSeparator = regexp.MustCompile(`[/ ]`)

// ExtractYear returns the year from a catalog begin date such as
// "6/1/2005 0:00:00". The value is split on each '/' and ' ' and the third
// token must be an integer. This is tied to the catalog's M/D/YYYY layout and
// is not a general date parser.
func ExtractYear(beginDate string) (int, error) {
	tokens := dateSeparator.Split(beginDate, -1)
	if len(tokens) < 3 {
		return 0, &DateParseError{Value: beginDate, Reason: "expected at least 3 tokens"}
	}
	year, err := strconv.Atoi(tokens[2])
	if err != nil {
		return 0, &DateParseError{Value: beginDate, Reason: "third token is not an integer"}
	}
	return year, nil
}
