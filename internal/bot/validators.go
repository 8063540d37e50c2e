package bot

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidID = errors.New("record id must contain digits only")

// ParseRecordID accepts a non-empty run of ASCII digits, surrounding spaces
// allowed, that fits into int64.
func ParseRecordID(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrInvalidID
	}

	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, ErrInvalidID
		}
	}

	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
