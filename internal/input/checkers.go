package input

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength = 32
	MaxTextLength = 500
)

var (
	ErrBlank   = errors.New("value is blank")
	ErrTooLong = errors.New("value is too long")
)

// Checker normalizes a raw string and reports whether it is acceptable.
type Checker struct {
	MaxLength int
	Normalize func(raw string) string
}

func GetNameChecker() Checker {
	return Checker{
		MaxLength: MaxNameLength,
		Normalize: func(raw string) string {
			return strings.Join(strings.Fields(raw), " ")
		},
	}
}

func GetTextChecker() Checker {
	return Checker{
		MaxLength: MaxTextLength,
		Normalize: strings.TrimSpace,
	}
}

func (checker Checker) Check(raw string) (string, error) {
	value := checker.Normalize(raw)

	if value == "" {
		return "", ErrBlank
	}

	if utf8.RuneCountInString(value) > checker.MaxLength {
		return "", ErrTooLong
	}

	return value, nil
}
