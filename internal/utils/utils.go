package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"
)

// Suffix returns the last length characters of number, or number itself
// when it is not longer than length. Characters are Unicode code points.
func Suffix(number string, length int) string {
	if length <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(number)
	if n <= length {
		return number
	}
	runes := []rune(number)
	return string(runes[n-length:])
}

// IsDigits reports whether s is a non-empty string of ASCII digits
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RandomNumbers generates count distinct zero-padded numbers of width digits
func RandomNumbers(count, width int) ([]string, error) {
	if width <= 0 || width > 18 {
		return nil, fmt.Errorf("width must be between 1 and 18, got %d", width)
	}
	space := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(width)), nil)
	if count <= 0 {
		return nil, errors.New("count must be positive")
	}
	if big.NewInt(int64(count)).Cmp(space) > 0 {
		return nil, fmt.Errorf("cannot draw %d distinct numbers of %d digits", count, width)
	}

	seen := make(map[string]struct{}, count)
	numbers := make([]string, 0, count)
	for len(numbers) < count {
		n, err := rand.Int(rand.Reader, space)
		if err != nil {
			return nil, err
		}
		s := fmt.Sprintf("%0*d", width, n.Int64())
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		numbers = append(numbers, s)
	}
	return numbers, nil
}

// Default and maximum page sizes for listings
const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Paginate normalises page and limit and returns the row offset
func Paginate(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return (page - 1) * limit, limit
}
