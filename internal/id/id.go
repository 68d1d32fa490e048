package id

import (
	"fmt"
	"strconv"
)

const (
	// Width is the number of digits in an account number.
	Width = 5
	// MaxNumber is the highest assignable account number.
	MaxNumber = 99999
	// Zero is the blank account number used by the session sentinel.
	Zero = "00000"
)

// FormatAccount returns an account number like "00042".
func FormatAccount(n int) string {
	return fmt.Sprintf("%0*d", Width, n)
}

// ParseAccount parses "00042" into 42. The input must be exactly five digits.
func ParseAccount(s string) (int, error) {
	if len(s) != Width {
		return 0, fmt.Errorf("invalid account number %q: want %d digits", s, Width)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid account number %q: non-digit %q", s, c)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid account number %q: %w", s, err)
	}
	return n, nil
}

// Valid reports whether s is a well-formed account number.
func Valid(s string) bool {
	_, err := ParseAccount(s)
	return err == nil
}

// Sequence hands out account numbers in increasing order. Numbers that have
// been observed or issued are never handed out again, even after deletion.
type Sequence struct {
	last int
}

// Observe records an existing account number so Next skips past it.
func (s *Sequence) Observe(number string) {
	n, err := ParseAccount(number)
	if err != nil {
		return
	}
	if n > s.last {
		s.last = n
	}
}

// Next returns the next unused account number.
func (s *Sequence) Next() (string, error) {
	if s.last >= MaxNumber {
		return "", fmt.Errorf("account numbers exhausted at %s", FormatAccount(s.last))
	}
	s.last++
	return FormatAccount(s.last), nil
}

// Peek returns the number Next would issue without consuming it.
func (s *Sequence) Peek() string {
	return FormatAccount(s.last + 1)
}
