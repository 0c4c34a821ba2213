package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"inquiry-relay/models"
)

var (
	emailRegex = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
	dobRegex   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidPhone accepts exactly ten digits with no formatting.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsValidDOB accepts YYYY-MM-DD dates that exist on the calendar.
func IsValidDOB(s string) bool {
	_, ok := ParseDOB(s)
	return ok
}

// ParseDOB parses a strict YYYY-MM-DD date in UTC. Dates that time.Date
// would normalize (2021-02-30 -> 2021-03-02) are rejected.
func ParseDOB(s string) (time.Time, bool) {
	m := dobRegex.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// IsValidQuoteForm requires name and a valid dob, plus at least one contact
// channel; any channel given must be well-formed.
func IsValidQuoteForm(q models.QuoteRequest) bool {
	name := strings.TrimSpace(q.Name)
	dob := strings.TrimSpace(q.DOB)
	email := strings.TrimSpace(q.Email)
	phone := strings.TrimSpace(q.Phone)

	if name == "" || dob == "" {
		return false
	}
	if !IsValidDOB(dob) {
		return false
	}
	if email == "" && phone == "" {
		return false
	}
	if email != "" && !IsValidEmail(email) {
		return false
	}
	if phone != "" && !IsValidPhone(phone) {
		return false
	}
	return true
}
