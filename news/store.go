package news

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"inquiry-relay/models"
)

// DateLayout names one ticker document per calendar day, e.g. "Mon Oct 02 2023".
const DateLayout = "Mon Jan 02 2006"

const keyPrefix = "news:"

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Store keeps ticker entries as Redis hashes, one field per hour.
type Store struct {
	rdb redis.Cmdable
}

func NewStore(rdb redis.Cmdable) *Store {
	return &Store{rdb: rdb}
}

// SaveHour writes a single hour field, leaving other hours of the date intact.
func (s *Store) SaveHour(ctx context.Context, date string, hour int, summary string) error {
	if err := s.rdb.HSet(ctx, keyPrefix+date, strconv.Itoa(hour), summary).Err(); err != nil {
		return fmt.Errorf("failed to write ticker entry %s/%d: %w", date, hour, err)
	}
	return nil
}

func (s *Store) Entry(ctx context.Context, date string) (*models.TickerEntry, error) {
	fields, err := s.rdb.HGetAll(ctx, keyPrefix+date).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ticker entry %s: %w", date, err)
	}

	entry := &models.TickerEntry{Date: date, Hours: make(map[int]string, len(fields))}
	for k, v := range fields {
		hour, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		entry.Hours[hour] = v
	}
	return entry, nil
}

// Latest returns the summary recorded for the latest hour of date, or "".
func (s *Store) Latest(ctx context.Context, date string) (string, error) {
	entry, err := s.Entry(ctx, date)
	if err != nil {
		return "", err
	}
	_, summary, _ := entry.Latest()
	return summary, nil
}
