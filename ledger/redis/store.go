// Package redis persists the activity ledger in a redis list, so the
// operator can inspect a session's action history from outside the
// process or carry limits across restarts.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/util"
)

const recordsKey = "activity:records"

type Store struct {
	redisClient rd.UniversalClient
	namespace   string
	encDec      util.EncoderDecoder[model.ActionRecord]
}

var _ ledger.Store = (*Store)(nil)

func NewStore(conf config.RedisStorageConfig) *Store {
	redisClient := rd.NewUniversalClient(&rd.UniversalOptions{
		Addrs: conf.Addrs,
	})
	return &Store{
		redisClient: redisClient,
		namespace:   conf.Namespace,
		encDec:      util.NewJsonEncoderDecoder[model.ActionRecord](),
	}
}

func (s *Store) getNamespaceKey(args ...string) string {
	return fmt.Sprintf("%s:%s", s.namespace, strings.Join(args, ":"))
}

func (s *Store) Append(rec model.ActionRecord) error {
	ctx := context.Background()
	data, err := s.encDec.Encode(rec)
	if err != nil {
		return err
	}
	return s.redisClient.RPush(ctx, s.getNamespaceKey(recordsKey), data).Err()
}

func (s *Store) Query(since time.Time) ([]model.ActionRecord, error) {
	ctx := context.Background()
	items, err := s.redisClient.LRange(ctx, s.getNamespaceKey(recordsKey), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.ActionRecord, 0, len(items))
	for _, item := range items {
		rec, err := s.encDec.Decode([]byte(item))
		if err != nil {
			return nil, err
		}
		if since.IsZero() || !rec.Timestamp.Before(since) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// Truncate drops leading records older than before. Records are pushed
// in timestamp order, so trimming from the head is sufficient.
func (s *Store) Truncate(before time.Time) error {
	ctx := context.Background()
	key := s.getNamespaceKey(recordsKey)
	for {
		item, err := s.redisClient.LIndex(ctx, key, 0).Result()
		if err == rd.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		rec, err := s.encDec.Decode([]byte(item))
		if err != nil {
			return err
		}
		if !rec.Timestamp.Before(before) {
			return nil
		}
		if err := s.redisClient.LPop(ctx, key).Err(); err != nil {
			return err
		}
	}
}

func (s *Store) Clear() error {
	return s.redisClient.Del(context.Background(), s.getNamespaceKey(recordsKey)).Err()
}

func (s *Store) Close() error {
	return s.redisClient.Close()
}
