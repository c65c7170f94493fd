// Package customdict keeps user-added words in Redis so that they survive
// restarts and lexicon reloads.
package customdict

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/dictionary"
	"github.com/bastiangx/padaserve/pkg/lexicon"
)

// userFrequency ranks user words above unranked generated forms.
const userFrequency = 1

// CustomDict wraps a Redis client; each category is one Redis set.
type CustomDict struct {
	client *redis.Client
	prefix string
}

// New creates a CustomDict storing sets under prefix:<category>.
func New(client *redis.Client, prefix string) *CustomDict {
	if prefix == "" {
		prefix = "padaserve:words"
	}
	return &CustomDict{client: client, prefix: prefix}
}

// NewFromAddr dials addr and checks the connection.
func NewFromAddr(ctx context.Context, addr, password string, db int, prefix string) (*CustomDict, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return New(client, prefix), nil
}

func (cd *CustomDict) key(c category.Category) string {
	return cd.prefix + ":" + c.String()
}

// Add inserts a word under c.
func (cd *CustomDict) Add(ctx context.Context, word string, c category.Category) error {
	if !c.Valid() {
		return fmt.Errorf("invalid category %s", c)
	}
	return cd.client.SAdd(ctx, cd.key(c), word).Err()
}

// Remove deletes a word from c.
func (cd *CustomDict) Remove(ctx context.Context, word string, c category.Category) error {
	if !c.Valid() {
		return fmt.Errorf("invalid category %s", c)
	}
	return cd.client.SRem(ctx, cd.key(c), word).Err()
}

// All returns every stored word grouped by category, sorted within each
// group. Empty categories are omitted.
func (cd *CustomDict) All(ctx context.Context) ([]dictionary.WordList, error) {
	cats := category.All()
	pipe := cd.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(cats))
	for i, c := range cats {
		cmds[i] = pipe.SMembers(ctx, cd.key(c))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	var lists []dictionary.WordList
	for i, c := range cats {
		members := cmds[i].Val()
		if len(members) == 0 {
			continue
		}
		sort.Strings(members)
		list := dictionary.WordList{Category: c, Words: make([]lexicon.Word, len(members))}
		for j, w := range members {
			list.Words[j] = lexicon.Word{Text: w, Frequency: userFrequency}
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// Close releases the Redis connection.
func (cd *CustomDict) Close() error {
	return cd.client.Close()
}
