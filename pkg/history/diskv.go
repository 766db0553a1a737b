// Package history keeps a journal of finished room sessions on disk.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/roomtimer/pkg/room"
)

var errNoPath = errors.New("history: no base path configured")

// Journal stores and lists sessions.
type Journal interface {
	Record(s room.Session) error
	List(ctx context.Context) ([]room.Session, error)
}

// Open returns a diskv-backed Journal rooted at basePath. A leading "~" is
// expanded to the home directory.
func Open(basePath string) (Journal, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errNoPath
	}
	expanded, err := homedir.Expand(basePath)
	if err != nil {
		return nil, fmt.Errorf("history: expand %s: %w", basePath, err)
	}
	return &journal{d: diskv.New(diskv.Options{
		BasePath:     expanded,
		Transform:    shardTransform,
		CacheSizeMax: 256 * 1024,
	}), basePath: expanded}, nil
}

type journal struct {
	d        *diskv.Diskv
	basePath string
}

// shardTransform spreads sessions over directories named after the first two
// characters of their id.
func shardTransform(key string) []string {
	if len(key) < 2 {
		return []string{}
	}
	return []string{key[:2]}
}

func (j *journal) Record(s room.Session) error {
	if s.ID == "" {
		return errors.New("history: session has no id")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("history: encode %s: %w", s.ID, err)
	}
	if err := j.d.Write(s.ID, data); err != nil {
		return fmt.Errorf("history: write %s: %w", s.ID, err)
	}
	return nil
}

func (j *journal) List(ctx context.Context) ([]room.Session, error) {
	var out []room.Session
	var errs []error
	for key := range j.d.Keys(ctx.Done()) {
		val, err := j.d.Read(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		var s room.Session
		if err := json.Unmarshal(val, &s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].StartedAt.Before(out[b].StartedAt)
	})
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, errors.Join(errs...)
}
