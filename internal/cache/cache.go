/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package cache persists CodeArtifact authorization tokens on disk between
// builds. Each profile gets its own append-only records file; only the last
// line of the file is authoritative, and a blank last line marks the cache
// as invalidated.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

const (
	// stampLayout is the timestamp format of a cache record.
	stampLayout = "20060102-150405"

	recordsFile = "ssoToken.records"
	lockFile    = ".ssoToken.lock"
)

// State classifies the last record of a cache file.
type State int

const (
	// Absent means no usable record exists (missing file, empty file,
	// or an unparsable last line).
	Absent State = iota

	// Invalidated means the last line is blank: a previous login flow
	// explicitly marked any earlier token as unusable.
	Invalidated

	// Valid means the last line carries a timestamp and a token.
	Valid
)

// Record is the decoded form of a cache file's last line. The blank-line
// invalidation convention exists only at the file boundary; everywhere else
// the state is explicit.
type Record struct {
	State State
	Stamp time.Time
	Token string
}

// Store owns the cache files under a single root directory, one
// subdirectory per profile. No other component opens these files.
type Store struct {
	root string
}

// NewStore returns a Store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// DefaultStore returns a Store rooted at the per-user cache directory
// <home>/.cache/awsCodeArtifact.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving user home directory: %w", err)
	}
	return NewStore(filepath.Join(home, ".cache", "awsCodeArtifact")), nil
}

// Read returns the cached token for profile if the last record is valid and
// no older than expiry relative to now. Every failure mode degrades to a
// cache miss: a missing or malformed record only costs a re-fetch, never
// correctness.
func (s *Store) Read(ctx context.Context, profile string, expiry time.Duration, now time.Time) (string, bool) {
	b, err := os.ReadFile(s.recordsPath(profile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			tflog.Warn(ctx, "failed to read token cache", map[string]any{
				"profile": profile,
				"error":   err.Error(),
			})
		}
		return "", false
	}

	rec := decode(ctx, profile, string(b))
	if rec.State != Valid {
		return "", false
	}
	if now.After(rec.Stamp.Add(expiry)) {
		tflog.Debug(ctx, "cached token expired", map[string]any{
			"profile": profile,
			"stamp":   rec.Stamp.Format(stampLayout),
		})
		return "", false
	}
	return rec.Token, true
}

// Append records a freshly fetched token for profile. The write is guarded
// by a per-profile file lock so concurrent builds cannot interleave a line.
func (s *Store) Append(ctx context.Context, profile string, now time.Time, token string) error {
	tflog.Debug(ctx, "caching authorization token", map[string]any{"profile": profile})
	return s.appendRaw(profile, "\n"+now.Format(stampLayout)+" "+token)
}

// Invalidate appends a blank line so the next Read treats the cache as
// absent, even though earlier token records remain in the file. A forced
// re-login uses this to keep a token from the old session out of play.
func (s *Store) Invalidate(ctx context.Context, profile string) error {
	tflog.Info(ctx, "invalidating token cache", map[string]any{"profile": profile})
	return s.appendRaw(profile, "\n\n")
}

func (s *Store) recordsPath(profile string) string {
	return filepath.Join(s.root, profile, recordsFile)
}

func (s *Store) appendRaw(profile, data string) error {
	dir := filepath.Join(s.root, profile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	// Readers deliberately take no lock: a torn read decodes as an
	// unparsable record and degrades to a miss.
	fl := flock.New(filepath.Join(dir, lockFile))
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("locking cache file: %w", err)
	}
	defer func() {
		_ = fl.Unlock()
	}()

	f, err := os.OpenFile(s.recordsPath(profile), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("opening cache file: %w", err)
	}
	_, werr := f.WriteString(data)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("writing cache file: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("closing cache file: %w", cerr)
	}
	return nil
}

// decode classifies the last line of a cache file. The token is everything
// after the first space of the line.
func decode(ctx context.Context, profile, contents string) Record {
	lines := strings.Split(contents, "\n")
	if len(lines) == 0 {
		return Record{State: Absent}
	}
	last := lines[len(lines)-1]
	if strings.TrimSpace(last) == "" {
		if len(lines) == 1 {
			return Record{State: Absent}
		}
		return Record{State: Invalidated}
	}

	i := strings.Index(last, " ")
	if i < 0 {
		tflog.Warn(ctx, "malformed cache record, treating as cache miss", map[string]any{
			"profile": profile,
		})
		return Record{State: Absent}
	}
	stamp, err := time.ParseInLocation(stampLayout, last[:i], time.Local)
	if err != nil {
		tflog.Warn(ctx, "malformed cache record timestamp, treating as cache miss", map[string]any{
			"profile": profile,
			"error":   err.Error(),
		})
		return Record{State: Absent}
	}
	token := last[i+1:]
	if strings.TrimSpace(token) == "" {
		tflog.Warn(ctx, "cache record has empty token, treating as cache miss", map[string]any{
			"profile": profile,
		})
		return Record{State: Absent}
	}
	return Record{State: Valid, Stamp: stamp, Token: token}
}
