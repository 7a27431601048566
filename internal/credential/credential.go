/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package credential resolves the repository password for a CodeArtifact
// registry: check the SSO session, consult the on-disk token cache, and
// mint a fresh token through the AWS CLI on a miss.
package credential

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/awscli"
	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/cache"
	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/repourl"
)

// Username is the constant username half of the repository credential; the
// resolved token is the password half.
const Username = "aws"

// ciEnvVar selects CI mode when set to "true".
const ciEnvVar = "CIRCLECI"

// Mode is the execution environment the resolver runs in.
type Mode int

const (
	// ModeLocal is a developer machine: a named profile backed by an
	// interactive SSO session.
	ModeLocal Mode = iota

	// ModeCI is a CI container: ambient credentials, no profile, no
	// interactive login.
	ModeCI
)

func (m Mode) String() string {
	if m == ModeCI {
		return "ci"
	}
	return "local"
}

// DetectMode computes the execution mode from the process environment. This
// is the only environment read in the resolver path; callers pass the
// result in explicitly so tests can pin either mode.
func DetectMode() Mode {
	if os.Getenv(ciEnvVar) == "true" {
		return ModeCI
	}
	return ModeLocal
}

// Config carries the per-build settings the resolver needs. Immutable for
// the lifetime of the resolver.
type Config struct {
	Coordinates repourl.Coordinates
	Profile     string
	Expiry      time.Duration
	Mode        Mode
}

type sessionChecker interface {
	EnsureLoggedIn(ctx context.Context, profile string) error
}

type tokenFetcher interface {
	Fetch(ctx context.Context, coords repourl.Coordinates, profile string) (string, error)
}

type tokenCache interface {
	Read(ctx context.Context, profile string, expiry time.Duration, now time.Time) (string, bool)
	Append(ctx context.Context, profile string, now time.Time, token string) error
}

// Resolver produces the repository credential. The result is memoized so a
// build that evaluates the credential several times runs the session check
// and token fetch at most once; errors are not memoized, so a re-read after
// a failure retries.
type Resolver struct {
	cfg     Config
	checker sessionChecker
	fetcher tokenFetcher
	cache   tokenCache
	now     func() time.Time

	mu       sync.Mutex
	token    string
	resolved bool
}

// New builds a Resolver around the given command runner and token cache.
func New(cfg Config, runner awscli.Runner, store *cache.Store) *Resolver {
	return &Resolver{
		cfg:     cfg,
		checker: &awscli.SessionChecker{Runner: runner, Cache: store},
		fetcher: &awscli.TokenFetcher{Runner: runner},
		cache:   store,
		now:     time.Now,
	}
}

// Token returns the authorization token for the configured registry,
// resolving it on first call.
func (r *Resolver) Token(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		return r.token, nil
	}
	token, err := r.resolve(ctx)
	if err != nil {
		return "", err
	}
	r.token, r.resolved = token, true
	return token, nil
}

func (r *Resolver) resolve(ctx context.Context) (string, error) {
	ctx = tflog.SetField(ctx, "codeartifact.mode", r.cfg.Mode.String())

	// CI containers are short-lived and authenticate without a profile,
	// so the on-disk cache is skipped entirely: always fetch fresh.
	if r.cfg.Mode == ModeCI {
		return r.fetcher.Fetch(ctx, r.cfg.Coordinates, "")
	}

	if err := r.checker.EnsureLoggedIn(ctx, r.cfg.Profile); err != nil {
		return "", err
	}

	now := r.now()
	if token, ok := r.cache.Read(ctx, r.cfg.Profile, r.cfg.Expiry, now); ok {
		tflog.Debug(ctx, "using cached authorization token", map[string]any{
			"profile": r.cfg.Profile,
		})
		return token, nil
	}

	token, err := r.fetcher.Fetch(ctx, r.cfg.Coordinates, r.cfg.Profile)
	if err != nil {
		return "", err
	}
	// A failed cache write only costs the next build a re-fetch.
	if err := r.cache.Append(ctx, r.cfg.Profile, now, token); err != nil {
		tflog.Warn(ctx, "failed to cache authorization token", map[string]any{
			"profile": r.cfg.Profile,
			"error":   err.Error(),
		})
	}
	return token, nil
}
