/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package awscli shells out to the AWS command-line tool for SSO session
// checks and CodeArtifact authorization tokens. The CLI is expected to be
// installed and configured; this package never speaks the SSO protocol
// itself.
package awscli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/repourl"
)

const awsCmd = "aws"

// Runner executes external commands. Production code uses CLIRunner; tests
// substitute a fake to avoid invoking the real CLI.
type Runner interface {
	// Run executes the command and captures its output, blocking until
	// the command exits.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

	// RunInteractive executes the command with the parent's standard
	// streams attached, for flows that need user interaction.
	RunInteractive(ctx context.Context, name string, args ...string) error
}

// CLIRunner runs commands as child processes. Cancelling the context kills
// the child, so an abandoned login flow does not outlive the build.
type CLIRunner struct{}

var _ Runner = CLIRunner{}

func (CLIRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (CLIRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// LoginError indicates the interactive SSO login exited non-zero. No valid
// identity can be established, so the build cannot proceed.
type LoginError struct {
	Profile string
	Err     error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("aws sso login failed for profile %q: %v", e.Profile, e.Err)
}

func (e *LoginError) Unwrap() error { return e.Err }

// FetchError indicates the token-issuing command exited non-zero. Stderr is
// captured for diagnosis; there is no fallback credential.
type FetchError struct {
	Stderr string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("aws codeartifact get-authorization-token failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TokenInvalidator is the slice of the token cache the session checker
// needs: marking a profile's cached token unusable after a re-login.
type TokenInvalidator interface {
	Invalidate(ctx context.Context, profile string) error
}

// SessionChecker verifies the profile's SSO session before any token
// lookup, re-running the interactive login when the session has lapsed.
type SessionChecker struct {
	Runner Runner
	Cache  TokenInvalidator
}

// EnsureLoggedIn probes the profile's identity with sts get-caller-identity.
// A failed probe triggers `aws sso login`, which may open a browser and
// block until the user finishes authenticating. After a successful re-login
// the token cache is invalidated: a token minted under the old session must
// not be reused.
func (c *SessionChecker) EnsureLoggedIn(ctx context.Context, profile string) error {
	_, stderr, err := c.Runner.Run(ctx, awsCmd, "sts", "get-caller-identity", "--profile", profile)
	if err == nil {
		tflog.Debug(ctx, "SSO session is valid", map[string]any{"profile": profile})
		return nil
	}

	tflog.Warn(ctx, "SSO session expired or missing, starting interactive login", map[string]any{
		"profile": profile,
		"stderr":  strings.TrimSpace(stderr),
	})
	if err := c.Runner.RunInteractive(ctx, awsCmd, "sso", "login", "--profile", profile); err != nil {
		return &LoginError{Profile: profile, Err: err}
	}
	if err := c.Cache.Invalidate(ctx, profile); err != nil {
		return fmt.Errorf("invalidating token cache after login: %w", err)
	}
	return nil
}

// TokenFetcher mints CodeArtifact authorization tokens through the CLI.
type TokenFetcher struct {
	Runner Runner
}

// Fetch requests an authorization token for the registry identified by
// coords. An empty profile omits the --profile flag, which is how CI
// environments authenticate (ambient credentials instead of a named
// profile). The trimmed stdout of the command is the token.
func (f *TokenFetcher) Fetch(ctx context.Context, coords repourl.Coordinates, profile string) (string, error) {
	args := []string{
		"codeartifact", "get-authorization-token",
		"--domain", coords.Domain,
		"--domain-owner", coords.Account,
		"--query", "authorizationToken",
		"--output", "text",
		"--region", coords.Region,
	}
	if profile != "" {
		args = append(args, "--profile", profile)
	}

	tflog.Info(ctx, "fetching CodeArtifact authorization token", map[string]any{
		"domain": coords.Domain,
		"region": coords.Region,
	})
	stdout, stderr, err := f.Runner.Run(ctx, awsCmd, args...)
	if err != nil {
		return "", &FetchError{Stderr: stderr, Err: err}
	}
	token := strings.TrimSpace(stdout)
	if token == "" {
		return "", &FetchError{Stderr: stderr, Err: errors.New("command produced no token")}
	}
	return token, nil
}
