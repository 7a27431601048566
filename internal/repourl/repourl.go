/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package repourl extracts CodeArtifact registry coordinates from a
// repository endpoint URL.
package repourl

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidURL indicates a repository URL that is not a CodeArtifact
// repository endpoint.
var ErrInvalidURL = errors.New("invalid CodeArtifact repository URL")

// endpointRE matches the full endpoint URL, anchored on both ends so a
// partial or prefixed match is rejected. The domain and account are joined
// by a hyphen in the hostname; the account is all digits, so backtracking
// splits the two at the last hyphen before the digit run.
var endpointRE = regexp.MustCompile(`^https://([A-Za-z0-9-]+)-([0-9]+)\.d\.codeartifact\.([a-z0-9-]+)\.amazonaws\.com(/.*)?$`)

// Coordinates identifies a single CodeArtifact registry instance.
type Coordinates struct {
	// Domain is the CodeArtifact domain name.
	Domain string

	// Account is the AWS account ID that owns the domain.
	Account string

	// Region is the AWS region hosting the domain.
	Region string
}

// Parse derives registry coordinates from a repository endpoint URL of the
// form https://<domain>-<account>.d.codeartifact.<region>.amazonaws.com/...
// It returns an error wrapping ErrInvalidURL when the URL does not match.
func Parse(repoURL string) (Coordinates, error) {
	m := endpointRE.FindStringSubmatch(repoURL)
	if m == nil {
		return Coordinates{}, fmt.Errorf("%w: %q does not match https://<domain>-<account>.d.codeartifact.<region>.amazonaws.com/...", ErrInvalidURL, repoURL)
	}
	return Coordinates{
		Domain:  m[1],
		Account: m[2],
		Region:  m[3],
	}, nil
}
