/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/repourl"
)

var (
	_ validator.String = &repoURLVal{}
	_ validator.String = &profileName{}
)

// RepoURL validates the string value is a CodeArtifact repository endpoint URL.
func RepoURL() validator.String {
	return repoURLVal{}
}

type repoURLVal struct{}

func (v repoURLVal) Description(_ context.Context) string {
	return "Check a given string is a CodeArtifact repository endpoint URL."
}

func (v repoURLVal) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

func (v repoURLVal) ValidateString(_ context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// Attributes may be optional, and thus null, which should not fail validation.
	if req.ConfigValue.IsNull() || req.ConfigValue.IsUnknown() {
		return
	}

	u := req.ConfigValue.ValueString()
	if _, err := repourl.Parse(u); err != nil {
		resp.Diagnostics.AddError(fmt.Sprintf("%q is not a valid CodeArtifact repository URL", u), err.Error())
	}
}

var profileRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ProfileName validates the string value is a plausible AWS CLI profile name.
func ProfileName() validator.String {
	return profileName{}
}

type profileName struct{}

func (v profileName) Description(_ context.Context) string {
	return "Check a given string is a valid AWS CLI profile name."
}

func (v profileName) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

func (v profileName) ValidateString(_ context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// Attributes may be optional, and thus null, which should not fail validation.
	if req.ConfigValue.IsNull() || req.ConfigValue.IsUnknown() {
		return
	}

	p := req.ConfigValue.ValueString()
	if !profileRE.MatchString(p) {
		resp.Diagnostics.AddError(fmt.Sprintf("%q is not a valid AWS profile name", p),
			"profile names may only contain letters, digits, hyphens and underscores")
	}
}
