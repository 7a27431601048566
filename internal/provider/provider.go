/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/awscli"
	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/cache"
	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/credential"
	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/repourl"
	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/validators"
)

const (
	EnvRepoURL = "CODEARTIFACT_REPO_URL"
	EnvProfile = "CODEARTIFACT_PROFILE"

	EnvAccRepoURL = "TF_ACC_CODEARTIFACT_REPO_URL"
	EnvAccProfile = "TF_ACC_CODEARTIFACT_PROFILE"

	// DefaultCacheExpireHours bounds how long a cached token is reused.
	// CodeArtifact tokens live for 12 hours by default; expiring the
	// cache earlier keeps a healthy margin for long builds.
	DefaultCacheExpireHours = 4
)

var EnvAccVars = []string{
	EnvAccRepoURL,
	EnvAccProfile,
}

// Ensure the implementation satisfies the expected interfaces.
var (
	_ provider.Provider = &Provider{}
)

// New is a helper function to simplify provider server and testing implementation.
func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &Provider{
			version: version,
		}
	}
}

// Provider is the provider implementation.
type Provider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "acctest" when running
	// acceptance testing.
	version string
}

type ProviderModel struct {
	RepoURL          types.String `tfsdk:"repo_url"`
	Profile          types.String `tfsdk:"profile"`
	CacheExpireHours types.Int64  `tfsdk:"cache_expire_hours"`
}

// Metadata returns the provider type name.
func (p *Provider) Metadata(_ context.Context, _ provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "codeartifact"
	resp.Version = p.version
}

// DataSources defines the data sources implemented in the provider.
func (p *Provider) DataSources(_ context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewAuthorizationTokenDataSource,
		NewRepositoryEndpointDataSource,
	}
}

// Resources defines the resources implemented in the provider.
func (p *Provider) Resources(_ context.Context) []func() resource.Resource {
	return nil
}

// Schema defines the provider-level schema for configuration data.
func (p *Provider) Schema(_ context.Context, _ provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Authenticate package repositories against AWS CodeArtifact with cached SSO-derived tokens.",
		Attributes: map[string]schema.Attribute{
			"repo_url": schema.StringAttribute{
				Optional:    true,
				Description: "CodeArtifact repository endpoint URL. May also be set with " + EnvRepoURL + ".",
				Validators: []validator.String{
					validators.RepoURL(),
				},
			},
			"profile": schema.StringAttribute{
				Optional:    true,
				Description: "AWS CLI profile that scopes the SSO session and token fetch. Required outside CI. May also be set with " + EnvProfile + ".",
				Validators: []validator.String{
					validators.ProfileName(),
				},
			},
			"cache_expire_hours": schema.Int64Attribute{
				Optional:    true,
				Description: fmt.Sprintf("Hours a cached token is reused before a fresh one is fetched. Defaults to %d.", DefaultCacheExpireHours),
				Validators: []validator.Int64{
					int64validator.AtLeast(1),
				},
			},
		},
	}
}

type providerData struct {
	repoURL  string
	coords   repourl.Coordinates
	resolver *credential.Resolver
}

// Configure derives the registry coordinates and prepares the credential
// resolver for data sources.
func (p *Provider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var pm ProviderModel
	if resp.Diagnostics.Append(req.Config.Get(ctx, &pm)...); resp.Diagnostics.HasError() {
		return
	}

	// Order of precedence for values:
	//   1. Environment variable
	//   2. Value from config
	repoURL := firstNonEmpty(os.Getenv(EnvRepoURL), pm.RepoURL.ValueString())
	profile := firstNonEmpty(os.Getenv(EnvProfile), pm.Profile.ValueString())

	if p.version == "acctest" {
		// In acceptance tests override the repository and profile from env vars.
		tflog.Info(ctx, "** Running Acceptance Tests **")
		repoURL = os.Getenv(EnvAccRepoURL)
		profile = os.Getenv(EnvAccProfile)
	}

	if repoURL == "" {
		resp.Diagnostics.AddAttributeError(
			path.Root("repo_url"),
			"missing repository URL",
			fmt.Sprintf("Set repo_url in the provider configuration or the %s environment variable.", EnvRepoURL))
		return
	}

	coords, err := repourl.Parse(repoURL)
	if err != nil {
		resp.Diagnostics.AddAttributeError(
			path.Root("repo_url"),
			"invalid repository URL",
			err.Error())
		return
	}

	mode := credential.DetectMode()
	if mode == credential.ModeLocal && profile == "" {
		resp.Diagnostics.AddAttributeError(
			path.Root("profile"),
			"missing AWS profile",
			fmt.Sprintf("A profile is required outside CI. Set profile in the provider configuration or the %s environment variable.", EnvProfile))
		return
	}

	expire := int64(DefaultCacheExpireHours)
	if !pm.CacheExpireHours.IsNull() {
		expire = pm.CacheExpireHours.ValueInt64()
	}

	store, err := cache.DefaultStore()
	if err != nil {
		resp.Diagnostics.Append(errorToDiagnostic(err, "failed to locate token cache directory"))
		return
	}

	ctx = tflog.SetField(ctx, "codeartifact.domain", coords.Domain)
	ctx = tflog.SetField(ctx, "codeartifact.region", coords.Region)
	tflog.Info(ctx, "configuring codeartifact credential resolver", map[string]any{
		"mode": mode.String(),
	})

	d := &providerData{
		repoURL: repoURL,
		coords:  coords,
		resolver: credential.New(credential.Config{
			Coordinates: coords,
			Profile:     profile,
			Expiry:      time.Duration(expire) * time.Hour,
			Mode:        mode,
		}, awscli.CLIRunner{}, store),
	}

	resp.DataSourceData = d
	resp.ResourceData = d
}

// firstNonEmpty returns the first non-empty string, if any.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// errorToDiagnostic converts an error into a diag.Diagnostic.
// Subprocess failures from the AWS CLI are given actionable detail.
func errorToDiagnostic(err error, summary string) diag.Diagnostic {
	var (
		le *awscli.LoginError
		fe *awscli.FetchError
	)

	switch {
	case errors.As(err, &le):
		return diag.NewErrorDiagnostic(summary,
			fmt.Sprintf("%s\nComplete the SSO login for profile %q (`aws sso login --profile %s`) and re-run.", le.Error(), le.Profile, le.Profile))
	case errors.As(err, &fe):
		detail := fe.Error()
		if s := strings.TrimSpace(fe.Stderr); s != "" {
			detail = fmt.Sprintf("%s\n%s", detail, s)
		}
		return diag.NewErrorDiagnostic(summary, detail)
	default:
		return diag.NewErrorDiagnostic(summary, err.Error())
	}
}
