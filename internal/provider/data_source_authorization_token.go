/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/credential"
)

// Ensure the implementation satisfies the expected interfaces.
var (
	_ datasource.DataSource              = &authorizationTokenDataSource{}
	_ datasource.DataSourceWithConfigure = &authorizationTokenDataSource{}
)

// NewAuthorizationTokenDataSource is a helper function to simplify the provider implementation.
func NewAuthorizationTokenDataSource() datasource.DataSource {
	return &authorizationTokenDataSource{}
}

// authorizationTokenDataSource is the data source implementation.
type authorizationTokenDataSource struct {
	dataSource
}

type authorizationTokenDataSourceModel struct {
	ID          types.String `tfsdk:"id"`
	Domain      types.String `tfsdk:"domain"`
	DomainOwner types.String `tfsdk:"domain_owner"`
	Region      types.String `tfsdk:"region"`
	Username    types.String `tfsdk:"username"`
	Password    types.String `tfsdk:"password"`
}

// Metadata returns the data source type name.
func (d *authorizationTokenDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_authorization_token"
}

func (d *authorizationTokenDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.configure(ctx, req, resp)
}

// Schema defines the schema for the data source.
func (d *authorizationTokenDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Short-lived repository credential for the configured CodeArtifact registry. " +
			"The username is always `aws`; the password is the authorization token.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed: true,
			},
			"domain": schema.StringAttribute{
				Description: "CodeArtifact domain derived from the repository URL.",
				Computed:    true,
			},
			"domain_owner": schema.StringAttribute{
				Description: "AWS account ID that owns the domain.",
				Computed:    true,
			},
			"region": schema.StringAttribute{
				Description: "AWS region hosting the domain.",
				Computed:    true,
			},
			"username": schema.StringAttribute{
				Description: "Username half of the repository credential.",
				Computed:    true,
			},
			"password": schema.StringAttribute{
				Description: "Authorization token used as the repository password.",
				Computed:    true,
				Sensitive:   true,
			},
		},
	}
}

// Read refreshes the Terraform state with the latest data.
func (d *authorizationTokenDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	tflog.Info(ctx, "read authorization token data-source request")

	var data authorizationTokenDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// The resolver memoizes, so repeated reads within one build never
	// re-prompt the user or re-run the token fetch.
	token, err := d.prov.resolver.Token(ctx)
	if err != nil {
		resp.Diagnostics.Append(errorToDiagnostic(err, "failed to resolve authorization token"))
		return
	}

	coords := d.prov.coords
	data.ID = types.StringValue(fmt.Sprintf("%s-%s.%s", coords.Domain, coords.Account, coords.Region))
	data.Domain = types.StringValue(coords.Domain)
	data.DomainOwner = types.StringValue(coords.Account)
	data.Region = types.StringValue(coords.Region)
	data.Username = types.StringValue(credential.Username)
	data.Password = types.StringValue(token)

	// Set state
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
