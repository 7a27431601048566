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
)

// Ensure the implementation satisfies the expected interfaces.
var (
	_ datasource.DataSource              = &repositoryEndpointDataSource{}
	_ datasource.DataSourceWithConfigure = &repositoryEndpointDataSource{}
)

// NewRepositoryEndpointDataSource is a helper function to simplify the provider implementation.
func NewRepositoryEndpointDataSource() datasource.DataSource {
	return &repositoryEndpointDataSource{}
}

// repositoryEndpointDataSource exposes the registry coordinates derived
// from the configured repository URL without resolving a credential.
type repositoryEndpointDataSource struct {
	dataSource
}

type repositoryEndpointDataSourceModel struct {
	ID          types.String `tfsdk:"id"`
	URL         types.String `tfsdk:"url"`
	Domain      types.String `tfsdk:"domain"`
	DomainOwner types.String `tfsdk:"domain_owner"`
	Region      types.String `tfsdk:"region"`
}

// Metadata returns the data source type name.
func (d *repositoryEndpointDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_repository_endpoint"
}

func (d *repositoryEndpointDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.configure(ctx, req, resp)
}

// Schema defines the schema for the data source.
func (d *repositoryEndpointDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Registry coordinates derived from the configured CodeArtifact repository URL.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed: true,
			},
			"url": schema.StringAttribute{
				Description: "The configured repository endpoint URL.",
				Computed:    true,
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
		},
	}
}

// Read refreshes the Terraform state with the latest data.
func (d *repositoryEndpointDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	tflog.Info(ctx, "read repository endpoint data-source request")

	var data repositoryEndpointDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	coords := d.prov.coords
	data.ID = types.StringValue(fmt.Sprintf("%s-%s.%s", coords.Domain, coords.Account, coords.Region))
	data.URL = types.StringValue(d.prov.repoURL)
	data.Domain = types.StringValue(coords.Domain)
	data.DomainOwner = types.StringValue(coords.Account)
	data.Region = types.StringValue(coords.Region)

	// Set state
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
