/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"reflect"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	tfprovider "github.com/hashicorp/terraform-plugin-framework/provider"
)

// TestAllDataSources_SchemaMatchesModel validates that all data source schemas
// match their corresponding model structs. This prevents runtime errors when
// Terraform tries to unmarshal data into models with missing schema attributes.
func TestAllDataSources_SchemaMatchesModel(t *testing.T) {
	testCases := []struct {
		name          string
		dataSource    datasource.DataSource
		topLevelModel any
	}{
		{
			name:          "codeartifact_authorization_token",
			dataSource:    NewAuthorizationTokenDataSource(),
			topLevelModel: authorizationTokenDataSourceModel{},
		},
		{
			name:          "codeartifact_repository_endpoint",
			dataSource:    NewRepositoryEndpointDataSource(),
			topLevelModel: repositoryEndpointDataSourceModel{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			req := datasource.SchemaRequest{}
			resp := &datasource.SchemaResponse{}
			tc.dataSource.Schema(ctx, req, resp)

			if resp.Diagnostics.HasError() {
				t.Fatalf("Schema() returned errors: %v", resp.Diagnostics.Errors())
			}

			attrs := make(map[string]struct{}, len(resp.Schema.Attributes))
			for name := range resp.Schema.Attributes {
				attrs[name] = struct{}{}
			}
			if missing := modelFieldsMissingFrom(tc.topLevelModel, attrs); len(missing) > 0 {
				t.Errorf("schema/model mismatch: model has fields missing from schema: %v", missing)
			}
		})
	}
}

// TestProviderSchemaMatchesModel validates the provider schema against
// ProviderModel the same way.
func TestProviderSchemaMatchesModel(t *testing.T) {
	resp := &tfprovider.SchemaResponse{}
	New("test")().Schema(context.Background(), tfprovider.SchemaRequest{}, resp)

	if resp.Diagnostics.HasError() {
		t.Fatalf("Schema() returned errors: %v", resp.Diagnostics.Errors())
	}

	attrs := make(map[string]struct{}, len(resp.Schema.Attributes))
	for name := range resp.Schema.Attributes {
		attrs[name] = struct{}{}
	}
	if missing := modelFieldsMissingFrom(ProviderModel{}, attrs); len(missing) > 0 {
		t.Errorf("provider schema/model mismatch: model has fields missing from schema: %v", missing)
	}
}

// modelFieldsMissingFrom checks that all tfsdk-tagged fields in the model
// have corresponding attributes in the schema.
func modelFieldsMissingFrom(model any, schemaAttrs map[string]struct{}) []string {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var missing []string
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tfsdkTag := field.Tag.Get("tfsdk")
		if tfsdkTag == "" || tfsdkTag == "-" {
			continue
		}
		if _, exists := schemaAttrs[tfsdkTag]; !exists {
			missing = append(missing, tfsdkTag)
		}
	}
	return missing
}
