package provider

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

const dataAuthorizationToken = `
data "codeartifact_authorization_token" "test" {}
`

func TestAccAuthorizationTokenDataSource(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			// Read testing
			{
				Config: providerConfig + dataAuthorizationToken,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.codeartifact_authorization_token.test", "username", "aws"),
					resource.TestCheckResourceAttrSet("data.codeartifact_authorization_token.test", "password"),
					resource.TestCheckResourceAttrSet("data.codeartifact_authorization_token.test", "domain"),
					resource.TestCheckResourceAttrSet("data.codeartifact_authorization_token.test", "domain_owner"),
					resource.TestCheckResourceAttrSet("data.codeartifact_authorization_token.test", "region"),
				),
			},
		},
	})
}
