package provider

import (
	"os"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/providerserver"
	"github.com/hashicorp/terraform-plugin-go/tfprotov6"
)

const (
	// providerConfig is a shared configuration to combine with the actual
	// test configuration. repo_url and profile are replaced by the
	// TF_ACC_CODEARTIFACT_* env vars during testing.
	providerConfig = `
provider "codeartifact" {
  repo_url = "https://mycompany-123456789012.d.codeartifact.us-west-2.amazonaws.com/maven/maven-central/"
  profile  = "mycompany-dev"
}
`
)

var (
	// testAccProtoV6ProviderFactories are used to instantiate a provider during
	// acceptance testing. The factory function will be invoked for every Terraform
	// CLI command executed to create a provider server to which the CLI can
	// reattach.
	testAccProtoV6ProviderFactories = map[string]func() (tfprotov6.ProviderServer, error){
		"codeartifact": providerserver.NewProtocol6WithError(New("acctest")()),
	}
)

func testAccPreCheck(t *testing.T) {
	m := "%s env var must be set to run acceptance tests"

	// TF_ACC environment variables must be set to run
	// acceptance tests.
	for _, v := range EnvAccVars {
		if os.Getenv(v) == "" {
			t.Fatalf(m, v)
		}
	}
}
