/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"flag"
	"log"

	"github.com/hashicorp/terraform-plugin-framework/providerserver"

	"github.com/buildsmith-dev/terraform-provider-codeartifact/internal/provider"
)

// version is set by the build pipeline on release.
var version = "dev"

func main() {
	var debug bool
	flag.BoolVar(&debug, "debug", false, "set to true to run the provider with support for debuggers like delve")
	flag.Parse()

	err := providerserver.Serve(context.Background(), provider.New(version), providerserver.ServeOpts{
		Address: "registry.terraform.io/buildsmith-dev/codeartifact",
		Debug:   debug,
	})
	if err != nil {
		log.Fatal(err.Error())
	}
}
