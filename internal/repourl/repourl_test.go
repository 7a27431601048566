/*
Copyright 2025 Buildsmith, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repourl

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		url     string
		want    Coordinates
		wantErr bool
	}{
		"maven repository endpoint": {
			url: "https://mycompany-123456789012.d.codeartifact.us-west-2.amazonaws.com/maven/maven-central/",
			want: Coordinates{
				Domain:  "mycompany",
				Account: "123456789012",
				Region:  "us-west-2",
			},
		},
		"no trailing path": {
			url: "https://acme-000011112222.d.codeartifact.eu-central-1.amazonaws.com",
			want: Coordinates{
				Domain:  "acme",
				Account: "000011112222",
				Region:  "eu-central-1",
			},
		},
		"hyphenated domain": {
			url: "https://my-team-123456789012.d.codeartifact.ap-southeast-2.amazonaws.com/npm/shared/",
			want: Coordinates{
				Domain:  "my-team",
				Account: "123456789012",
				Region:  "ap-southeast-2",
			},
		},
		"domain ending in digits": {
			url: "https://team42-123456789012.d.codeartifact.us-east-1.amazonaws.com/maven/releases/",
			want: Coordinates{
				Domain:  "team42",
				Account: "123456789012",
				Region:  "us-east-1",
			},
		},
		"http scheme": {
			url:     "http://mycompany-123456789012.d.codeartifact.us-west-2.amazonaws.com/maven/maven-central/",
			wantErr: true,
		},
		"missing account": {
			url:     "https://mycompany.d.codeartifact.us-west-2.amazonaws.com/maven/maven-central/",
			wantErr: true,
		},
		"account with letters": {
			url:     "https://mycompany-12345abc.d.codeartifact.us-west-2.amazonaws.com/maven/maven-central/",
			wantErr: true,
		},
		"uppercase region": {
			url:     "https://mycompany-123456789012.d.codeartifact.US-WEST-2.amazonaws.com/maven/maven-central/",
			wantErr: true,
		},
		"wrong registry host": {
			url:     "https://mycompany-123456789012.d.ecr.us-west-2.amazonaws.com/maven/maven-central/",
			wantErr: true,
		},
		"embedded in a longer string": {
			url:     "see https://mycompany-123456789012.d.codeartifact.us-west-2.amazonaws.com/maven/maven-central/",
			wantErr: true,
		},
		"wrong suffix": {
			url:     "https://mycompany-123456789012.d.codeartifact.us-west-2.amazonaws.com.evil.example/maven/",
			wantErr: true,
		},
		"empty string": {
			url:     "",
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(test.url)
			if test.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %+v", test.url, got)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidURL", test.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", test.url, err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", test.url, diff)
			}
		})
	}
}
