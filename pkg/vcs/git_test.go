package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRemote(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "https_remote",
			raw:  "https://github.com/nsbno/my-service.git",
			want: "github.com/nsbno/my-service",
		},
		{
			name: "ssh_remote",
			raw:  "git@github.com:nsbno/my-service.git",
			want: "github.com/nsbno/my-service",
		},
		{
			name: "ssh_scheme_remote",
			raw:  "ssh://git@github.com/nsbno/my-service.git",
			want: "github.com/nsbno/my-service",
		},
		{
			name: "already_normalized",
			raw:  "github.com/nsbno/my-service",
			want: "github.com/nsbno/my-service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeRemote(tt.raw))
		})
	}
}
