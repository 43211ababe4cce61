// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnionPermissions(t *testing.T) {
	tests := []struct {
		name        string
		permission1 Permissions
		permission2 Permissions
		canRead     bool
		canWrite    bool
	}{
		{
			name:        "none then read",
			permission1: None,
			permission2: Read,
			canRead:     true,
		},
		{
			name:        "read then write",
			permission1: Read,
			permission2: Write,
			canRead:     true,
			canWrite:    true,
		},
		{
			name:        "write then read",
			permission1: Write,
			permission2: Read,
			canRead:     true,
			canWrite:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			keys := Keys{}
			keys.Add("key", tt.permission1)
			keys.Add("key", tt.permission2)

			require.Equal(tt.canRead, keys["key"].Has(Read))
			require.Equal(tt.canWrite, keys["key"].Has(Write))
		})
	}
}
