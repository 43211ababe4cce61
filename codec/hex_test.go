// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadHex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		size     int
		expected []byte
		err      error
	}{
		{name: "plain", input: "0203", size: 2, expected: []byte{2, 3}},
		{name: "prefixed", input: "0x020304050607", size: 6, expected: []byte{2, 3, 4, 5, 6, 7}},
		{name: "any size", input: "ff", size: -1, expected: []byte{0xff}},
		{name: "wrong size", input: "0203", size: 6, err: ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			b, err := LoadHex(tt.input, tt.size)
			require.ErrorIs(err, tt.err)
			if tt.err != nil {
				return
			}
			require.Equal(tt.expected, b)
			require.Equal(tt.input[len(tt.input)-2*len(b):], ToHex(b))
		})
	}
}

func TestLoadHexRejectsGarbage(t *testing.T) {
	_, err := LoadHex("zz", -1)
	require.Error(t, err)
}
