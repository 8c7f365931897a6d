package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tables := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"1024", 1024},
		{"0x1F000", 0x1f000},
		{"0X20", 0x20},
	}

	for _, table := range tables {
		t.Run(table.input, func(t *testing.T) {
			a, err := parseAddress(table.input)
			require.NoError(t, err)
			assert.Equal(t, table.want, a)
		})
	}

	for _, s := range []string{"", "-1", "0xzz", "ten"} {
		_, err := parseAddress(s)
		assert.Error(t, err, s)
	}
}
