package util

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = "alpha\nbeta\r\n\ngamma\ndelta"

func collect(c <-chan string) (out []string) {
	for k := range c {
		out = append(out, k)
	}
	return
}

func TestCount(t *testing.T) {
	n, err := Count(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = Count(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestExhaust(t *testing.T) {
	got := collect(Exhaust(context.Background(), 100, strings.NewReader(input)))
	assert.Equal(t, []string{"alpha", "beta", "gamma", "delta"}, got)

	// the empty line does not count towards n
	got = collect(Exhaust(context.Background(), 3, strings.NewReader(input)))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got)
}

func TestExhaustCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := Exhaust(ctx, 100, strings.NewReader(input))
	assert.Equal(t, "alpha", <-c)
	cancel()

	// at most the key already being offered gets through
	assert.LessOrEqual(t, len(collect(c)), 1)
}
