package vault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRef(t *testing.T) {
	p, key, err := splitRef("secret/playground#csrf_key")
	require.NoError(t, err)
	assert.Equal(t, "secret/playground", p)
	assert.Equal(t, "csrf_key", key)

	for _, bad := range []string{"", "secret/playground", "#key", "secret/x#"} {
		_, _, err := splitRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestSplitMount(t *testing.T) {
	mount, rel := splitMount("secret/apps/playground")
	assert.Equal(t, "secret", mount)
	assert.Equal(t, "apps/playground", rel)

	mount, rel = splitMount("secret")
	assert.Equal(t, "secret", mount)
	assert.Empty(t, rel)
}

func TestResolve_ServedFromCache(t *testing.T) {
	c := &Client{cache: map[string]cached{
		"secret/playground#dsn": {val: "cached-dsn", exp: time.Now().Add(time.Minute)},
	}}

	got, err := c.Resolve(context.Background(), "secret/playground#dsn")
	require.NoError(t, err)
	assert.Equal(t, "cached-dsn", got)

	_, err = c.Resolve(context.Background(), "no-key")
	assert.Error(t, err)
}
