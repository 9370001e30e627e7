package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mintaka-labs/pennywise/pkg/catalog"
)

func TestNew_LocaleMatching(t *testing.T) {
	t.Run("exact", func(t *testing.T) {
		c, err := catalog.New("pt-BR")
		require.NoError(t, err)
		assert.Equal(t, language.MustParse("pt-BR"), c.Tag())
	})

	t.Run("base language matches regional file", func(t *testing.T) {
		c, err := catalog.New("pt")
		require.NoError(t, err)
		assert.Equal(t, language.MustParse("pt-BR"), c.Tag())
	})

	t.Run("unknown falls back to english", func(t *testing.T) {
		c, err := catalog.New("zh")
		require.NoError(t, err)
		assert.Equal(t, language.English, c.Tag())
	})

	t.Run("empty falls back to english", func(t *testing.T) {
		c, err := catalog.New("")
		require.NoError(t, err)
		assert.Equal(t, language.English, c.Tag())
	})
}

func TestCatalog_Any(t *testing.T) {
	c, err := catalog.New("en")
	require.NoError(t, err)

	t.Run("returns a known variant", func(t *testing.T) {
		seen := map[string]bool{}
		for range 50 {
			seen[c.Any("greetings", nil)] = true
		}
		for msg := range seen {
			assert.Contains(t, []string{"Hi there!", "Hello!", "Hey!"}, msg)
		}
	})

	t.Run("interpolates vars", func(t *testing.T) {
		msg := c.Any("budget_set", map[string]string{"budget": "300"})
		assert.Equal(t, "Got it, your weekly budget is now $300.", msg)
	})

	t.Run("unknown key yields empty string", func(t *testing.T) {
		assert.Empty(t, c.Any("does_not_exist", nil))
	})
}

func TestCatalog_Get(t *testing.T) {
	c, err := catalog.New("en")
	require.NoError(t, err)

	assert.NotEmpty(t, c.Get("joke", 0, ""))
	assert.NotEqual(t, c.Get("joke", 0, ""), c.Get("joke", 1, ""))
	assert.Equal(t, "fallback", c.Get("joke", 99, "fallback"))
	assert.Equal(t, "fallback", c.Get("joke", -1, "fallback"))
}

func TestCatalog_Count(t *testing.T) {
	c, err := catalog.New("en")
	require.NoError(t, err)

	assert.Equal(t, 3, c.Count("joke"))
	assert.Zero(t, c.Count("does_not_exist"))
}
