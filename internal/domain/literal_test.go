package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

func TestBuildFlexPattern(t *testing.T) {
	t.Parallel()

	t.Run("whitespace runs match any whitespace run in the document", func(t *testing.T) {
		pattern := BuildFlexPattern("Dear %%=v(@firstName)=%%,")

		assert.True(t, pattern.MatchString("Dear %%=v(@firstName)=%%,"))
		assert.True(t, pattern.MatchString("Dear\n\t %%=v(@firstName)=%%,"))
		assert.True(t, pattern.MatchString("Dear%%=v(@firstName)=%%,"))
	})

	t.Run("equals signs tolerate surrounding whitespace", func(t *testing.T) {
		pattern := BuildFlexPattern(`SET @name = "x"`)

		assert.True(t, pattern.MatchString(`SET @name="x"`))
		assert.True(t, pattern.MatchString(`SET @name  =  "x"`))
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		pattern := BuildFlexPattern("%%=v(@firstName)=%%")

		assert.True(t, pattern.MatchString("%%=V(@FIRSTNAME)=%%"))
	})

	t.Run("regex metacharacters in the snippet are literal", func(t *testing.T) {
		pattern := BuildFlexPattern("a.b(c)*d")

		assert.True(t, pattern.MatchString("a.b(c)*d"))
		assert.False(t, pattern.MatchString("aXb(c)*d"))
	})

	t.Run("leading and trailing whitespace is ignored", func(t *testing.T) {
		pattern := BuildFlexPattern("  hello  ")

		assert.True(t, pattern.MatchString("hello"))
	})
}

func TestSubstituteTable(t *testing.T) {
	t.Parallel()

	t.Run("replaces every occurrence and counts them", func(t *testing.T) {
		table := m.MappingTable{
			{Source: "%%=v(@firstName)=%%", Target: "{{ profile.person.name.firstName }}"},
		}

		out, found, replaced := SubstituteTable(
			"Hi %%=v(@firstName)=%%! Bye %%=v(@firstName)=%%.", table)

		assert.Equal(t, "Hi {{ profile.person.name.firstName }}! Bye {{ profile.person.name.firstName }}.", out)
		assert.Equal(t, 2, found)
		assert.Equal(t, 2, replaced)
	})

	t.Run("longer sources are applied before their own substrings", func(t *testing.T) {
		table := m.MappingTable{
			{Source: "@name", Target: "SHORT"},
			{Source: `SET @name = "x"`, Target: "LONG"},
		}

		out, found, replaced := SubstituteTable(`SET @name = "x" and @name`, table)

		require.Contains(t, out, "LONG")
		assert.Equal(t, "LONG and SHORT", out)
		assert.Equal(t, 2, found)
		assert.Equal(t, 2, replaced)
	})

	t.Run("blank targets count as found but leave the document alone", func(t *testing.T) {
		table := m.MappingTable{
			{Source: "%%=v(@legacy)=%%", Target: "   "},
		}

		out, found, replaced := SubstituteTable("x %%=v(@legacy)=%% y", table)

		assert.Equal(t, "x %%=v(@legacy)=%% y", out)
		assert.Equal(t, 1, found)
		assert.Equal(t, 0, replaced)
	})

	t.Run("blank sources are skipped entirely", func(t *testing.T) {
		table := m.MappingTable{
			{Source: "  ", Target: "boom"},
		}

		out, found, replaced := SubstituteTable("untouched", table)

		assert.Equal(t, "untouched", out)
		assert.Zero(t, found)
		assert.Zero(t, replaced)
	})

	t.Run("targets are inserted literally", func(t *testing.T) {
		table := m.MappingTable{
			{Source: "token", Target: "{{ profile.a }}$1"},
		}

		out, _, _ := SubstituteTable("token", table)

		assert.Equal(t, "{{ profile.a }}$1", out)
	})

	t.Run("document casing may differ from the source row", func(t *testing.T) {
		table := m.MappingTable{
			{Source: "%%=v(@firstName)=%%", Target: "{{ profile.person.name.firstName }}"},
		}

		out, found, _ := SubstituteTable("%%=V(@FIRSTNAME)=%%", table)

		assert.Equal(t, "{{ profile.person.name.firstName }}", out)
		assert.Equal(t, 1, found)
	})
}
