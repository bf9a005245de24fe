package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

func translateHelper(t *testing.T, cond string, mapping m.VariableMapping, covered m.CoveredSet) (Translation, m.WarningLog) {
	t.Helper()

	if mapping == nil {
		mapping = m.VariableMapping{}
	}

	if covered == nil {
		covered = m.CoveredSet{}
	}

	warnings := m.WarningLog{}
	result := TranslateCondition(cond, &warnings, mapping, covered)

	return result, warnings
}

func TestTranslateCondition(t *testing.T) {
	t.Run("NOT EMPTY becomes a length > 0 test", func(t *testing.T) {
		mapping := m.VariableMapping{"foo": "profile.foo"}

		result, _ := translateHelper(t, "NOT EMPTY(@Foo)", mapping, nil)

		require.False(t, result.Passthrough)
		assert.Equal(t, "{% if length(profile.foo) > 0 %}", result.Text)
	})

	t.Run("EMPTY becomes a length == 0 test", func(t *testing.T) {
		mapping := m.VariableMapping{"foo": "profile.foo"}

		result, _ := translateHelper(t, "EMPTY( @foo )", mapping, nil)

		assert.Equal(t, "{% if length(profile.foo) == 0 %}", result.Text)
	})

	t.Run("CONTAINS keeps the literal verbatim", func(t *testing.T) {
		mapping := m.VariableMapping{"plan": "profile.plan.name"}

		result, _ := translateHelper(t, "CONTAINS(@plan, 'Gold')", mapping, nil)

		assert.Equal(t, "{% if contains(profile.plan.name, 'Gold') %}", result.Text)
	})

	t.Run("equality and inequality comparisons", func(t *testing.T) {
		mapping := m.VariableMapping{"tier": "profile.tier"}

		eq, _ := translateHelper(t, "@tier == 'VIP'", mapping, nil)
		assert.Equal(t, "{% if profile.tier == 'VIP' %}", eq.Text)

		ne, _ := translateHelper(t, "@tier != 'VIP'", mapping, nil)
		assert.Equal(t, "{% if profile.tier != 'VIP' %}", ne.Text)
	})

	t.Run("bare variable becomes a truthiness test", func(t *testing.T) {
		mapping := m.VariableMapping{"optin": "profile.consents.marketing"}

		result, _ := translateHelper(t, "  @optIn  ", mapping, nil)

		assert.Equal(t, "{% if profile.consents.marketing %}", result.Text)
	})

	t.Run("unmapped variable keeps its raw name and is warned about", func(t *testing.T) {
		result, warnings := translateHelper(t, "@Bar == 'X'", nil, nil)

		assert.Equal(t, "{% if Bar == 'X' %}", result.Text)
		assert.Contains(t, warnings, "Bar")
	})

	t.Run("allow-listed identity fields are never warned about", func(t *testing.T) {
		_, warnings := translateHelper(t, "NOT EMPTY(@FirstName)", nil, nil)

		assert.Empty(t, warnings)
	})

	t.Run("covered variables are not warned about", func(t *testing.T) {
		covered := m.CoveredSet{}
		covered.Add("promo")

		_, warnings := translateHelper(t, "@promo", nil, covered)

		assert.Empty(t, warnings)
	})

	t.Run("resolution inside a condition marks the variable covered", func(t *testing.T) {
		mapping := m.VariableMapping{"foo": "profile.foo"}
		covered := m.CoveredSet{}
		warnings := m.WarningLog{}

		TranslateCondition("NOT EMPTY(@foo)", &warnings, mapping, covered)

		assert.True(t, covered.Has("foo"))
	})

	t.Run("covered set only grows", func(t *testing.T) {
		mapping := m.VariableMapping{"foo": "profile.foo"}
		covered := m.CoveredSet{}
		covered.Add("sticky")

		warnings := m.WarningLog{}
		TranslateCondition("NOT EMPTY(@foo)", &warnings, mapping, covered)

		assert.True(t, covered.Has("sticky"))
		assert.True(t, covered.Has("foo"))
	})

	t.Run("elseif recursion rewrites the opening marker", func(t *testing.T) {
		mapping := m.VariableMapping{"tier": "profile.tier"}

		result, _ := translateHelper(t, "ELSEIF @tier", mapping, nil)

		assert.Equal(t, "{% elseif profile.tier %}", result.Text)
	})

	t.Run("unknown syntax degrades to a passthrough comment", func(t *testing.T) {
		result, _ := translateHelper(t, "RowCount(@rows) > 3", nil, nil)

		require.True(t, result.Passthrough)
		assert.Equal(t, "<!-- Untranslated condition: RowCount(@rows) > 3 -->", result.Text)
		assert.NotEmpty(t, result.Reason)
	})

	t.Run("matching ignores case and internal whitespace", func(t *testing.T) {
		mapping := m.VariableMapping{"foo": "profile.foo"}

		result, _ := translateHelper(t, "not  Empty ( @FOO )", mapping, nil)

		assert.Equal(t, "{% if length(profile.foo) > 0 %}", result.Text)
	})

	t.Run("NOT EMPTY wins over the looser EMPTY pattern", func(t *testing.T) {
		mapping := m.VariableMapping{"foo": "profile.foo"}

		result, _ := translateHelper(t, "NOT EMPTY(@foo)", mapping, nil)

		assert.NotContains(t, result.Text, "== 0")
	})
}
