package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// welcomeTable mirrors examples/welcome/depara.yaml.
var welcomeTable = m.MappingTable{
	{Source: `SET @planName = AttributeValue("PlanName")`, Target: `{% let planName = context.journey.planName %}`},
	{Source: `%%=v(@firstName)=%%`, Target: `{{ profile.person.name.firstName }}`},
	{Source: `%%=v(@imgUrl)=%%`, Target: ``},
}

func TestPipelineConvert(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile(filepath.Join("..", "..", "examples", "welcome", "input.html"))
	require.NoError(t, err)

	doc := string(raw)
	pipeline := NewPipeline(welcomeTable)

	out, log := pipeline.Convert(doc)

	t.Run("let rows hoist a live binding out of the commented block", func(t *testing.T) {
		assert.Contains(t, out, "{% let planName = context.journey.planName %}")
	})

	t.Run("conditions and prints use the let-bound name", func(t *testing.T) {
		assert.Contains(t, out, "{% if length(planName) > 0 %}")
		assert.Contains(t, out, "You joined {{ planName }}.")
		assert.Contains(t, out, "{% else %}")
		assert.Contains(t, out, "{%/if%}")
	})

	t.Run("table rows substitute literally", func(t *testing.T) {
		assert.Contains(t, out, "Welcome, {{ profile.person.name.firstName }}!")
	})

	t.Run("unknown condition variables still translate", func(t *testing.T) {
		assert.Contains(t, out, "{% if promoCode == 'VIP' %}")
	})

	t.Run("no AMPscript delimiters survive uncommented", func(t *testing.T) {
		assert.NotContains(t, out, "%%[ IF")
		assert.NotContains(t, out, "ENDIF")
	})

	t.Run("attribute tokens are neutralized, body tokens commented", func(t *testing.T) {
		assert.Contains(t, out, `src="" <!-- %%=v(@imgUrl)=%% -->`)
		assert.Contains(t, out, "<!-- %%=v(@mystery)=%% -->")
	})

	t.Run("run log totals reflect the table pass", func(t *testing.T) {
		assert.Equal(t, 3, log.MatchesFound)
		assert.Equal(t, 2, log.Substitutions)
	})

	t.Run("only the never-covered condition variable is reported", func(t *testing.T) {
		assert.Equal(t, []string{"promocode"}, log.Unmapped)
	})

	t.Run("every commented fragment is logged with its line", func(t *testing.T) {
		require.Len(t, log.Commented, 3)

		for _, fragment := range log.Commented {
			assert.Positive(t, fragment.Line)
			assert.NotEmpty(t, fragment.Snippet)
		}
	})
}

func TestPipelineConvertIsDeterministic(t *testing.T) {
	t.Parallel()

	doc := `%%[ IF NOT EMPTY(@planName) THEN ]%%%%=v(@planName)=%%%%[ ENDIF ]%%`
	pipeline := NewPipeline(welcomeTable)

	first, _ := pipeline.Convert(doc)
	second, _ := pipeline.Convert(doc)

	assert.Equal(t, first, second)
}

func TestPipelineSharedStateIsolation(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(welcomeTable)

	// A document that triggers condition-time coverage learning must not
	// change what a later document reports.
	_, _ = pipeline.Convert(`%%[ IF NOT EMPTY(@planName) THEN ]%%x%%[ ENDIF ]%%`)
	_, log := pipeline.Convert(`%%[ IF @promoCode == "VIP" THEN ]%%y%%[ ENDIF ]%%`)

	assert.Equal(t, []string{"promocode"}, log.Unmapped)
}
