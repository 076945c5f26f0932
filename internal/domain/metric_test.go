package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity("Medium")
	require.NoError(t, err)
	assert.Equal(t, SeverityMedium, sev)
	assert.Equal(t, "medium", sev.Lower())

	_, err = ParseSeverity("medium")
	assert.Error(t, err, "lower-case is the finding form, not an input form")

	_, err = ParseSeverity("Critical")
	assert.Error(t, err)
}

func TestParseTeam(t *testing.T) {
	for _, name := range []string{"Sales", "Customer Success", "All"} {
		_, err := ParseTeam(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseTeam("Legal")
	assert.Error(t, err)
}

func TestConflictingMetric_Check(t *testing.T) {
	t.Run("consistent metric has no warnings", func(t *testing.T) {
		m := ConflictingMetric{
			ID: 1, Name: "Churn Rate", Severity: SeverityHigh,
			Teams: []Team{TeamSales, TeamFinance},
			Definitions: []Definition{
				{Team: TeamSales, Definition: "a"},
				{Team: TeamFinance, Definition: "b"},
			},
		}
		warnings, err := m.Check()
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("empty teams is fatal", func(t *testing.T) {
		_, err := ConflictingMetric{ID: 2, Name: "Orphan", Severity: SeverityLow}.Check()
		assert.Error(t, err)
	})

	t.Run("unknown severity is fatal", func(t *testing.T) {
		_, err := ConflictingMetric{ID: 3, Name: "X", Severity: "Extreme", Teams: []Team{TeamData}}.Check()
		assert.Error(t, err)
	})

	t.Run("soft violations become warnings", func(t *testing.T) {
		m := ConflictingMetric{
			ID: 4, Name: "Engagement", Severity: SeverityMedium,
			Teams:       []Team{TeamMarketing, TeamAll},
			Definitions: []Definition{{Team: TeamProduct, Definition: "usage"}},
		}
		warnings, err := m.Check()
		require.NoError(t, err)
		assert.Len(t, warnings, 3)
	})
}

func TestConflictingMetric_CloneIsDeep(t *testing.T) {
	orig := ConflictingMetric{
		Teams:       []Team{TeamSales},
		Definitions: []Definition{{Team: TeamSales, Definition: "x"}},
	}
	c := orig.Clone()
	c.Teams[0] = TeamData
	c.Definitions[0].Definition = "changed"

	assert.Equal(t, TeamSales, orig.Teams[0])
	assert.Equal(t, "x", orig.Definitions[0].Definition)
}

func TestPresentationColors(t *testing.T) {
	c, err := SeverityColor(SeverityHigh)
	require.NoError(t, err)
	assert.Equal(t, "red", c)

	c, err = TeamColor(TeamAll)
	require.NoError(t, err)
	assert.Equal(t, "slate", c)

	c, err = AlignmentColor(AlignmentPartial)
	require.NoError(t, err)
	assert.Equal(t, "yellow", c)

	_, err = SeverityColor("Unknown")
	assert.Error(t, err)
	_, err = TeamColor("Legal")
	assert.Error(t, err)
	_, err = AlignmentColor("Sort of")
	assert.Error(t, err)

	for _, team := range Departments {
		_, err := TeamColor(team)
		assert.NoError(t, err, team)
	}
}

func TestSeverityHex(t *testing.T) {
	for _, sev := range Severities {
		hex, err := SeverityHex(sev)
		require.NoError(t, err, sev)
		assert.Len(t, hex, 6, sev)
	}

	hex, err := SeverityHex(SeverityHigh)
	require.NoError(t, err)
	assert.Equal(t, "dc2626", hex)

	_, err = SeverityHex("Critical")
	assert.Error(t, err)
}

func TestGlossaryTerm_CloneNormalisesRelatedTerms(t *testing.T) {
	g := GlossaryTerm{Name: "NPS"}.Clone()
	assert.NotNil(t, g.RelatedTerms)
	assert.Empty(t, g.RelatedTerms)
}
