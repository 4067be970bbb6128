package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityRate(t *testing.T) {
	stack := newTechStack(defaultTechStack)

	cases := []struct {
		name      string
		declared  []string
		truncated int
		scaled    int
	}{
		{"nothing declared", nil, 0, 0},
		{"empty entry", []string{""}, 0, 0},
		{"one match", []string{"C#"}, 0, 25},
		{"two matches", []string{"C#", "RabbitMQ"}, 0, 50},
		{"three matches", []string{"C#", "RabbitMQ", "Microservice"}, 0, 75},
		{"all four", []string{"Visual Studio", "Microservice", "RabbitMQ", "C#"}, 100, 100},
		{"case folded", []string{"VISUAL STUDIO", "microservice", "rabbitmq", "c#"}, 100, 100},
		{"unknown entries ignored", []string{"Go", "Kafka", "C#"}, 0, 25},
		{"surrounding spaces do not match", []string{" C#"}, 0, 0},
		{"more matches than the set", []string{"C#", "C#", "C#", "C#", "C#", "C#", "C#", "C#"}, 200, 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.truncated, stack.similarityRate(tc.declared, TruncateThenScale))
			assert.Equal(t, tc.scaled, stack.similarityRate(tc.declared, ScaleThenTruncate))
		})
	}
}

func TestTechStackIsCopied(t *testing.T) {
	entries := []string{"C#"}
	stack := newTechStack(entries)
	entries[0] = "Go"

	assert.True(t, stack.contains("c#"))
	assert.False(t, stack.contains("Go"))
}

func TestParseMatchRateFormula(t *testing.T) {
	f, ok := ParseMatchRateFormula("")
	assert.True(t, ok)
	assert.Equal(t, TruncateThenScale, f)

	f, ok = ParseMatchRateFormula("scale_then_truncate")
	assert.True(t, ok)
	assert.Equal(t, ScaleThenTruncate, f)
	assert.Equal(t, "scale_then_truncate", f.String())

	_, ok = ParseMatchRateFormula("round")
	assert.False(t, ok)
}

func TestApplicationResultStrings(t *testing.T) {
	for result, name := range resultNames {
		parsed, err := ParseApplicationResult(name)
		assert.NoError(t, err)
		assert.Equal(t, result, parsed)
		assert.Equal(t, name, result.String())
	}

	_, err := ParseApplicationResult("maybe")
	assert.Error(t, err)
	assert.Equal(t, "application_result(42)", ApplicationResult(42).String())
}
