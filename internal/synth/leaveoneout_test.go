package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptd/pkg/types"
)

func threeExamples() []types.Example {
	return []types.Example{
		{Input: "2,4,6", Output: "8"},
		{Input: "1,3,5", Output: "7"},
		{Input: "10,20,30", Output: "40"},
	}
}

func TestBuildProducesOneInstancePerExample(t *testing.T) {
	examples := threeExamples()

	instances, err := Build(examples)
	require.NoError(t, err)
	require.Len(t, instances, len(examples))

	for i, inst := range instances {
		held := examples[i]
		assert.Equal(t, held.Output, inst.Target, "instance %d", i)
		assert.True(t, strings.HasSuffix(inst.Prompt, "Input: "+held.Input+"\nOutput:"), "instance %d prompt: %q", i, inst.Prompt)
		// The held-out output never leaks into the prompt.
		assert.NotContains(t, inst.Prompt, "Output: "+held.Output+"\n")
		// Every other example appears in original order.
		for j, other := range examples {
			if j == i {
				continue
			}
			assert.Contains(t, inst.Prompt, "Input: "+other.Input+"\nOutput: "+other.Output+"\n")
		}
	}
}

func TestBuildHeldOutTargetsAreDistinct(t *testing.T) {
	instances, err := Build(threeExamples())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, inst := range instances {
		assert.False(t, seen[inst.Target], "duplicate target %q", inst.Target)
		seen[inst.Target] = true
	}
}

func TestBuildTooFewExamples(t *testing.T) {
	_, err := Build(nil)
	require.Error(t, err)
	assert.True(t, IsTooFew(err))

	_, err = Build([]types.Example{{Input: "a", Output: "b"}})
	require.Error(t, err)
	assert.True(t, IsTooFew(err))
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build(threeExamples())
	require.NoError(t, err)
	b, err := Build(threeExamples())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSerializeCanonicalForm(t *testing.T) {
	out := Serialize([]types.Example{
		{Context: "arithmetic", Input: "2+2", Output: "4"},
		{Input: "3+3", Output: "6"},
	})
	want := "Context: arithmetic\nInput: 2+2\nOutput: 4\n\nInput: 3+3\nOutput: 6\n"
	assert.Equal(t, want, out)
}
