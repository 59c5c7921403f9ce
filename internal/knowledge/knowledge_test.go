package knowledge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSections(t *testing.T) {
	assert.Equal(t,
		[]string{"platform", "artist", "fan", "licensing", "marketplace", "legal", "general"},
		Default().Sections())
}

func TestLegalDisclaimerIsText(t *testing.T) {
	legal := Default().Section("legal")
	require.NotNil(t, legal)

	d := legal.Get("disclaimer")
	require.NotNil(t, d)
	assert.Equal(t, KindText, d.Kind)
	assert.Contains(t, d.Text, "does not constitute legal advice")
}

func TestForRoleOrder(t *testing.T) {
	tests := []struct {
		role string
		keys []string
	}{
		{"artist", []string{"platform", "gettingStarted", "features", "support", "releaseChecklist", "marketingStrategy", "royaltyTypes", "collaboration"}},
		{"fan", []string{"platform", "gettingStarted", "features", "support", "discovery", "engagement", "soundLocker"}},
		{"licensor", []string{"platform", "gettingStarted", "features", "support"}},
		{"general", []string{"platform", "gettingStarted", "features", "support"}},
		{"unknown", []string{"platform", "gettingStarted", "features", "support"}},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.keys, Default().ForRole(tt.role).Keys())
		})
	}
}

func TestForRoleOverwritesInPlace(t *testing.T) {
	// The platform section's own "features" replaces general's at the same
	// position.
	v := Default().ForRole("platform")
	assert.Equal(t, []string{"platform", "gettingStarted", "features", "support", "mission", "principles"}, v.Keys())
	assert.Equal(t, "Unified Dashboard (customizable, role-based)", v.Get("features").Items[0])
}

func TestForRoleReturnsCopy(t *testing.T) {
	v := Default().ForRole("artist")
	v.Get("releaseChecklist").Items[0] = "mutated"

	again := Default().ForRole("artist")
	assert.NotEqual(t, "mutated", again.Get("releaseChecklist").Items[0])
}

func TestJSONKeepsOrderAndAmpersands(t *testing.T) {
	out, err := Default().ForRole("legal").JSON()
	require.NoError(t, err)

	assert.Contains(t, out, "\n  \"platform\": {\n    \"mission\":")
	assert.Contains(t, out, "Music Distribution & Royalty Management")
	assert.NotContains(t, out, `\u0026`)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "disclaimer")
}

func TestSearchRanksByRelevance(t *testing.T) {
	results := Default().Search("royalt", "")
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Relevance, results[i].Relevance)
	}
	assert.Equal(t, "artist.royaltyTypes[2]", results[0].Path)
	assert.Equal(t, 5, results[0].Relevance)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	results := Default().Search("SOUND LOCKER", "fan")
	require.NotEmpty(t, results)

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	assert.Contains(t, paths, "engagement[0]")
	assert.Contains(t, paths, "platform.features[6]")
}

func TestSearchCategories(t *testing.T) {
	results := Default().Search("educational purposes", "")
	require.Len(t, results, 1)
	assert.Equal(t, Result{
		Path:      "legal.disclaimer",
		Content:   Default().Section("legal").Get("disclaimer").Text,
		Category:  "legal",
		Relevance: 24,
	}, results[0])

	results = Default().Search("ascap", "artist")
	require.NotEmpty(t, results)
	assert.Equal(t, "releaseChecklist[4]", results[0].Path)
	assert.Equal(t, "releaseChecklist", results[0].Category)
}

func TestSearchRoleScope(t *testing.T) {
	assert.Empty(t, Default().Search("escrow", "fan"))
	assert.NotEmpty(t, Default().Search("escrow", ""))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"scalar root", "hello"},
		{"scalar section", "platform: text"},
		{"nested list", "platform:\n  items:\n    - [a, b]"},
		{"malformed", "platform: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
