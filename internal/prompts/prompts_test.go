package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiimusic/indii/internal/knowledge"
	"github.com/indiimusic/indii/internal/roles"
)

func TestDetectTask(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Help me plan my album", "release_checklist"},
		{"LAUNCH day!", "release_checklist"},
		{"Write an Instagram caption", "social_media_post"},
		{"explain my royalty statement", "royalty_explanation"},
		{"how do payments work", "royalty_explanation"},
		{"release post about revenue", "release_checklist"},
		{"recommend some jazz", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTask(tt.message))
		})
	}
}

func TestTag(t *testing.T) {
	assert.Equal(t, "hi\n\n[ENHANCED TASK: social_media_post]", Tag("hi", "social_media_post"))
	assert.Equal(t, "hi", Tag("hi", ""))
}

func TestTaskTemplates(t *testing.T) {
	want := map[string]string{
		"release_checklist":   "**PRE-PRODUCTION (8-12 weeks before)**",
		"social_media_post":   "🎵 **NEW RELEASE ALERT** 🎵",
		"royalty_explanation": "**Your Royalty Breakdown - Simple Explanation**",
	}

	require.Len(t, tasks, len(want))
	for _, tk := range tasks {
		assert.Contains(t, tk.template, want[tk.id], tk.id)
	}
}

func TestContextual(t *testing.T) {
	role := roles.GetRoleByID("artist")
	kb := knowledge.Default().ForRole("artist")

	out, err := Contextual("tag me", kb, role)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "You are Artist Assistant for indii.music.\nYour expertise: Release planning & checklists, "))
	assert.Contains(t, out, "Your role: Your personal music career advisor and task manager.\n\n")
	assert.Contains(t, out, "Key principles: Integration, Transparency, Fairness, Artist Empowerment.")
	assert.Contains(t, out, "Relevant knowledge: {\n  \"platform\": {")
	assert.Contains(t, out, "\"releaseChecklist\": [")
	assert.True(t, strings.HasSuffix(out, "Be specific about indii.music features when relevant.\n\nUser: tag me"))
}

func TestFormatReply(t *testing.T) {
	got := FormatReply("Here is your plan.", roles.GetRoleByID("fan"))
	assert.Equal(t, "🎧 **Fan Assistant**\n\nHere is your plan.", got)
}
