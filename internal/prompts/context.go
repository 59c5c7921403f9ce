package prompts

import (
	"fmt"
	"strings"

	"github.com/indiimusic/indii/internal/knowledge"
	"github.com/indiimusic/indii/internal/roles"
)

const platformContext = "indii.music is a comprehensive ecosystem for independent artists featuring integrated distribution, royalty management, AI assistance, collaboration tools, sync licensing, fan engagement, and service marketplace."

// Contextual prepends the role and knowledge preamble to message.
func Contextual(message string, kb *knowledge.Value, role roles.Role) (string, error) {
	kbJSON, err := kb.JSON()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s for indii.music.\n", role.Name)
	fmt.Fprintf(&b, "Your expertise: %s.\n", strings.Join(role.Expertise, ", "))
	fmt.Fprintf(&b, "Your role: %s.\n\n", role.Description)
	fmt.Fprintf(&b, "Platform context: %s\n\n", platformContext)
	b.WriteString("Key principles: Integration, Transparency, Fairness, Artist Empowerment.\n\n")
	fmt.Fprintf(&b, "Relevant knowledge: %s\n\n", kbJSON)
	b.WriteString("Please provide helpful, accurate, and actionable guidance. Be specific about indii.music features when relevant.")
	b.WriteString("\n\nUser: ")
	b.WriteString(message)

	return b.String(), nil
}

// FormatReply prefixes a provider reply with the role icon and name.
func FormatReply(text string, role roles.Role) string {
	return role.Icon + " **" + role.Name + "**\n\n" + text
}
