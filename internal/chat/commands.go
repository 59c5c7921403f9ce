package chat

import (
	"fmt"
	"strings"
)

// command answers a slash command for the given current role.
func (h *Handler) command(message, roleID string) string {
	parts := strings.Split(message, " ")
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "/help":
		return h.helpReply()
	case "/roles":
		return h.rolesReply(roleID)
	case "/demo":
		return demoReply
	case "/status":
		return h.statusReply(roleID)
	case "/switch":
		var target string
		if len(args) > 0 {
			target = args[0]
		}
		return h.switchReply(target)
	default:
		return fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)
	}
}

func (h *Handler) helpReply() string {
	var lines []string
	for _, r := range h.roles.All() {
		lines = append(lines, fmt.Sprintf("%s %s (%s)", r.Icon, r.Name, r.ID))
	}

	return `🎵 **indii.music AI Assistant Commands**

**System Commands:**
/help - Show this help message
/roles - List all available roles
/demo - See enhanced AI capabilities
/status - Check system status
/switch [role] - Switch to a different role

**Available Roles:**
` + strings.Join(lines, "\n") + `

**Enhanced AI Features:**
- Release checklist generation
- Social media post creation
- Royalty explanations
- Marketing strategy advice
- Career development guidance

Just start typing to chat with me in any role!`
}

func (h *Handler) rolesReply(current string) string {
	var cards []string
	for _, r := range h.roles.All() {
		card := fmt.Sprintf("%s **%s** (%s)\n  %s\n\n  **Expertise:** %s",
			r.Icon, r.Name, r.ID, r.Description, strings.Join(r.Expertise, ", "))
		if r.ID == current {
			card += "\n  ← *Currently Active*"
		}
		cards = append(cards, card)
	}

	return "🎭 **Available indii.music AI Assistants**\n\n" +
		strings.Join(cards, "\n\n") +
		"\n\nUse /switch [role-id] to switch roles or just mention what you need help with!"
}

const demoReply = `🚀 **Enhanced AI Capabilities Demo**

**🎵 Artist Assistant Powers:**
- "Help me create a release checklist" → Full timeline with tasks
- "Write an Instagram post for my new song" → Platform-optimized content
- "Explain my royalty statement" → Clear revenue breakdown
- "Plan my marketing strategy" → Comprehensive campaign plan

**🎧 Fan Assistant Powers:**
- "Create a chill playlist for studying" → Personalized recommendations
- "Find artists similar to [artist]" → Discovery suggestions
- "What's new in indie rock?" → Latest releases and trends

**🎬 Sync Licensing Powers:**
- "Find music for a car commercial" → Filtered search results
- "Explain sync licensing terms" → Clear contract guidance

**Try asking me anything! I'm powered by advanced AI with deep music industry knowledge.**`

func (h *Handler) statusReply(roleID string) string {
	configured := h.router.Available()

	aiStatus := "❌ Not configured"
	footer := "⚠️ Please configure API key to enable AI responses."
	if len(configured) > 0 {
		aiStatus = fmt.Sprintf("✅ Fully Operational (%s)", strings.Join(configured, ", "))
		footer = "🎶 Ready to help with your music career!"
	}

	return fmt.Sprintf(`🔥 **indii.music System Status**

🎵 **Application:** Running on %s
🤖 **AI System:** %s
🎭 **Active Roles:** %d specialized assistants
📚 **Knowledge Base:** ✅ Loaded with music industry expertise
🚀 **Enhanced Features:** ✅ Release planning, social media, royalty analysis
🔧 **API Integration:** ✅ Multi-provider support ready

**Current Role:** %s

%s`, h.address, aiStatus, h.roles.Len(), h.roles.GetRoleByID(roleID).Name, footer)
}

func (h *Handler) switchReply(target string) string {
	ids := strings.Join(h.roles.IDs(), ", ")
	if target == "" {
		return "Please specify a role. Usage: /switch [role-id]\nAvailable roles: " + ids
	}

	role, ok := h.roles.Lookup(target)
	if !ok {
		return fmt.Sprintf("Role '%s' not found. Available roles: %s", target, ids)
	}

	return fmt.Sprintf(`🎭 **Switched to %s**

%s **%s**
%s

**My expertise:** %s

How can I help you today?`, role.Name, role.Icon, role.Name, role.Description, strings.Join(role.Expertise, ", "))
}
