// Package prompts composes the text sent to the AI router: enhanced-task
// tagging, the role and knowledge preamble, and the formatted reply.
package prompts

import "strings"

// task is an enhanced task the assistant has a richer answer format for.
// The template documents that format; only the id reaches the prompt.
type task struct {
	id       string
	triggers []string
	template string
}

// tasks are checked in order; the first match wins.
var tasks = []task{
	{
		id:       "release_checklist",
		triggers: []string{"release", "checklist", "plan", "launch"},
		template: releaseChecklistTemplate,
	},
	{
		id:       "social_media_post",
		triggers: []string{"post", "social", "instagram", "twitter", "tiktok"},
		template: socialMediaPostTemplate,
	},
	{
		id:       "royalty_explanation",
		triggers: []string{"royalty", "earnings", "revenue", "payment"},
		template: royaltyExplanationTemplate,
	},
}

// DetectTask returns the id of the first task with a trigger contained in
// the lowercased message, or "".
func DetectTask(message string) string {
	lower := strings.ToLower(message)
	for _, t := range tasks {
		for _, trigger := range t.triggers {
			if strings.Contains(lower, trigger) {
				return t.id
			}
		}
	}
	return ""
}

// Tag appends the enhanced task marker to message. An empty task leaves
// the message unchanged.
func Tag(message, task string) string {
	if task == "" {
		return message
	}
	return message + "\n\n[ENHANCED TASK: " + task + "]"
}

const releaseChecklistTemplate = `Generate a comprehensive release checklist for {releaseType} with timeline:

**PRE-PRODUCTION (8-12 weeks before)**
- [ ] Finalize track selection and order
- [ ] Create/verify split sheets in indii.music
- [ ] Register with PRO (ASCAP/BMI/SESAC)
- [ ] Plan marketing strategy

**PRODUCTION (6-8 weeks before)**
- [ ] Complete mixing and mastering
- [ ] Create high-resolution artwork (3000x3000px)
- [ ] Prepare metadata (ISRC, genre, mood tags)
- [ ] Set up Sound Locker exclusive content

**PRE-RELEASE (4-6 weeks before)**
- [ ] Submit to indii.music distribution
- [ ] Generate smart links and EPK
- [ ] Pitch to playlist curators
- [ ] Schedule social media content

**RELEASE WEEK**
- [ ] Monitor analytics dashboard
- [ ] Engage with fans via Sound Locker
- [ ] Share on social media
- [ ] Track playlist adds

**POST-RELEASE (1-4 weeks after)**
- [ ] Analyze performance metrics
- [ ] Plan follow-up content
- [ ] Consider sync licensing opportunities
- [ ] Prepare next release`

const socialMediaPostTemplate = `🎵 **NEW RELEASE ALERT** 🎵

"{trackTitle}" is now live on indii.music!

✨ {genreVibes} vibes for your {mood} playlist
🎧 Stream now: [indii.music link]
🔐 Exclusive content in Sound Locker
💿 Available on all platforms

#{genre} #indiimusic #independentartist #newmusic #{artistName}

---
📸 Visual suggestion: Studio shot with artwork overlay
⏰ Best posting time: {timeRecommendation}
🎯 Target: {targetAudience}`

const royaltyExplanationTemplate = `**Your Royalty Breakdown - Simple Explanation**

💰 **Total Earnings:** ${totalEarnings}
📈 **Change from last month:** {changePercent}%

**Where your money came from:**
🎵 Streaming (Spotify, Apple Music): ${streamingRevenue}
📻 Performance (ASCAP/BMI): ${performanceRevenue}
🎬 Sync Licensing: ${syncRevenue}
🔐 Sound Locker Sales: ${directRevenue}

**Platform fees (transparent):**
- indii.music commission: {platformFee}% (${platformFeeAmount})
- Payment processing: ${processingFee}
- **You keep:** ${netPayout} ({artistShare}%)

**What this means:** {explanation}

**Next steps:** {recommendations}`
