package service

import (
	"fmt"

	"github.com/featherlink/linkbot/internal/biz/domain"
)

const generalHelp = `**Reaction Commands:**
❌ on a link message soft-deletes the link and withdraws the message.

**Available commands:**

**--- help ---**
!help [command]         -   Get help with a command.

**--- data manipulation ---**
!categorized-links      -   Get all active links grouped by categories.
!display-links [-d]     -   Displays all non-deleted links. Add -d flag to get deleted links as well.
!delete <link_id>       -   Soft-deletes a link by link_id.
!restore <link_id>      -   Restores deleted link by link_id. Get from !display-links -d

**--- exclude chat ---**
!exclude <chat_id>      -   Exclude a chat id from link scanning.
!list-excluded          -   List excluded chat ids.
!unexclude <chat_id>    -   Unexclude a chat id.`

// helpTopics maps a command word to its detailed help text
var helpTopics = map[string]string{
	"help": `**Command Help**: !help [command]
- Displays general help or detailed command information
- Works with or without exclamation mark
- Example: !help delete or !help !restore`,

	"categorized-links": `**Command Help**: !categorized-links
- Displays active links organized by category
- Shows link ID, URL, and summary preview
- Example: !categorized-links`,

	"display-links": `**Command Help**: !display-links [-d]
- Lists stored links with their status
- Add -d flag to include deleted links
- Shows link ID, URL, and deletion status
- Example: !display-links or !display-links -d`,

	"delete": `**Command Help**: !delete <link_id>
- Soft-deletes specified link (marks as deleted)
- Requires valid link ID from !display-links
- Deleted links can be restored
- Example: !delete 42`,

	"restore": `**Command Help**: !restore <link_id>
- Restores previously deleted link
- Requires link ID from !display-links -d
- Returns link to active status
- Example: !restore 42`,

	"exclude": `**Command Help**: !exclude <chat_id>
- Adds a chat to the exclusion list
- Prevents link scanning in the specified chat
- Example: !exclude oc_a1b2c3`,

	"list-excluded": `**Command Help**: !list-excluded
- Shows all excluded chats
- Example: !list-excluded`,

	"unexclude": `**Command Help**: !unexclude <chat_id>
- Removes a chat from the exclusion list
- Re-enables link scanning in the chat
- Example: !unexclude oc_a1b2c3`,
}

// handleHelp returns general help or a per-command topic
func (s *CommandService) handleHelp(inv *domain.Invocation) string {
	topic := inv.HelpTopic()
	if topic == "" {
		return generalHelp
	}
	if text, ok := helpTopics[topic]; ok {
		return text
	}
	return fmt.Sprintf("Command '%s' not found. Try !help for general assistance", topic)
}
