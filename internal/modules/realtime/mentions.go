package realtime

import (
	"regexp"
	"strconv"
)

// Mentions are embedded in comment text as @[display name](userID).
var mentionPattern = regexp.MustCompile(`@\[[^\]]+\]\((\d+)\)`)

// ParseMentions extracts the distinct mentioned user IDs from a comment, in
// order of first appearance.
func ParseMentions(text string) []int64 {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int64]bool, len(matches))
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
