// Package mentions extracts @mention and #hashtag tokens from free text.
package mentions

import "regexp"

var (
	mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)
	hashtagPattern = regexp.MustCompile(`#([A-Za-z0-9_]+)`)
)

// Extract returns the usernames mentioned in text, without the @ prefix,
// deduplicated by exact match and in first-seen order.
func Extract(text string) []string {
	return extract(mentionPattern, text)
}

// Hashtags returns the hashtags in text, without the # prefix, deduplicated
// by exact match and in first-seen order.
func Hashtags(text string) []string {
	return extract(hashtagPattern, text)
}

func extract(pattern *regexp.Regexp, text string) []string {
	matches := pattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}
