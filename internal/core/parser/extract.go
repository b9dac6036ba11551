package parser

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"taskbot/internal/core/domain"
)

var (
	reQuoted       = regexp.MustCompile(`「([^」]*)」`)
	reSlackMention = regexp.MustCompile(`<@([A-Za-z0-9]+)(?:\|[^>]*)?>`)
	reBareMention  = regexp.MustCompile(`(?:^|[^A-Za-z0-9._%+\-])@([A-Za-z0-9][A-Za-z0-9._\-]*)`)
	reUUID         = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
)

// statusKeywords is ordered: 未完了 must win over 完了.
var statusKeywords = []struct {
	keyword string
	status  domain.TaskStatus
}{
	{"未完了", domain.TaskStatusPending},
	{"未着手", domain.TaskStatusPending},
	{"保留", domain.TaskStatusPending},
	{"進行中", domain.TaskStatusInProgress},
	{"作業中", domain.TaskStatusInProgress},
	{"対応中", domain.TaskStatusInProgress},
	{"キャンセル", domain.TaskStatusCancelled},
	{"中止", domain.TaskStatusCancelled},
	{"完了", domain.TaskStatusCompleted},
	{"終わった", domain.TaskStatusCompleted},
}

// ExtractQuoted returns the first 「…」 run, trimmed. An empty pair of
// brackets still counts as found.
func ExtractQuoted(text string) (string, bool) {
	all := ExtractQuotedAll(text)
	if len(all) == 0 {
		return "", false
	}
	return all[0], true
}

func ExtractQuotedAll(text string) []string {
	matches := reQuoted.FindAllStringSubmatch(normalize(text), -1)
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		values = append(values, strings.TrimSpace(m[1]))
	}
	return values
}

// ExtractMention returns the first user reference without its sigil. Slack
// encoded mentions take precedence over bare @name tokens.
func ExtractMention(text string) (string, bool) {
	value, _, ok := findMention(normalize(text))
	return value, ok
}

// ExtractUUID returns the first UUID literal. Callers decide whether it is a
// task or a handoff id.
func ExtractUUID(text string) (uuid.UUID, bool) {
	id, _, ok := findUUID(normalize(text))
	return id, ok
}

func ExtractStatus(text string) (domain.TaskStatus, bool) {
	text = normalize(text)
	for _, entry := range statusKeywords {
		if strings.Contains(text, entry.keyword) {
			return entry.status, true
		}
	}
	return "", false
}

// unquoted blanks out every 「…」 run so keywords inside a title or note are
// not read as command markers.
func unquoted(text string) string {
	return reQuoted.ReplaceAllString(text, " ")
}

func findMention(text string) (string, span, bool) {
	if loc := reSlackMention.FindStringSubmatchIndex(text); loc != nil {
		return text[loc[2]:loc[3]], span{loc[0], loc[1]}, true
	}
	if loc := reBareMention.FindStringSubmatchIndex(text); loc != nil {
		// the sigil sits right before the capture; the leading boundary
		// character is not part of the mention.
		return text[loc[2]:loc[3]], span{loc[2] - 1, loc[3]}, true
	}
	return "", span{}, false
}

func findUUID(text string) (uuid.UUID, span, bool) {
	for _, loc := range reUUID.FindAllStringIndex(text, -1) {
		id, err := uuid.Parse(text[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		return id, span{loc[0], loc[1]}, true
	}
	return uuid.Nil, span{}, false
}
