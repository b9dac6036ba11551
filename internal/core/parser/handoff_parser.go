package parser

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"taskbot/internal/core/domain"
)

var (
	reHandoffKeyword  = regexp.MustCompile(`引き?継(?:ぎ|ぐ|いで)|ハンドオフ`)
	reHandoffList     = regexp.MustCompile(`一覧|リスト`)
	reHandoffComplete = regexp.MustCompile(`完了`)
	reHandoffAccept   = regexp.MustCompile(`受け入れ|受け取|受理|承認|了解`)
)

// particles are stripped from the end of leftover words when the progress
// note has to be taken from unquoted text.
var particles = []string{
	"お願いします", "お願い", "してください", "します", "して", "する",
	"として", "から", "まで", "さん", "に", "を", "へ",
}

type HandoffCommandParser struct {
	now func() time.Time
}

func NewHandoffCommandParser(now func() time.Time) *HandoffCommandParser {
	if now == nil {
		now = time.Now
	}
	return &HandoffCommandParser{now: now}
}

// Parse classifies handoff utterances. A register command is returned even
// when the target user, task id or time is missing so the caller can ask for
// the specific field. Keywords inside 「」 do not count.
func (p *HandoffCommandParser) Parse(text, userID string) (domain.ParsedCommand, bool) {
	text = normalize(text)
	bare := unquoted(text)
	hasMarker := reHandoffList.MatchString(bare) || reHandoffComplete.MatchString(bare) || reHandoffAccept.MatchString(bare)

	if !reHandoffKeyword.MatchString(bare) {
		if hasMarker {
			return domain.ParsedCommand{}, false
		}
		return p.parseMentionWithTime(text, userID)
	}

	id, _, hasID := findUUID(text)
	isList := reHandoffList.MatchString(bare)
	isComplete := hasID && reHandoffComplete.MatchString(bare)
	isAccept := hasID && reHandoffAccept.MatchString(bare)

	if !hasMarker {
		if payload, ok := p.parseRegister(text); ok {
			return domain.NewParsedCommand(userID, payload), true
		}
	}

	switch {
	case isComplete:
		return domain.NewParsedCommand(userID, domain.HandoffCompletePayload{HandoffID: id}), true
	case isAccept:
		return domain.NewParsedCommand(userID, domain.HandoffAcceptPayload{HandoffID: id}), true
	case isList:
		return domain.NewParsedCommand(userID, domain.HandoffListPayload{}), true
	}
	return domain.ParsedCommand{}, false
}

// parseMentionWithTime registers a handoff written without the keyword, e.g.
// "@bob 明日10時 API実装の続き". A mention, a time and some leftover text for
// the progress note are all required.
func (p *HandoffCommandParser) parseMentionWithTime(text, userID string) (domain.ParsedCommand, bool) {
	payload, ok := p.parseRegister(text)
	if !ok || payload.ToUserID == nil || payload.HandoffAt == nil || payload.ProgressNote == "" {
		return domain.ParsedCommand{}, false
	}
	return domain.NewParsedCommand(userID, payload), true
}

func (p *HandoffCommandParser) parseRegister(text string) (domain.HandoffRegisterPayload, bool) {
	var payload domain.HandoffRegisterPayload
	var consumed []span

	mention, mentionSpan, hasMention := findMention(text)
	if hasMention {
		payload.ToUserID = &mention
		consumed = append(consumed, mentionSpan)
	}
	id, idSpan, hasID := findUUID(text)
	if hasID {
		payload.TaskID = &id
		consumed = append(consumed, idSpan)
	}
	at, atSpan, hasTime := resolveDateTime(text, p.now())
	if hasTime {
		payload.HandoffAt = &at
		consumed = append(consumed, atSpan)
	}

	quoted := ExtractQuotedAll(text)
	if len(quoted) > 0 {
		payload.ProgressNote = quoted[0]
	}
	if len(quoted) > 1 {
		payload.NextSteps = quoted[1]
	}

	if !hasMention && !hasID && !hasTime && len(quoted) == 0 {
		return domain.HandoffRegisterPayload{}, false
	}
	if len(quoted) == 0 {
		payload.ProgressNote = remainder(text, consumed)
	}
	return payload, true
}

// remainder drops recognized entities and keywords from text and returns the
// leftover words, used as an unquoted progress note.
func remainder(text string, consumed []span) string {
	for _, loc := range reHandoffKeyword.FindAllStringIndex(text, -1) {
		consumed = append(consumed, span{loc[0], loc[1]})
	}
	sort.Slice(consumed, func(i, j int) bool { return consumed[i].start < consumed[j].start })

	var b strings.Builder
	pos := 0
	for _, sp := range consumed {
		if sp.start < pos {
			if sp.end > pos {
				pos = sp.end
			}
			continue
		}
		b.WriteString(text[pos:sp.start])
		b.WriteByte(' ')
		pos = sp.end
	}
	b.WriteString(text[pos:])

	var words []string
	for _, word := range strings.Fields(b.String()) {
		if word = trimParticles(word); word != "" {
			words = append(words, word)
		}
	}
	return strings.Join(words, " ")
}

func trimParticles(word string) string {
	for changed := true; changed && word != ""; {
		changed = false
		for _, particle := range particles {
			if strings.HasSuffix(word, particle) {
				word = strings.TrimSuffix(word, particle)
				changed = true
			}
		}
	}
	return word
}
