package services

import (
	"regexp"
	"strings"

	"github.com/voyageprep/voyage-backend/internal/types"
)

// The assistant embeds side effects in its replies as [ACTION: type, args...]
// tags, with document bodies carried in a delimited block. Parsing happens
// only on the fully accumulated message, never on partial stream chunks.

var (
	actionTagRe  = regexp.MustCompile(`\[ACTION:\s*([^\]]+)\]`)
	docContentRe = regexp.MustCompile(`(?s)\[\[\[DOC_CONTENT_START\]\]\](.*?)\[\[\[DOC_CONTENT_END\]\]\]`)
)

// ParsedAction is the typed result of one recognized action tag.
type ParsedAction interface {
	actionKind() string
}

type TaskAction struct {
	Title    string
	Priority types.TaskPriority
	// Stage is nil when the tag omitted it; the dispatcher substitutes the
	// user's current stage.
	Stage *types.Stage
}

type DocumentAction struct {
	Title   string
	Type    types.DocumentType
	Content string
}

type ShortlistAction struct {
	UniversityID string
}

type LockAction struct {
	UniversityID string
}

func (TaskAction) actionKind() string      { return "task" }
func (DocumentAction) actionKind() string  { return "document" }
func (ShortlistAction) actionKind() string { return "shortlist" }
func (LockAction) actionKind() string      { return "lock" }

// ParseActions extracts every recognized action from an assistant message.
// Each distinct tag string is handled at most once, so a repeated scan of the
// same message yields no extra side effects.
func ParseActions(message string) []ParsedAction {
	var out []ParsedAction
	seen := make(map[string]bool)

	docContent := extractDocContent(message)

	for _, m := range actionTagRe.FindAllStringSubmatch(message, -1) {
		full, inner := m[0], m[1]
		if seen[full] {
			continue
		}
		seen[full] = true

		args := splitArgs(inner)
		if len(args) == 0 {
			continue
		}
		switch strings.ToLower(args[0]) {
		case "task":
			if len(args) < 2 || args[1] == "" {
				continue
			}
			a := TaskAction{Title: args[1], Priority: types.PriorityMedium}
			if len(args) >= 3 {
				if p := types.TaskPriority(strings.ToLower(args[2])); p.Valid() {
					a.Priority = p
				}
			}
			if len(args) >= 4 {
				if st, ok := parseStageArg(args[3]); ok {
					a.Stage = &st
				}
			}
			out = append(out, a)
		case "document":
			a := DocumentAction{Title: "Untitled Document", Type: types.DocumentOther}
			if len(args) >= 2 && args[1] != "" {
				a.Title = args[1]
			}
			if len(args) >= 3 {
				if t := types.DocumentType(strings.ToUpper(args[2])); t.Valid() {
					a.Type = t
				}
			}
			a.Content = docContent
			if a.Content == "" {
				a.Content = StripActionTags(message)
			}
			out = append(out, a)
		case "shortlist":
			if len(args) < 2 || args[1] == "" {
				continue
			}
			out = append(out, ShortlistAction{UniversityID: args[1]})
		case "lock":
			if len(args) < 2 || args[1] == "" {
				continue
			}
			out = append(out, LockAction{UniversityID: args[1]})
		}
	}
	return out
}

// StripActionTags returns the message without action tags or document block
// delimiters, suitable for display and for document-content fallback.
func StripActionTags(message string) string {
	s := actionTagRe.ReplaceAllString(message, "")
	s = docContentRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func extractDocContent(message string) string {
	m := docContentRe.FindStringSubmatch(message)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(actionTagRe.ReplaceAllString(m[1], ""))
}

func splitArgs(inner string) []string {
	parts := strings.Split(inner, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func parseStageArg(arg string) (types.Stage, bool) {
	switch strings.TrimSpace(arg) {
	case "1":
		return types.StageProfileBuilding, true
	case "2":
		return types.StageDiscovery, true
	case "3":
		return types.StageFinalizing, true
	case "4":
		return types.StageApplicationPrep, true
	}
	return 0, false
}
