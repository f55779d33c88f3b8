package lint

// Rule IDs.
const (
	RuleIndent            = "indent"
	RuleQuotes            = "quotes"
	RuleEOLLast           = "eol-last"
	RuleNoInferrableTypes = "no-inferrable-types"
)

// edit replaces text[start:end] with text.
type edit struct {
	text  string
	start int
	end   int
}

// finding is a message with its optional fix.
type finding struct {
	fix *edit
	Message
}

type rule struct {
	check func(s *source, cfg Config) []finding
	id    string
}

// rules returns the rule set in reporting order.
func rules() []rule {
	return []rule{
		{id: RuleIndent, check: checkIndent},
		{id: RuleQuotes, check: checkQuotes},
		{id: RuleEOLLast, check: checkEOLLast},
		{id: RuleNoInferrableTypes, check: checkInferrableTypes},
	}
}

// RuleIDs lists the rules every engine runs.
func RuleIDs() []string {
	set := rules()
	ids := make([]string, 0, len(set))

	for _, r := range set {
		ids = append(ids, r.id)
	}

	return ids
}

func (s *source) finding(ruleID string, offset int, msg string, fix *edit) finding {
	line, col := s.position(offset)

	return finding{
		Message: Message{RuleID: ruleID, Message: msg, Line: line, Column: col},
		fix:     fix,
	}
}
