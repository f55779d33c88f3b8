package lint

import "strings"

func checkEOLLast(s *source, cfg Config) []finding {
	text := s.text
	if text == "" {
		return nil
	}

	switch cfg.EOL {
	case EOLAlways:
		if strings.HasSuffix(text, "\n") {
			return nil
		}

		return []finding{s.finding(RuleEOLLast, len(text),
			"Newline required at end of file but not found.",
			&edit{start: len(text), end: len(text), text: "\n"})}
	case EOLNever:
		trimmed := strings.TrimRight(text, "\r\n")
		if len(trimmed) == len(text) {
			return nil
		}

		return []finding{s.finding(RuleEOLLast, len(trimmed),
			"Newline not allowed at end of file.",
			&edit{start: len(trimmed), end: len(text)})}
	default:
		return nil
	}
}
