package argdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reArgHeader   = regexp.MustCompile(`^<([^>]+)>\s*:?\s*(.*)$`)
	rePropHeader  = regexp.MustCompile(`^\[([^\]]+)\]\s*:?\s*(.*)$`)
	rePCSLine     = regexp.MustCompile(`^\((\d+)\)\s*(.*)$`)
	reInference   = regexp.MustCompile(`^--\s*(.*?)\s*--$`)
	reMapArrow    = regexp.MustCompile(`^(\s*)(<[+-]|>\s*<|\+>|->)\s*(.*)$`)
	reInlineData  = regexp.MustCompile(`\{(.*)\}\s*$`)
	reYamlKV      = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(\[[^\]]*\]|"[^"]*"|'[^']*'|[^,}]+)`)
)

// Parse parses a single fenced Argdown code block into a Graph.
//
// It implements the subset of the Argdown grammar exercised by the
// verification handlers: argument headers with an optional gist, premise-
// conclusion structures with inference annotations, bracketed top-level
// propositions, and indented support/attack arrows used by argument maps.
// It does not attempt full Argdown grammar conformance.
func Parse(snippet string) (*Graph, error) {
	g := &Graph{}
	lines := strings.Split(snippet, "\n")

	var curArg *Argument
	var pendingInference InlineData
	sawAny := false

	flushArg := func() {
		if curArg != nil {
			g.Arguments = append(g.Arguments, *curArg)
			curArg = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := reInference.FindStringSubmatch(trimmed); m != nil {
			pendingInference = parseInlineData("{" + m[1] + "}")
			continue
		}

		if m := reMapArrow.FindStringSubmatch(line); m != nil {
			sawAny = true
			valence := Support
			if strings.Contains(m[2], "-") {
				valence = Attack
			}
			if strings.Contains(m[2], "><") {
				valence = Contradict
			}
			target := strings.TrimSpace(m[3])
			srcLabel := ""
			if len(g.Propositions) > 0 {
				srcLabel = g.Propositions[len(g.Propositions)-1].Label
			} else if len(g.Arguments) > 0 {
				srcLabel = g.Arguments[len(g.Arguments)-1].Label
			}
			tgtLabel, _ := parseHeaderLabel(target)
			rel := DialecticalRelation{
				Source:     tgtLabel,
				Target:     srcLabel,
				Valence:    valence,
				Dialectics: []Dialectics{Sketched},
			}
			g.DialecticalRelations = append(g.DialecticalRelations, rel)
			// A support/attack arrow to an argument also introduces that
			// argument's gist as a map-level node if not seen yet.
			if strings.HasPrefix(target, "<") {
				if g.ArgumentByLabel(tgtLabel) == nil {
					label, rest := parseHeaderLabel(target)
					flushArg()
					a := Argument{Label: label}
					if rest != "" {
						a.Gists = []string{strings.TrimSuffix(strings.TrimSpace(rest), ".")}
					}
					g.Arguments = append(g.Arguments, a)
				}
			} else if strings.HasPrefix(target, "[") {
				if g.PropositionByLabel(tgtLabel) == nil {
					label, rest := parseHeaderLabel(target)
					g.Propositions = append(g.Propositions, Proposition{
						Label: label,
						Texts: nonEmpty(strings.TrimSuffix(strings.TrimSpace(rest), ".")),
					})
				}
			}
			continue
		}

		if m := rePCSLine.FindStringSubmatch(trimmed); m != nil && curArg != nil {
			sawAny = true
			text := m[2]
			data := extractTrailingData(&text)
			item := PCSItem{
				Label:            m[1],
				PropositionLabel: m[1],
				Text:             strings.TrimSpace(text),
				Data:             data,
			}
			if ids, ok := data["annotation_ids"]; ok {
				item.AnnotationIDs = toStringSlice(ids)
			}
			if pendingInference != nil {
				item.IsConclusion = true
				item.InferenceData = pendingInference
				pendingInference = nil
			}
			curArg.PCS = append(curArg.PCS, item)
			continue
		}

		if m := reArgHeader.FindStringSubmatch(trimmed); m != nil {
			sawAny = true
			flushArg()
			rest := m[2]
			data := extractTrailingData(&rest)
			a := Argument{Label: strings.TrimSpace(m[1]), Data: data}
			if gist := strings.TrimSpace(strings.TrimSuffix(rest, ".")); gist != "" {
				a.Gists = []string{gist}
			}
			curArg = &a
			continue
		}

		if m := rePropHeader.FindStringSubmatch(trimmed); m != nil {
			sawAny = true
			flushArg()
			rest := m[2]
			data := extractTrailingData(&rest)
			p := Proposition{
				Label: strings.TrimSpace(m[1]),
				Texts: nonEmpty(strings.TrimSpace(strings.TrimSuffix(rest, "."))),
				Data:  data,
			}
			g.Propositions = append(g.Propositions, p)
			continue
		}

		// Unrecognized line: if we're inside an argument, treat it as
		// continuation text of the gist (rare in practice); otherwise skip.
		if curArg != nil && len(curArg.PCS) == 0 && len(curArg.Gists) > 0 {
			curArg.Gists[len(curArg.Gists)-1] += " " + trimmed
		}
	}
	flushArg()

	if !sawAny {
		return nil, fmt.Errorf("argdown: no recognizable argument or proposition syntax found")
	}
	return g, nil
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// parseHeaderLabel extracts the label from a "<Label>: rest" or "[Label]: rest" fragment.
func parseHeaderLabel(s string) (label string, rest string) {
	s = strings.TrimSpace(s)
	if m := reArgHeader.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	if m := rePropHeader.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return s, ""
}

// extractTrailingData pulls a trailing `{...}` inline-data block off the end
// of a line, mutating *text to remove it, and returns the parsed map (nil if
// no such block is present).
func extractTrailingData(text *string) InlineData {
	m := reInlineData.FindStringSubmatch(*text)
	if m == nil {
		return nil
	}
	*text = strings.TrimSpace((*text)[:len(*text)-len(m[0])])
	return parseInlineData(m[0])
}

// parseInlineData parses a small yaml-ish `{key: value, key2: [a, b]}`
// fragment. It supports strings, bracketed lists of quoted strings, and bare
// scalars; this is not a general YAML parser.
func parseInlineData(block string) InlineData {
	inner := strings.TrimSpace(block)
	inner = strings.TrimPrefix(inner, "{")
	inner = strings.TrimSuffix(inner, "}")
	data := InlineData{}
	for _, m := range reYamlKV.FindAllStringSubmatch(inner, -1) {
		key := m[1]
		val := strings.TrimSpace(m[2])
		data[key] = parseScalarOrList(val)
	}
	return data
}

func parseScalarOrList(val string) any {
	if strings.HasPrefix(val, "[") && strings.HasSuffix(val, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(val, "["), "]")
		if strings.TrimSpace(inner) == "" {
			return []string{}
		}
		parts := strings.Split(inner, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, unquote(strings.TrimSpace(p)))
		}
		return out
	}
	return unquote(val)
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1: len(s)-1]
		}
	}
	return s
}

func toStringSlice(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	default:
		return nil
	}
}

// IntOrZero parses a decimal integer, returning 0 on failure. Used by
// handlers that need a numeric premise/conclusion index.
func IntOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
