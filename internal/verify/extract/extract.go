// Package extract implements the fenced-code-block extractor: it scans a
// raw input string for triple-backtick fenced blocks
// tagged `argdown` or `xml`, parses an optional brace-delimited metadata
// header on the opening fence, and yields one PrimaryData per block. When no
// fenced blocks are present, the whole input is treated as a single argdown
// item.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/steveyegge/argcheck/internal/verify"
)

var (
	reFenceOpen = regexp.MustCompile("^```(argdown|xml)\\s*(\\{.*\\})?\\s*$")
	reFenceClose = regexp.MustCompile("^```\\s*$")
	reHeaderKV = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"`)
)

// Extract scans inputs for fenced argdown/xml blocks and returns one
// PrimaryData per block in source order, falling back to a single
// synthetic argdown item (id "input_0") when no fenced block is found.
func Extract(inputs string) []*verify.PrimaryData {
	lines := strings.Split(inputs, "\n")

	var items []*verify.PrimaryData
	argdownCount, xmlCount := 0, 0

	var i int
	for i = 0; i < len(lines); i++ {
		m := reFenceOpen.FindStringSubmatch(strings.TrimRight(lines[i], " \t\r"))
		if m == nil {
			continue
		}
		lang := m[1]
		header := m[2]

		var body []string
		j := i + 1
		for ; j < len(lines); j++ {
			if reFenceClose.MatchString(strings.TrimRight(lines[j], " \t\r")) {
				break
			}
			body = append(body, lines[j])
		}

		var id string
		dtype := verify.DTypeArgdown
		if lang == "xml" {
			id = fmt.Sprintf("xml_%d", xmlCount)
			xmlCount++
			dtype = verify.DTypeXML
		} else {
			id = fmt.Sprintf("argdown_%d", argdownCount)
			argdownCount++
		}

		items = append(items, &verify.PrimaryData{
			ID: id,
			Dtype: dtype,
			CodeSnippet: strings.Join(body, "\n"),
			Metadata: parseHeader(header),
		})

		i = j // resume scanning after the closing fence
	}

	if len(items) == 0 {
		items = append(items, &verify.PrimaryData{
			ID: "input_0",
			Dtype: verify.DTypeArgdown,
			CodeSnippet: inputs,
			Metadata: map[string]string{},
		})
	}

	return items
}

// parseHeader parses a brace-delimited metadata header of the form
// `{key="value" key2="value2"}`. Unquoted values are treated as a malformed
// header: the block is still extracted, with an empty metadata map, rather
// than aborting extraction (parse failures are results, not exceptions).
func parseHeader(header string) map[string]string {
	meta := map[string]string{}
	if header == "" {
		return meta
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(header), "{"), "}")
	if strings.TrimSpace(reHeaderKV.ReplaceAllString(inner, "")) != "" {
		return meta
	}
	for _, m := range reHeaderKV.FindAllStringSubmatch(inner, -1) {
		meta[m[1]] = m[2]
	}
	return meta
}
