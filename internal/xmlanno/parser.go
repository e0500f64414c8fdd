package xmlanno

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Parse parses a fenced xml annotation code block. The snippet is prose
// text interspersed with <proposition ...>...</proposition> elements; it is
// not required to have a single root element, so it is wrapped in a
// synthetic root before being handed to encoding/xml.
func Parse(snippet string) (*Document, error) {
	wrapped := "<root>" + snippet + "</root>"
	dec := xml.NewDecoder(strings.NewReader(wrapped))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	doc := &Document{}
	var textBuf strings.Builder
	var stack []*Proposition

	for {
		tok, err := dec.Token()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("xmlanno: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "root" {
				continue
			}
			if t.Name.Local != "proposition" {
				doc.UnknownElements = append(doc.UnknownElements, t.Name.Local)
				continue
			}
			p := &Proposition{Nested: len(stack) > 0}
			for _, attr := range t.Attr {
				switch attr.Name.Local {
				case "id":
					p.ID = attr.Value
				case "supports":
					p.Supports = splitList(attr.Value)
				case "attacks":
					p.Attacks = splitList(attr.Value)
				case "argument_label":
					p.ArgumentLabel = attr.Value
				case "ref_reco_label":
					p.RefRecoLabel = attr.Value
				default:
					p.UnknownAttrs = append(p.UnknownAttrs, attr.Name.Local)
				}
			}
			stack = append(stack, p)
		case xml.EndElement:
			if t.Name.Local != "proposition" {
				continue
			}
			if len(stack) == 0 {
				continue
			}
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			doc.Propositions = append(doc.Propositions, *p)
		case xml.CharData:
			text := string(t)
			textBuf.WriteString(text)
			if len(stack) > 0 {
				stack[len(stack)-1].Text += text
			}
		}
	}

	doc.PlainText = NormalizeWhitespace(textBuf.String())
	return doc, nil
}

func splitList(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	v = strings.Trim(v, "[]")
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `'"`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and
// trims the result, matching the normalization SourceTextIntegrity applies
// before comparing annotation text to source text.
func NormalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
