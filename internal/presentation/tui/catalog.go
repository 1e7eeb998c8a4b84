package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/agentkit/pkg/domain"
)

// CatalogMarkdown renders the action catalog as a markdown document:
// a summary table followed by one section of parameters per action.
func CatalogMarkdown(entries []domain.ActionEntry) string {
	var sb strings.Builder
	sb.WriteString("# Actions\n\n")
	sb.WriteString("| Action | Mutating | Description |\n|---|---|---|\n")
	for _, e := range entries {
		mut := ""
		if e.Mutating {
			mut = "yes"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", e.Name, mut, cell(e.Description))
	}

	for _, e := range entries {
		fmt.Fprintf(&sb, "\n## %s\n\n", e.Name)
		if e.Description != "" {
			sb.WriteString(e.Description + "\n\n")
		}
		params := parameters(e.InputSchema)
		if len(params) == 0 {
			sb.WriteString("_No parameters._\n")
			continue
		}
		sb.WriteString("| Parameter | Type | Required | Description |\n|---|---|---|---|\n")
		for _, p := range params {
			req := ""
			if p.required {
				req = "yes"
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", p.name, p.typ, req, cell(p.description))
		}
	}
	return sb.String()
}

type parameter struct {
	name        string
	typ         string
	required    bool
	description string
}

func parameters(doc map[string]any) []parameter {
	props, _ := doc["properties"].(map[string]any)
	required := map[string]bool{}
	switch req := doc["required"].(type) {
	case []string:
		for _, r := range req {
			required[r] = true
		}
	case []any:
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	out := make([]parameter, 0, len(props))
	for name, raw := range props {
		prop, _ := raw.(map[string]any)
		desc, _ := prop["description"].(string)
		if def, ok := prop["default"]; ok {
			desc = strings.TrimSpace(fmt.Sprintf("%s (default %v)", desc, def))
		}
		out = append(out, parameter{
			name:        name,
			typ:         typeName(prop),
			required:    required[name],
			description: desc,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func typeName(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		if t == "array" {
			if items, ok := prop["items"].(map[string]any); ok {
				return typeName(items) + "[]"
			}
		}
		return t
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		if alts, ok := prop[key].([]any); ok {
			names := make([]string, 0, len(alts))
			for _, a := range alts {
				if m, ok := a.(map[string]any); ok {
					names = append(names, typeName(m))
				}
			}
			return strings.Join(names, " \\| ")
		}
	}
	return "any"
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "\\|")
}
