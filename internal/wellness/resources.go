package wellness

import (
	"fmt"
	"strings"
)

type ResourceKind string

const (
	KindAll     ResourceKind = "all"
	KindArticle ResourceKind = "article"
	KindVideo   ResourceKind = "video"
)

type Resource struct {
	ID          int          `yaml:"id"`
	Kind        ResourceKind `yaml:"kind"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Link        string       `yaml:"link"`
}

// Filter keeps resources of the given kind whose title contains search,
// ignoring case. An empty kind means all kinds.
func (c *Content) Filter(kind ResourceKind, search string) []Resource {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []Resource
	for _, r := range c.Resources {
		if kind != "" && kind != KindAll && r.Kind != kind {
			continue
		}
		if !strings.Contains(strings.ToLower(r.Title), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func ResourcesMarkdown(rs []Resource) string {
	var b strings.Builder
	b.WriteString("# Resource Library\n\n")
	if len(rs) == 0 {
		b.WriteString("_No resources match your search._\n")
		return b.String()
	}
	for _, r := range rs {
		icon := "📖"
		if r.Kind == KindVideo {
			icon = "🎬"
		}
		fmt.Fprintf(&b, "## %s %s\n\n%s\n\n[Read more](%s)\n\n", icon, r.Title, r.Description, r.Link)
	}
	return b.String()
}
