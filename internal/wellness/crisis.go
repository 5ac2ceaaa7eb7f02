package wellness

import (
	"fmt"
	"strings"
)

func (c *Content) CrisisMarkdown() string {
	var b strings.Builder
	b.WriteString("# Crisis Support\n\n")
	b.WriteString("> **If you or someone you know is in immediate danger, please call your local emergency services immediately.**\n\n")
	b.WriteString("## Helplines\n\n")
	for _, h := range c.Helplines {
		fmt.Fprintf(&b, "- **%s:** %s - `%s`\n", h.Country, h.Name, h.Number)
	}
	b.WriteString("\n## What to do in an emergency\n\n")
	for i, step := range c.EmergencySteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return b.String()
}
