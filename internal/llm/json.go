package llm

import "strings"

// StripCodeFence returns the body of a markdown code block wrapping content,
// or content itself when it is not fenced. Models often wrap JSON in
// ```json ... ``` even when asked not to.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	var body []string
	in := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if in {
				break
			}
			in = true
			continue
		}
		if in {
			body = append(body, line)
		}
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
