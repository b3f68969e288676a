package storcli

import (
	"regexp"
	"strconv"
	"strings"
)

// Section headers in a "show all" dump look like "Basics :", "VD LIST :"
// or "Cachevault_Info :" on a line of their own, usually followed by a
// run of '=' characters.
var sectionHeaderPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_ ./-]*?)\s*:$`)

// splitSections groups dump lines by the section header they follow.
// Section names are lower-cased; only the first occurrence of a name is
// kept, so a duplicated block cannot shadow the record already seen.
// Lines before the first header are grouped under "".
func splitSections(text string) map[string][]string {
	sections := make(map[string][]string)
	current := ""

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := sectionHeaderPattern.FindStringSubmatch(trimmed); m != nil {
			current = strings.ToLower(strings.TrimSpace(m[1]))
			if _, seen := sections[current]; seen {
				current = ""
			}
			continue
		}
		sections[current] = append(sections[current], trimmed)
	}

	return sections
}

// parseKeyValues decodes "Key = Value" lines, lower-casing keys.
// Separator and decoration lines carry no '=' and are dropped.
func parseKeyValues(lines []string) map[string]string {
	kv := make(map[string]string)
	for _, line := range lines {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		if key == "" || strings.ContainsAny(key, "|") {
			continue
		}
		if _, seen := kv[key]; !seen {
			kv[key] = strings.TrimSpace(parts[1])
		}
	}
	return kv
}

// scanCount finds a "<label> = N" line anywhere in the dump,
// case-insensitively. Returns -1 when no such line exists.
func scanCount(text, label string) int {
	label = strings.ToLower(label)
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(parts[0])) != label {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			return n
		}
	}
	return -1
}
