package utils

import (
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`{{\s*(\w+)\s*}}`)

// input is text with variables in the form of {{variable}}
// output is the list of variable names in order of first appearance
func ParseVariables(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range variablePattern.FindAllStringSubmatch(text, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}

// input is a string with variables in the form of {{variable}}
// output is a string with the variables replaced by their values;
// unknown variables render as an empty string
func ReplaceVariables(input string, variables map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(m string) string {
		name := strings.TrimSpace(strings.Trim(m, "{}"))
		return variables[name]
	})
}
