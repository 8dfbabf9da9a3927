package study

import (
	"regexp"
	"strings"
)

var imageTag = regexp.MustCompile(`<[^>]+src="([^">]+)">`)

// stripParagraph removes the wrapping paragraph tags the card editor emits.
func stripParagraph(s string) string {
	s = strings.Replace(s, "<p>", "", 1)
	return strings.Replace(s, "</p>", "", 1)
}

// writtenAnswer is the text a user is expected to type: no images, no wrapper.
func writtenAnswer(s string) string {
	return stripParagraph(imageTag.ReplaceAllString(s, ""))
}
