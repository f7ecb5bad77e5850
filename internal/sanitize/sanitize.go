package sanitize

import (
	"regexp"
	"strings"
)

// Linux alone is not that restrictive, but Windows is another story.
// See https://docs.microsoft.com/en-us/windows/win32/fileio/naming-a-file
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Filename cleans a title so it can safely be used as a file or directory name.
func Filename(title string) string {
	// trim trailing spaces & dots
	title = strings.TrimRight(title, " .")

	// replace illegal chars
	return illegalChars.ReplaceAllString(title, "_")
}
