// Package channel drives the host notes application over its automation
// interface. Scripts address notes by title because the interface exposes
// no stable identifier lookup; callers pin the target with a snapshot read
// before submitting anything.
package channel

import (
	"fmt"
	"strings"
)

// escapeScript makes a string safe for embedding in a quoted script
// literal. Backslashes go first so quote escapes are not doubled.
func escapeScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// CreateNote builds a script that creates a note in the named folder and
// returns the new note's object reference on stdout.
func CreateNote(title, body, folder string) string {
	return fmt.Sprintf(`tell application "Notes"
	tell folder "%s"
		make new note with properties {name:"%s", body:"%s"}
	end tell
end tell`, escapeScript(folder), escapeScript(title), escapeScript(body))
}

// SetBody builds a script that replaces the body of the first note whose
// name matches the title.
func SetBody(title, body string) string {
	return fmt.Sprintf(`tell application "Notes"
	set theNote to first note whose name is "%s"
	set body of theNote to "%s"
end tell`, escapeScript(title), escapeScript(body))
}

// AppendBody builds a script that concatenates markup onto the body of the
// first note whose name matches the title.
func AppendBody(title, body string) string {
	return fmt.Sprintf(`tell application "Notes"
	set theNote to first note whose name is "%s"
	set body of theNote to (body of theNote) & "%s"
end tell`, escapeScript(title), escapeScript(body))
}

// GetBody builds a script that returns the dialect body of the first note
// whose name matches the title.
func GetBody(title string) string {
	return fmt.Sprintf(`tell application "Notes"
	set theNote to first note whose name is "%s"
	return body of theNote
end tell`, escapeScript(title))
}

// DeleteNote builds a script that deletes the first note whose name
// matches the title.
func DeleteNote(title string) string {
	return fmt.Sprintf(`tell application "Notes"
	delete (first note whose name is "%s")
end tell`, escapeScript(title))
}

// CreateFolder builds a script that creates a new top-level folder.
func CreateFolder(name string) string {
	return fmt.Sprintf(`tell application "Notes"
	make new folder with properties {name:"%s"}
end tell`, escapeScript(name))
}
