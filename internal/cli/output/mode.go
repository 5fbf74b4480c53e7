// Package output renders command results for terminals, scripts and agents.
//
// Output adapts to the environment: a terminal gets styled text, anything
// else gets Markdown. JSON is always available via --output json.
package output

// OutputMode selects how results are rendered.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode converts a config string to an OutputMode. Unknown values mean auto.
func Mode(s string) OutputMode {
	switch m := OutputMode(s); m {
	case ModeText, ModeMarkdown, ModeJSON:
		return m
	default:
		return ModeAuto
	}
}
