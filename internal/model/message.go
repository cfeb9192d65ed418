package model

import "fmt"

// Level is the severity of a parsed log entry. Exactly three variants exist:
// Info, Warning, and Error. Error carries an integer severity payload.
type Level interface {
	fmt.Stringer
	level()
}

// Info is the lowest severity level.
type Info struct{}

// Warning sits between Info and Error.
type Warning struct{}

// Error carries an unbounded signed severity.
type Error struct {
	Severity int
}

func (Info) level()    {}
func (Warning) level() {}
func (Error) level()   {}

func (Info) String() string    { return "Info" }
func (Warning) String() string { return "Warning" }

// String includes the severity payload, so a full Error tag reads "Error 5".
func (e Error) String() string { return fmt.Sprintf("Error %d", e.Severity) }

// Message is one classified log line. A line either matched the structured
// grammar (Known) or it did not (Unknown); there is no third case and no
// partially parsed state.
type Message interface {
	fmt.Stringer
	message()
}

// Known is a line that parsed cleanly: level and timestamp are both valid.
type Known struct {
	Level     Level
	Timestamp int
	Text      string
}

// Unknown preserves a line that did not match the grammar, verbatim.
type Unknown struct {
	Text string
}

func (Known) message()   {}
func (Unknown) message() {}

// String renders the display form: "Info (147) mice in the air",
// "Error 5 (158) some strange error", "Unknown log: X blblbaaaaa".
func (k Known) String() string {
	return fmt.Sprintf("%s (%d) %s", k.Level, k.Timestamp, k.Text)
}

func (u Unknown) String() string {
	return "Unknown log: " + u.Text
}

// LevelName returns the aggregation key for a message: the level's tag name
// for Known entries ("Info", "Warning", "Error") and "Unknown" otherwise.
func LevelName(m Message) string {
	switch v := m.(type) {
	case Known:
		switch v.Level.(type) {
		case Error:
			return "Error"
		default:
			return v.Level.String()
		}
	default:
		return "Unknown"
	}
}
