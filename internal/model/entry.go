package model

// RawLine is one unparsed line read from a watched file.
type RawLine struct {
	Text   string
	Source string
}

// Entry is a parsed line together with the file it came from. This is the
// unit that flows from the hub to subscribers.
type Entry struct {
	Source  string
	Message Message
}

// WireEntry is the flat JSON form of an Entry, used by the JSON renderer and
// the websocket stream. Known controls which fields are meaningful: for an
// unknown entry only Raw is set.
type WireEntry struct {
	Source    string `json:"source,omitempty"`
	Known     bool   `json:"known"`
	Level     string `json:"level,omitempty"`
	Severity  *int   `json:"severity,omitempty"`
	Timestamp int    `json:"timestamp,omitempty"`
	Message   string `json:"message,omitempty"`
	Raw       string `json:"raw,omitempty"`
	Display   string `json:"display"`
}

// Wire converts an Entry to its JSON form.
func Wire(e Entry) WireEntry {
	w := WireEntry{
		Source:  e.Source,
		Display: e.Message.String(),
	}

	switch m := e.Message.(type) {
	case Known:
		w.Known = true
		w.Level = LevelName(m)
		w.Timestamp = m.Timestamp
		w.Message = m.Text
		if err, ok := m.Level.(Error); ok {
			sev := err.Severity
			w.Severity = &sev
		}
	case Unknown:
		w.Raw = m.Text
	}

	return w
}
