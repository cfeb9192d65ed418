package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"skein/internal/model"
)

func TestDisplayForms(t *testing.T) {
	// The display grammar lives on the model types; pin it down here where
	// the renderers depend on it.
	cases := []struct {
		msg  model.Message
		want string
	}{
		{model.Known{Level: model.Error{Severity: 2}, Timestamp: 147, Text: "weird"}, "Error 2 (147) weird"},
		{model.Known{Level: model.Info{}, Timestamp: 147, Text: "mice in the air"}, "Info (147) mice in the air"},
		{model.Known{Level: model.Warning{}, Timestamp: 149, Text: "could've been bad"}, "Warning (149) could've been bad"},
		{model.Unknown{Text: "X blblbaaaaa"}, "Unknown log: X blblbaaaaa"},
	}

	for _, c := range cases {
		if got := c.msg.String(); got != c.want {
			t.Errorf("expected %q, got %q", c.want, got)
		}
	}
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}

	entry := model.Entry{
		Source:  "/var/log/app.log",
		Message: model.Known{Level: model.Error{Severity: 5}, Timestamp: 158, Text: "some strange error"},
	}

	if err := r.Render(entry); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "Error") {
		t.Errorf("expected level tag in output, got %q", out)
	}
	if !strings.Contains(out, "(158) some strange error") {
		t.Errorf("expected timestamp and message in output, got %q", out)
	}
	if !strings.Contains(out, "/var/log/app.log") {
		t.Errorf("expected source in output, got %q", out)
	}
}

func TestTextRendererUnknown(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}

	entry := model.Entry{Message: model.Unknown{Text: "X blblbaaaaa"}}
	if err := r.Render(entry); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "Unknown") {
		t.Errorf("expected Unknown tag, got %q", out)
	}
	if !strings.Contains(out, "X blblbaaaaa") {
		t.Errorf("expected raw line preserved, got %q", out)
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{enc: json.NewEncoder(&buf)}

	entry := model.Entry{
		Source:  "app.log",
		Message: model.Known{Level: model.Error{Severity: 5}, Timestamp: 158, Text: "some strange error"},
	}
	if err := r.Render(entry); err != nil {
		t.Fatal(err)
	}

	var got model.WireEntry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, buf.String())
	}

	if !got.Known {
		t.Error("expected known=true")
	}
	if got.Level != "Error" {
		t.Errorf("expected level Error, got %q", got.Level)
	}
	if got.Severity == nil || *got.Severity != 5 {
		t.Errorf("expected severity 5, got %v", got.Severity)
	}
	if got.Timestamp != 158 {
		t.Errorf("expected timestamp 158, got %d", got.Timestamp)
	}
	if got.Display != "Error 5 (158) some strange error" {
		t.Errorf("unexpected display form %q", got.Display)
	}
}

func TestJSONRendererUnknown(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{enc: json.NewEncoder(&buf)}

	entry := model.Entry{Message: model.Unknown{Text: "garbage line"}}
	if err := r.Render(entry); err != nil {
		t.Fatal(err)
	}

	var got model.WireEntry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	if got.Known {
		t.Error("expected known=false")
	}
	if got.Severity != nil {
		t.Errorf("expected no severity, got %v", *got.Severity)
	}
	if got.Raw != "garbage line" {
		t.Errorf("expected raw line preserved, got %q", got.Raw)
	}
	if got.Display != "Unknown log: garbage line" {
		t.Errorf("unexpected display form %q", got.Display)
	}
}
