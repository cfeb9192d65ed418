package parser

import (
	"reflect"
	"testing"

	"skein/internal/model"
)

func TestParseLineInfo(t *testing.T) {
	got := ParseLine("I,147,mice in the air")

	want := model.Known{Level: model.Info{}, Timestamp: 147, Text: "mice in the air"}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseLineWarning(t *testing.T) {
	got := ParseLine("W,149,could've been bad")

	want := model.Known{Level: model.Warning{}, Timestamp: 149, Text: "could've been bad"}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseLineError(t *testing.T) {
	got := ParseLine("E,5,158,some strange error")

	want := model.Known{Level: model.Error{Severity: 5}, Timestamp: 158, Text: "some strange error"}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseLineNegativeIntegers(t *testing.T) {
	// Severity and timestamp are unbounded signed integers.
	got := ParseLine("E,-3,-90,clock went backwards")

	want := model.Known{Level: model.Error{Severity: -3}, Timestamp: -90, Text: "clock went backwards"}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseLineUnknown(t *testing.T) {
	lines := []string{
		"X blblbaaaaa",              // no commas at all
		"X,147,some message",        // unrecognized level tag
		"I,not-a-number,hello",      // non-integer timestamp
		"E,five,158,bad severity",   // non-integer severity
		"E,147,no severity present", // "E" needs 4 fields
		"I,147",                     // too few fields
		"I,5,147,extra,fields",      // too many fields
		"I, 147,padded timestamp",   // no trimming: " 147" is not an integer
		"",                          // empty line
	}

	for _, line := range lines {
		got := ParseLine(line)
		want := model.Unknown{Text: line}
		if got != want {
			t.Errorf("ParseLine(%q): expected %v, got %v", line, want, got)
		}
	}
}

func TestParseLineUnknownIsVerbatim(t *testing.T) {
	line := "E,oops,158,some strange error"
	got := ParseLine(line)

	u, ok := got.(model.Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %T", got)
	}
	if u.Text != line {
		t.Errorf("expected original line preserved, got %q", u.Text)
	}
}

func TestParseFileEmpty(t *testing.T) {
	if got := ParseFile(""); len(got) != 0 {
		t.Errorf("expected no entries for empty content, got %d", len(got))
	}
}

func TestParseFileLineCount(t *testing.T) {
	content := "I,1,a\nW,2,b\ngarbage\nE,9,3,c"

	msgs := ParseFile(content)
	if len(msgs) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(msgs))
	}

	// Order matches input order.
	if msgs[0] != (model.Known{Level: model.Info{}, Timestamp: 1, Text: "a"}) {
		t.Errorf("entry 0: got %v", msgs[0])
	}
	if msgs[2] != (model.Unknown{Text: "garbage"}) {
		t.Errorf("entry 2: got %v", msgs[2])
	}
	if msgs[3] != (model.Known{Level: model.Error{Severity: 9}, Timestamp: 3, Text: "c"}) {
		t.Errorf("entry 3: got %v", msgs[3])
	}
}

func TestParseFileTrailingNewline(t *testing.T) {
	// A trailing newline produces a final empty segment, which is Unknown.
	msgs := ParseFile("I,1,a\n")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(msgs))
	}
	if msgs[1] != (model.Unknown{Text: ""}) {
		t.Errorf("expected trailing empty segment as Unknown, got %v", msgs[1])
	}
}

func TestFilterUnknown(t *testing.T) {
	msgs := ParseFile("I,1,ok\nfirst bad\nW,2,fine\nsecond bad")

	unknown := FilterUnknown(msgs)
	want := []model.Message{
		model.Unknown{Text: "first bad"},
		model.Unknown{Text: "second bad"},
	}
	if !reflect.DeepEqual(unknown, want) {
		t.Errorf("expected %v, got %v", want, unknown)
	}
}

func TestFilterUnknownAllKnown(t *testing.T) {
	msgs := ParseFile("I,1,a\nW,2,b")
	if got := FilterUnknown(msgs); len(got) != 0 {
		t.Errorf("expected no unknown entries, got %v", got)
	}
}

func TestErrorsAbove(t *testing.T) {
	content := "I,147,mice in the air\n" +
		"W,149,could've been bad\n" +
		"E,5,158,some strange error\n" +
		"E,2,148,istereadea"

	got := ErrorsAbove(content, 2)
	want := []string{"Error 5 (158) some strange error"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestErrorsAboveStrictThreshold(t *testing.T) {
	// Severity equal to the threshold is excluded.
	got := ErrorsAbove("E,2,148,istereadea", 2)
	if len(got) != 0 {
		t.Errorf("expected severity == threshold to be excluded, got %v", got)
	}
}

func TestErrorsAboveIgnoresNonErrors(t *testing.T) {
	// Info/Warning and unparseable lines never count, whatever the threshold.
	content := "I,999,high timestamp\nW,999,still not an error\nE,trash,1,bad"
	if got := ErrorsAbove(content, -100); len(got) != 0 {
		t.Errorf("expected no results, got %v", got)
	}
}

func TestErrorsAboveOrder(t *testing.T) {
	content := "E,9,1,first\nI,2,skip\nE,8,2,second"

	got := ErrorsAbove(content, 0)
	want := []string{"Error 9 (1) first", "Error 8 (2) second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
