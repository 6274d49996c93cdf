package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if s := String(); !strings.HasPrefix(s, "version: v1.2.3\n") {
		t.Errorf("String() = %q", s)
	}
	if tmpl := Template(); !strings.Contains(tmpl, "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", tmpl)
	}
}

func TestCurrent(t *testing.T) {
	if got := Current(); got.Version != Version || got.Commit != Commit || got.Date != Date {
		t.Errorf("Current() = %+v", got)
	}
}
