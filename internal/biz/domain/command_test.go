package domain

import "testing"

func TestParseInvocation(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCmd  PrefixCommand
		wantOK   bool
		wantsNil bool
	}{
		{name: "help", content: "!help", wantCmd: PrefixHelp, wantOK: true},
		{name: "commands alias", content: "!commands", wantCmd: PrefixHelp, wantOK: true},
		{name: "case insensitive", content: "!Display-Links", wantCmd: PrefixDisplayLinks, wantOK: true},
		{name: "leading whitespace", content: "  !delete 42", wantCmd: PrefixDelete, wantOK: true},
		{name: "unrecognized prefix", content: "!frobnicate", wantOK: true, wantsNil: true},
		{name: "bare bang", content: "!", wantOK: true, wantsNil: true},
		{name: "plain chat", content: "show me links from last week", wantOK: false, wantsNil: true},
		{name: "empty", content: "", wantOK: false, wantsNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := ParseInvocation(tt.content)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantsNil {
				if inv != nil {
					t.Fatalf("expected nil invocation, got %+v", inv)
				}
				return
			}
			if inv == nil {
				t.Fatal("expected invocation, got nil")
			}
			if inv.Command != tt.wantCmd {
				t.Errorf("Command = %q, want %q", inv.Command, tt.wantCmd)
			}
		})
	}
}

func TestInvocationLinkID(t *testing.T) {
	inv, _ := ParseInvocation("!delete 42")
	id, ok := inv.LinkID()
	if !ok || id != 42 {
		t.Errorf("LinkID() = (%d, %v), want (42, true)", id, ok)
	}

	inv, _ = ParseInvocation("!delete nope")
	if _, ok := inv.LinkID(); ok {
		t.Error("LinkID() found an id in non-numeric args")
	}

	inv, _ = ParseInvocation("!restore")
	if _, ok := inv.LinkID(); ok {
		t.Error("LinkID() found an id with no args")
	}
}

func TestInvocationHasFlag(t *testing.T) {
	inv, _ := ParseInvocation("!display-links -d")
	if !inv.HasFlag("-d") {
		t.Error("expected -d flag")
	}
	inv, _ = ParseInvocation("!display-links")
	if inv.HasFlag("-d") {
		t.Error("unexpected -d flag")
	}
}

func TestInvocationHelpTopic(t *testing.T) {
	inv, _ := ParseInvocation("!help !restore")
	if got := inv.HelpTopic(); got != "restore" {
		t.Errorf("HelpTopic() = %q, want %q", got, "restore")
	}
	inv, _ = ParseInvocation("!help")
	if got := inv.HelpTopic(); got != "" {
		t.Errorf("HelpTopic() = %q, want empty", got)
	}
}
