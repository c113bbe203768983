package util

import (
	"runtime"
	"testing"
)

func TestBrowserCommands_PassURL(t *testing.T) {
	t.Parallel()

	cmds := browserCommands("http://127.0.0.1:8087/populate")
	if len(cmds) == 0 {
		t.Fatalf("no browser commands for %s", runtime.GOOS)
	}
	for _, args := range cmds {
		if args[len(args)-1] != "http://127.0.0.1:8087/populate" {
			t.Fatalf("url must be the last argument: %v", args)
		}
	}
}
