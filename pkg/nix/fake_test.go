package nix

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/nurl/pkg/command"
)

// fakeRunner answers commands from a script keyed by the full command line.
type fakeRunner struct {
	script map[string]fakeReply
	calls  []string
}

type fakeReply struct {
	stdout string
	stderr string
	fail   bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (command.Result, error) {
	line := command.Line(name, args...)
	f.calls = append(f.calls, line)

	reply, ok := f.script[line]
	if !ok {
		return command.Result{}, &command.ExitError{Line: line, Code: 1, Stderr: "unscripted command"}
	}
	res := command.Result{Stdout: []byte(reply.stdout), Stderr: []byte(reply.stderr)}
	if reply.fail {
		return res, &command.ExitError{Line: line, Code: 1, Stderr: strings.TrimSpace(reply.stderr)}
	}
	return res, nil
}

func flakeLine(ref string) string {
	return command.Line("nix", "--extra-experimental-features", "nix-command flakes", "flake", "prefetch", "--json", ref)
}

func flakeJSON(hash string) string {
	return fmt.Sprintf(`{"hash":%q,"locked":{},"original":{}}`, hash)
}
