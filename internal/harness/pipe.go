package harness

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
)

// Exit codes for the pipe loop, per spec.md §6.2.
const (
	ExitClean          = 0
	ExitStartupFailure = 1
	ExitUnknownCommand = 2
)

// commandHandler answers one command's base64-decoded request bytes with
// the response bytes to base64-encode and write back, or an error.
type commandHandler func(request []byte) ([]byte, error)

// Pipe runs the stdin/stdout line protocol: line 1 is a command name, line
// 2 is base64 of the request, and the response is base64 on one line. An
// empty command line terminates the loop cleanly.
type Pipe struct {
	in        *bufio.Scanner
	out       io.Writer
	handlers  map[string]commandHandler
	onCommand func(command, outcome string, detail map[string]any)
}

// NewPipe constructs a Pipe reading commands from in and writing responses
// to out. parse, check, and eval are deliberately left unimplemented —
// those stages are the external collaborators spec.md §1 calls out of
// scope — only ping is answered for real.
func NewPipe(in io.Reader, out io.Writer) *Pipe {
	p := &Pipe{
		in:  bufio.NewScanner(in),
		out: out,
	}
	p.handlers = map[string]commandHandler{
		"ping":  p.handlePing,
		"parse": unimplementedHandler("parse"),
		"check": unimplementedHandler("check"),
		"eval":  unimplementedHandler("eval"),
	}
	return p
}

// OnCommand installs a callback invoked once per processed command line,
// after the response (or error) has been written, with detail carrying
// per-command context (currently just {"error": "..."} on failure) — the
// harness binary uses this to feed an optional Store without Pipe needing
// to know a Store exists.
func (p *Pipe) OnCommand(fn func(command, outcome string, detail map[string]any)) {
	p.onCommand = fn
}

// Run processes commands until stdin closes or an empty command line is
// read, returning the process exit code to use.
func (p *Pipe) Run() int {
	for {
		if !p.in.Scan() {
			return ExitClean
		}
		command := p.in.Text()
		if command == "" {
			return ExitClean
		}

		handler, ok := p.handlers[command]
		if !ok {
			p.report(command, "unknown-command", nil)
			return ExitUnknownCommand
		}

		if !p.in.Scan() {
			p.report(command, "missing-request-line", nil)
			return ExitStartupFailure
		}
		reqLine := p.in.Text()
		req, err := base64.StdEncoding.DecodeString(reqLine)
		if err != nil {
			p.writeError(command, fmt.Errorf("harness: malformed base64 request: %w", err))
			continue
		}

		resp, err := handler(req)
		if err != nil {
			p.writeError(command, err)
			continue
		}
		p.writeResponse(command, resp)
	}
}

func (p *Pipe) writeResponse(command string, resp []byte) {
	fmt.Fprintln(p.out, base64.StdEncoding.EncodeToString(resp))
	p.report(command, "ok", nil)
}

func (p *Pipe) writeError(command string, err error) {
	fmt.Fprintln(p.out, base64.StdEncoding.EncodeToString([]byte(err.Error())))
	p.report(command, "error", map[string]any{"error": err.Error()})
}

func (p *Pipe) report(command, outcome string, detail map[string]any) {
	if p.onCommand != nil {
		p.onCommand(command, outcome, detail)
	}
}

func (p *Pipe) handlePing([]byte) ([]byte, error) {
	return []byte("pong"), nil
}

func unimplementedHandler(name string) commandHandler {
	return func([]byte) ([]byte, error) {
		return nil, fmt.Errorf("harness: %s is not implemented by celval (external collaborator per spec §1)", name)
	}
}
