package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

const tokenEnv = "GIST_TRANSFER_TOKEN"

// resolveToken returns the flag value, then GIST_TRANSFER_TOKEN, or prompts
// for one. Input is not echoed when stdin is a terminal.
func (a *app) resolveToken(flagValue string) (string, error) {
	if tok := strings.TrimSpace(flagValue); tok != "" {
		return tok, nil
	}
	if a.getenv != nil {
		if tok := strings.TrimSpace(a.getenv(tokenEnv)); tok != "" {
			return tok, nil
		}
	}

	fmt.Fprint(a.stderr, "Enter your GitHub token: ")
	var tok string
	if f, ok := a.stdin.(*os.File); ok && isTerminal(int(f.Fd())) {
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		tok = string(b)
	} else {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read token: %w", err)
		}
		tok = line
	}

	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", cli.Exit("a GitHub token is required", 1)
	}
	return tok, nil
}
