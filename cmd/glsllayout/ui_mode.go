package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI keeps the progress UI away from redirected output and from
// single-file runs, which finish before a frame is drawn.
func shouldUseTUI(mode uiMode, files int) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return files > 1 && isTerminal(os.Stdout) && isTerminal(os.Stderr)
}
