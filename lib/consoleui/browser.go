// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
)

// openBrowser hands an artifact URL to the desktop browser. Artifact
// downloads need no credential, so the URL can be opened by any
// external program without leaking the admin token.
func openBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		opener := "xdg-open"
		if runtime.GOOS == "darwin" {
			opener = "open"
		}
		err := exec.Command(opener, url).Start()
		return browserOpenedMsg{url: url, err: err}
	}
}
