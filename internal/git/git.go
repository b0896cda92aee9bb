package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitStatus describes how version control sees the store file
type GitStatus struct {
	IsRepo       bool
	StoreFile    string
	StoreTracked bool // committed or staged (bad)
	StoreIgnored bool // matched by a .gitignore rule (good)
}

// Exposed reports whether the store could end up in a commit
func (s *GitStatus) Exposed() bool {
	return s.IsRepo && (s.StoreTracked || !s.StoreIgnored)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	// exit code 0 means ignored
	return cmd.Run() == nil
}

// CheckStoreExposure inspects storeFile (relative to workDir)
func CheckStoreExposure(workDir, storeFile string) (*GitStatus, error) {
	status := &GitStatus{StoreFile: storeFile}

	if !IsGitRepo(workDir) {
		return status, nil
	}
	status.IsRepo = true
	status.StoreTracked = IsTracked(workDir, storeFile)
	status.StoreIgnored = IsIgnored(workDir, storeFile)

	return status, nil
}

// FormatGitStatus formats git status for display
func FormatGitStatus(status *GitStatus) string {
	if status == nil || !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	if status.StoreTracked {
		result.WriteString(fmt.Sprintf("   error: %s is tracked by git (run: git rm --cached %s)\n", status.StoreFile, status.StoreFile))
	} else {
		result.WriteString(fmt.Sprintf("   ok: %s is not tracked by git\n", status.StoreFile))
	}

	if status.StoreIgnored {
		result.WriteString(fmt.Sprintf("   ok: %s is in .gitignore\n", status.StoreFile))
	} else {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore (add it, fragments are stored unencrypted)\n", status.StoreFile))
	}

	return result.String()
}
