// Package gitinfo reads the current branch of the repository containing
// a path, for the status line. It reads .git directly instead of
// shelling out, so a missing git binary costs nothing.
package gitinfo

import (
	"os"
	"path/filepath"
	"strings"
)

// Branch returns the branch checked out in the repository containing
// path, "" when path is not inside a repository. A detached HEAD
// reports the abbreviated commit.
func Branch(path string) string {
	gitDir := findGitDir(path)
	if gitDir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return ""
	}
	head, _, _ := strings.Cut(string(data), "\n")
	head = strings.TrimSpace(head)
	if ref, ok := strings.CutPrefix(head, "ref:"); ok {
		return filepath.Base(strings.TrimSpace(ref))
	}
	if len(head) >= 7 {
		return "detached:" + head[:7]
	}
	return ""
}

// Root returns the working-tree root of the repository containing path,
// "" when there is none.
func Root(path string) string {
	gitDir := findGitDir(path)
	if gitDir == "" {
		return ""
	}
	return filepath.Dir(gitDir)
}

// findGitDir walks up from path looking for a .git directory. A .git
// file (worktrees, submodules) redirects via its gitdir line.
func findGitDir(path string) string {
	dir := path
	if info, err := os.Stat(dir); err != nil {
		return ""
	} else if !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		gitPath := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath
			}
			if info.Mode().IsRegular() {
				data, err := os.ReadFile(gitPath)
				if err != nil {
					return ""
				}
				line, _, _ := strings.Cut(string(data), "\n")
				if target, ok := strings.CutPrefix(strings.TrimSpace(line), "gitdir:"); ok {
					target = strings.TrimSpace(target)
					if !filepath.IsAbs(target) {
						target = filepath.Join(dir, target)
					}
					return target
				}
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
