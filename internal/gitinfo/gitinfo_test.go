package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBranchFromRef(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/feature/scan\n")
	writeFile(t, filepath.Join(root, "sub", "file.go"), "package sub\n")

	if got := Branch(filepath.Join(root, "sub", "file.go")); got != "scan" {
		t.Fatalf("branch = %q, want scan", got)
	}
	if got := Root(root); got != root {
		t.Fatalf("root = %q, want %q", got, root)
	}
}

func TestBranchDetachedHead(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2\n")

	if got := Branch(root); got != "detached:a1b2c3d" {
		t.Fatalf("branch = %q", got)
	}
}

func TestBranchOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	if got := Branch(dir); got != "" {
		t.Fatalf("branch = %q, want empty", got)
	}
	if got := Root(dir); got != "" {
		t.Fatalf("root = %q, want empty", got)
	}
	if got := Branch(filepath.Join(dir, "missing")); got != "" {
		t.Fatalf("branch for missing path = %q, want empty", got)
	}
}

func TestGitFileRedirect(t *testing.T) {
	base := t.TempDir()
	main := filepath.Join(base, "main")
	worktree := filepath.Join(base, "wt")
	gitDir := filepath.Join(main, ".git", "worktrees", "wt")
	writeFile(t, filepath.Join(gitDir, "HEAD"), "ref: refs/heads/hotfix\n")
	writeFile(t, filepath.Join(worktree, ".git"), "gitdir: "+gitDir+"\n")

	if got := Branch(worktree); got != "hotfix" {
		t.Fatalf("branch = %q, want hotfix", got)
	}
}
