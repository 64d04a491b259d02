package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinary(t *testing.T) {
	// The shell itself is a binary we can rely on during tests.
	if result := CheckBinary("Shell", "sh", ""); !result.Passed {
		t.Errorf("sh should resolve: %+v", result)
	}
	if result := CheckBinary("Missing", "definitely-not-a-binary-xyz", "needed"); result.Passed {
		t.Errorf("missing binary should fail: %+v", result)
	}
	if result := CheckBinary("Empty", "", ""); result.Passed || result.Detail != "command not configured" {
		t.Errorf("empty command: %+v", result)
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDirectoryAccess("Cache", dir); !result.Passed {
		t.Errorf("temp dir should pass: %+v", result)
	}
	if result := CheckDirectoryAccess("Cache", filepath.Join(dir, "missing")); result.Passed {
		t.Errorf("missing dir should fail: %+v", result)
	}
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("Cache", file); result.Passed {
		t.Errorf("regular file should fail: %+v", result)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	original := statfs
	t.Cleanup(func() { statfs = original })

	statfs = func(string) (uint64, error) { return 10 << 30, nil }
	if result := CheckFreeSpace("Space", "/cache"); !result.Passed {
		t.Errorf("10 GiB should pass: %+v", result)
	}

	statfs = func(string) (uint64, error) { return 100 << 20, nil }
	if result := CheckFreeSpace("Space", "/cache"); result.Passed {
		t.Errorf("100 MiB should fail: %+v", result)
	}
}

func TestAllPassed(t *testing.T) {
	if !AllPassed([]Result{{Passed: true}, {Passed: true}}) {
		t.Error("all passing should report true")
	}
	if AllPassed([]Result{{Passed: true}, {Passed: false}}) {
		t.Error("one failure should report false")
	}
}
