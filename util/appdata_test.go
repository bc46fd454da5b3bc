package util

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestAppDataDir(t *testing.T) {
	if dir := AppDataDir(""); dir != "." {
		t.Errorf("AppDataDir(\"\") returned %s, expected .", dir)
	}

	dir := AppDataDir(".ledgerd")
	if !filepath.IsAbs(dir) && dir != filepath.Join(".", ".ledgerd") {
		t.Errorf("AppDataDir returned an unexpected relative path %s", dir)
	}
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" && filepath.Base(dir) != ".ledgerd" {
		t.Errorf("AppDataDir returned %s, expected a .ledgerd directory", dir)
	}
}
