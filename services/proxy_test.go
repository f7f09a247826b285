// ABOUTME: Tests for UPSTREAM_ALL_PROXY parsing and SSH key path validation
// ABOUTME: Covers traversal rejection and malformed proxy URLs without opening tunnels

package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateSSHKeyPath_RejectsTraversal(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"parent traversal", "../../../etc/passwd"},
		{"parent only", ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateSSHKeyPath(tt.path); err == nil {
				t.Errorf("ValidateSSHKeyPath(%q) should return error", tt.path)
			}
		})
	}
}

func TestValidateSSHKeyPath_AcceptsValidPaths(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "test_key")
	if err := os.WriteFile(keyPath, []byte("test-key-content"), 0600); err != nil {
		t.Fatalf("Failed to create test key file: %v", err)
	}

	validPath, err := ValidateSSHKeyPath(keyPath)
	if err != nil {
		t.Errorf("ValidateSSHKeyPath(%q) returned unexpected error: %v", keyPath, err)
	}
	if validPath != keyPath {
		t.Errorf("ValidateSSHKeyPath(%q) = %q", keyPath, validPath)
	}
}

func TestValidateSSHKeyPath_RejectsDirectory(t *testing.T) {
	if _, err := ValidateSSHKeyPath(t.TempDir()); err == nil {
		t.Error("ValidateSSHKeyPath should reject directory paths")
	}
}

func TestValidateSSHKeyPath_RejectsNonExistent(t *testing.T) {
	if _, err := ValidateSSHKeyPath("/nonexistent/path/to/key"); err == nil {
		t.Error("ValidateSSHKeyPath should reject non-existent paths")
	}
}

func TestNewProxyDialContext(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(keyPath, []byte("not-a-real-key"), 0600); err != nil {
		t.Fatalf("Failed to create test key file: %v", err)
	}

	t.Run("accepts ssh+socks5 with key", func(t *testing.T) {
		dial, err := newProxyDialContext("ssh+socks5://jumpbox@10.0.0.5:22?private-key=" + keyPath)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if dial == nil {
			t.Error("Expected dial function, got nil")
		}
	})

	t.Run("rejects missing key", func(t *testing.T) {
		if _, err := newProxyDialContext("ssh+socks5://jumpbox@10.0.0.5:22"); err == nil {
			t.Error("Expected error for missing private-key, got nil")
		}
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		if _, err := newProxyDialContext("http://proxy:3128?private-key=" + keyPath); err == nil {
			t.Error("Expected error for http scheme, got nil")
		}
	})
}
