package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// AtomicFileUpdate ensures atomic file update to prevent data corruption
func AtomicFileUpdate(filePath string, newContent string, createBackup bool) error {
	// Create backup if requested and there is something to back up
	if createBackup && FileExists(filePath) {
		bm := NewBackupManager(DefaultBackupRetention)
		if _, err := bm.CreateBackup(filePath); err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
	}

	// Temporary file in the same directory so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up on failure

	if _, err := tmpFile.WriteString(newContent); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	tmpFile.Close()

	if err := os.Chmod(tmpFile.Name(), 0600); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	// Atomic rename, guaranteed on POSIX systems
	if err := os.Rename(tmpFile.Name(), filePath); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	if createBackup {
		bm := NewBackupManager(DefaultBackupRetention)
		// Non-fatal: the update itself succeeded
		bm.CleanupOldBackups(filePath)
	}

	return nil
}
