package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"
)

// DefaultBackupRetention is the default number of backups to keep
const DefaultBackupRetention = 3

// BackupManager manages backup files for the settings document
type BackupManager struct {
	// MaxBackups is the maximum number of backups to retain
	MaxBackups int
}

// NewBackupManager creates a new BackupManager
func NewBackupManager(maxBackups int) *BackupManager {
	if maxBackups <= 0 {
		maxBackups = DefaultBackupRetention
	}
	return &BackupManager{MaxBackups: maxBackups}
}

// CreateBackup creates a new backup file with timestamp-PID naming format
func (bm *BackupManager) CreateBackup(filePath string) (string, error) {
	pid := syscall.Getpid()
	timestamp := time.Now().Format("20060102150405")
	backupPath := fmt.Sprintf("%s.backup-%s-%d", filePath, timestamp, pid)

	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	// Preserve file permissions. Non-fatal: the backup itself was created.
	if srcInfo, err := os.Stat(filePath); err == nil {
		os.Chmod(backupPath, srcInfo.Mode())
	}

	return backupPath, nil
}

// ListBackups returns all backup files for filePath, oldest first
func (bm *BackupManager) ListBackups(filePath string) ([]string, error) {
	pattern := fmt.Sprintf("%s.backup-*", filePath)
	backupFiles, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	sort.Slice(backupFiles, func(i, j int) bool {
		iInfo, err1 := os.Stat(backupFiles[i])
		jInfo, err2 := os.Stat(backupFiles[j])
		if err1 != nil || err2 != nil {
			return false
		}
		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	return backupFiles, nil
}

// CleanupOldBackups removes old backups, retaining the most recent MaxBackups
func (bm *BackupManager) CleanupOldBackups(filePath string) error {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}

	numToRemove := len(backupFiles) - bm.MaxBackups
	if numToRemove <= 0 {
		return nil
	}

	for _, oldBackup := range backupFiles[:numToRemove] {
		if err := os.Remove(oldBackup); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", oldBackup, err)
		}
	}

	return nil
}

// RestoreFromLatestBackup restores the file from the most recent backup
func (bm *BackupManager) RestoreFromLatestBackup(filePath string) error {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}
	if len(backupFiles) == 0 {
		return fmt.Errorf("no backup files found for %s", filePath)
	}

	latestBackup := backupFiles[len(backupFiles)-1]
	if err := copyFile(latestBackup, filePath); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}

	if srcInfo, err := os.Stat(latestBackup); err == nil {
		return os.Chmod(filePath, srcInfo.Mode())
	}
	return nil
}

// copyFile copies a file from src to dst, preserving permissions
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
