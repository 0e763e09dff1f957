// =============================================================================
// Sales Ledger - File Manager Utility
// =============================================================================
//
// This module provides the file handling underneath workbook persistence:
//   - Atomic whole-file rewrites (temp file + rename)
//   - Backup copies of the workbook taken before each rewrite
//   - Retention pruning of old backups
//
// PERSISTENCE STRATEGY:
//   - A workbook is never patched in place. The new content is written to a
//     uniquely named temp file in the same directory, synced, and renamed over
//     the original, so a failed save leaves the previous file intact.
//   - When a backup directory is configured, the previous version is copied
//     there first. Backups older than the retention window are removed.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for workbook persistence.
type FileManager struct {
	// BackupDir is where previous versions of a workbook are copied.
	// Empty disables backups.
	BackupDir string

	// BackupRetention is the maximum age of a backup. Zero keeps them all.
	BackupRetention time.Duration

	// UseTimestampSubdirs creates date-based subdirectories in the backup dir.
	// Example: backups/2024/01/15/ledger_20240115_143022_a1b2c3d4.xlsx
	UseTimestampSubdirs bool
}

// NewFileManager creates a FileManager. An empty backupDir disables backups.
func NewFileManager(backupDir string, retention time.Duration) *FileManager {
	return &FileManager{
		BackupDir:       backupDir,
		BackupRetention: retention,
	}
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteAtomic replaces path with the bytes produced by write.
//
// PARAMETERS:
//   - path: The destination file.
//   - write: Streams the full new content of the file.
//
// RETURNS:
//   - An error if the content could not be produced or moved into place.
//     The destination is untouched in that case.
func (fm *FileManager) WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	// Any failure past this point must not leave the temp file behind.
	cleanup := func(cause error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return cause
	}

	if err := write(tmp); err != nil {
		return cleanup(fmt.Errorf("failed to write content: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// =============================================================================
// BACKUPS
// =============================================================================

// BackupFile copies path into the backup directory.
//
// RETURNS:
//   - The path of the backup, or "" when backups are disabled or path does
//     not exist yet.
//   - An error if the copy fails.
func (fm *FileManager) BackupFile(path string) (string, error) {
	if fm.BackupDir == "" || !FileExists(path) {
		return "", nil
	}

	backupPath := fm.getBackupPath(path, time.Now())

	if err := os.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to copy file to backup: %w", err)
	}

	return backupPath, nil
}

// PruneBackups removes backups older than the retention window.
// It returns the number of files removed.
func (fm *FileManager) PruneBackups() (int, error) {
	if fm.BackupDir == "" || fm.BackupRetention <= 0 || !FileExists(fm.BackupDir) {
		return 0, nil
	}
	return CleanOldArchives(fm.BackupDir, fm.BackupRetention)
}

// getBackupPath builds <stem>_<timestamp>_<id><ext> under the backup dir.
// The short id keeps two saves within the same second apart.
func (fm *FileManager) getBackupPath(path string, now time.Time) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	fileName := fmt.Sprintf("%s_%s_%s%s", stem, now.Format("20060102_150405"), uuid.New().String()[:8], ext)

	if fm.UseTimestampSubdirs {
		subDir := filepath.Join(
			fm.BackupDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(fm.BackupDir, fileName)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a regular file or directory exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CleanOldArchives removes files under dir last modified before maxAge ago.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanOldArchives(dir string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean backups: %w", err)
	}

	return removed, nil
}
