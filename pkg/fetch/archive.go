package fetch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var zipMagic = []byte("PK\x03\x04")

// IsZIP reports whether the file at filePath starts with a ZIP local file header.
func IsZIP(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	header := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(file, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return bytes.Equal(header, zipMagic), nil
}

// ExtractFeedXML extracts the first .xml entry of a zipped feed into
// targetDirectory and returns its path. Entries that would escape the target
// directory are skipped.
func ExtractFeedXML(zipPath string, targetDirectory string) (string, error) {
	zipReader, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open ZIP %s: %w", zipPath, err)
	}
	defer zipReader.Close()

	if err := os.MkdirAll(targetDirectory, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}

	cleanTarget := filepath.Clean(targetDirectory) + string(os.PathSeparator)
	for _, zipEntry := range zipReader.File {
		if zipEntry.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(zipEntry.Name), ".xml") {
			continue
		}

		extractedPath := filepath.Join(targetDirectory, zipEntry.Name)
		if !strings.HasPrefix(filepath.Clean(extractedPath), cleanTarget) {
			continue
		}

		if err := extractEntry(zipEntry, extractedPath); err != nil {
			return "", err
		}
		return extractedPath, nil
	}

	return "", fmt.Errorf("no XML entry in %s", zipPath)
}

func extractEntry(zipEntry *zip.File, extractedPath string) error {
	if err := os.MkdirAll(filepath.Dir(extractedPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", extractedPath, err)
	}

	entryReader, err := zipEntry.Open()
	if err != nil {
		return fmt.Errorf("failed to open ZIP entry %s: %w", zipEntry.Name, err)
	}
	defer entryReader.Close()

	outputFile, err := os.Create(extractedPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", extractedPath, err)
	}

	_, err = io.Copy(outputFile, entryReader)
	closeErr := outputFile.Close()
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", zipEntry.Name, err)
	}
	return closeErr
}
