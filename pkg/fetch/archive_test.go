package fetch

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zipEntry struct {
	name    string
	content string
}

// createTestZIP creates a ZIP file with the given entries, in order.
func createTestZIP(t *testing.T, zipPath string, entries []zipEntry) {
	t.Helper()

	outputFile, err := os.Create(zipPath)
	require.NoError(t, err)
	defer outputFile.Close()

	zipWriter := zip.NewWriter(outputFile)
	defer zipWriter.Close()

	for _, entry := range entries {
		entryWriter, err := zipWriter.Create(entry.name)
		require.NoError(t, err)
		_, err = entryWriter.Write([]byte(entry.content))
		require.NoError(t, err)
	}
}

func TestExtractFeedXML(t *testing.T) {
	temporaryDir := t.TempDir()
	zipPath := filepath.Join(temporaryDir, "sdn_advanced.zip")
	createTestZIP(t, zipPath, []zipEntry{
		{"README.txt", "read me"},
		{"SDN_ADVANCED.XML", "<Sanctions/>"},
		{"other.xml", "<Other/>"},
	})

	extractDir := filepath.Join(temporaryDir, "extracted")
	extractedPath, err := ExtractFeedXML(zipPath, extractDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(extractDir, "SDN_ADVANCED.XML"), extractedPath)
	content, err := os.ReadFile(extractedPath)
	require.NoError(t, err)
	assert.Equal(t, "<Sanctions/>", string(content))
	assert.NoFileExists(t, filepath.Join(extractDir, "other.xml"))
}

func TestExtractFeedXMLPathTraversal(t *testing.T) {
	temporaryDir := t.TempDir()
	zipPath := filepath.Join(temporaryDir, "malicious.zip")
	createTestZIP(t, zipPath, []zipEntry{
		{"../escape.xml", "<Sanctions/>"},
		{"safe.xml", "<Sanctions/>"},
	})

	extractDir := filepath.Join(temporaryDir, "extracted")
	extractedPath, err := ExtractFeedXML(zipPath, extractDir)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(temporaryDir, "escape.xml"))
	assert.Equal(t, filepath.Join(extractDir, "safe.xml"), extractedPath)
}

func TestExtractFeedXMLWithoutXML(t *testing.T) {
	temporaryDir := t.TempDir()
	zipPath := filepath.Join(temporaryDir, "empty.zip")
	createTestZIP(t, zipPath, []zipEntry{{"notes.txt", "nothing here"}})

	_, err := ExtractFeedXML(zipPath, filepath.Join(temporaryDir, "extracted"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no XML entry")
}

func TestIsZIP(t *testing.T) {
	temporaryDir := t.TempDir()

	zipPath := filepath.Join(temporaryDir, "feed.zip")
	createTestZIP(t, zipPath, []zipEntry{{"sdn.xml", "<Sanctions/>"}})

	xmlPath := filepath.Join(temporaryDir, "feed.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte("<Sanctions/>"), 0644))

	shortPath := filepath.Join(temporaryDir, "short")
	require.NoError(t, os.WriteFile(shortPath, []byte("PK"), 0644))

	testCases := []struct {
		name     string
		filePath string
		expected bool
	}{
		{"zip archive", zipPath, true},
		{"plain xml", xmlPath, false},
		{"shorter than header", shortPath, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			isZIP, err := IsZIP(testCase.filePath)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, isZIP)
		})
	}

	_, err := IsZIP(filepath.Join(temporaryDir, "absent"))
	assert.Error(t, err)
}
