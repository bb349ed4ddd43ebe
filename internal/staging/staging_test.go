// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package staging

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		mediaType string
		wantOK    bool
	}{
		{"csv by type and extension", "sales.csv", "text/csv", true},
		{"csv by extension only", "sales.csv", "", true},
		{"upper-case extension", "SALES.CSV", "application/octet-stream", true},
		{"zip by extension", "data.zip", "", true},
		{"zip by type only", "archive", "application/zip", true},
		{"x-zip-compressed", "upload.bin", "application/x-zip-compressed", true},
		{"application/csv", "export", "application/csv", true},
		{"type with parameters", "export", "text/csv; charset=utf-8", true},
		{"upper-case type", "export", "TEXT/CSV", true},
		{"txt file", "notes.txt", "text/plain", false},
		{"no type no extension", "README", "", false},
		{"csv in the middle", "data.csv.txt", "text/plain", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Candidate{Name: tt.file, MediaType: tt.mediaType})
			if tt.wantOK {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.file, verr.Name)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestStage_ReplacesWholesale(t *testing.T) {
	st := New()

	_, err := st.Stage(FromBytes("sales.csv", "text/csv", []byte("a,b\n1,2\n")))
	require.NoError(t, err)
	f, err := st.Stage(FromBytes("data.zip", "application/zip", []byte("PK")))
	require.NoError(t, err)

	cur, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, "data.zip", cur.Name)
	assert.Equal(t, ".zip", cur.Extension)
	assert.Equal(t, f.Name, cur.Name)
	assert.Equal(t, f.MediaType, cur.MediaType)
	assert.Equal(t, f.Size, cur.Size)
	assert.Equal(t, []byte("PK"), readStaged(t, f))
	assert.Equal(t, []byte("PK"), readStaged(t, cur))
}

func readStaged(t *testing.T, f StagedFile) []byte {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return b
}

func TestStage_InvalidLeavesPriorFile(t *testing.T) {
	st := New()
	_, err := st.Stage(FromBytes("sales.csv", "text/csv", []byte("x")))
	require.NoError(t, err)

	_, err = st.Stage(FromBytes("notes.txt", "text/plain", []byte("y")))
	require.Error(t, err)

	cur, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, "sales.csv", cur.Name)
	assert.Equal(t, "✅ Selected file: sales.csv", st.Label())
}

func TestStage_InvalidOnEmpty(t *testing.T) {
	st := New()
	_, err := st.Stage(FromBytes("notes.txt", "text/plain", nil))
	require.Error(t, err)

	assert.False(t, st.HasFile())
	assert.Equal(t, PlaceholderLabel, st.Label())
}

func TestClear_Idempotent(t *testing.T) {
	st := New()
	_, err := st.Stage(FromBytes("sales.csv", "text/csv", nil))
	require.NoError(t, err)

	st.Clear()
	assert.False(t, st.HasFile())
	st.Clear()
	assert.False(t, st.HasFile())
	assert.Equal(t, PlaceholderLabel, st.Label())
}

func TestStagedFile_Open(t *testing.T) {
	st := New()
	f, err := st.Stage(FromBytes("sales.csv", "text/csv", []byte("a,b\n")))
	require.NoError(t, err)

	// Each Open returns a fresh reader.
	for i := 0; i < 2; i++ {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		assert.Equal(t, "a,b\n", string(data))
	}

	_, err = StagedFile{Name: "x.csv"}.Open()
	assert.Error(t, err)
}

func TestLabel_NormalizesName(t *testing.T) {
	st := New()
	_, err := st.Stage(FromBytes("résumé.csv", "", nil))
	require.NoError(t, err)
	assert.Equal(t, "✅ Selected file: résumé.csv", st.Label())
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()

	zipPath := filepath.Join(dir, "bundle.zip")
	zf, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(zf)
	w, err := zw.Create("sales.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("region,revenue\nnorth,42000\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, zf.Close())

	cand, err := FromPath(zipPath, 0)
	require.NoError(t, err)
	assert.Equal(t, "bundle.zip", cand.Name)
	assert.Equal(t, "application/zip", cand.MediaType)
	assert.Equal(t, zipPath, cand.Path)

	// A zip with a misleading name is still accepted by its content type.
	renamed := filepath.Join(dir, "bundle.data")
	require.NoError(t, os.Rename(zipPath, renamed))
	cand, err = FromPath(renamed, 0)
	require.NoError(t, err)
	assert.NoError(t, Validate(cand))
}

func TestFromPath_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := FromPath(dir, 0)
	assert.ErrorIs(t, err, ErrNotRegularFile)

	_, err = FromPath(filepath.Join(dir, "missing.csv"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)

	big := filepath.Join(dir, "big.csv")
	require.NoError(t, os.WriteFile(big, make([]byte, 2048), 0600))
	_, err = FromPath(big, 1024)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFromPath_TextIsRejectedByStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some notes\n"), 0600))

	cand, err := FromPath(path, 0)
	require.NoError(t, err)

	st := New()
	_, err = st.Stage(cand)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.False(t, st.HasFile())
}
