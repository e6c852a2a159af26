package backup

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"app-planner/internal/model"
	"app-planner/internal/store"
)

func sampleSnapshot() store.Snapshot {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	must := model.PriorityMust
	return store.Snapshot{
		Apps: []model.App{{ID: "a1", Name: "Planner", CreatedAt: ts, UpdatedAt: ts}},
		Blocks: []model.Block{
			{ID: "b1", AppID: "a1", Type: model.TypeFeature, Title: "Login", Status: model.StatusInProgress, Priority: &must, CreatedAt: ts, UpdatedAt: ts},
			{ID: "b2", AppID: "a1", ParentID: model.StrPtr("b1"), Type: model.TypeRule, Title: "Must use SSO", Status: model.StatusDone, CreatedAt: ts, UpdatedAt: ts},
		},
		Collapsed:  map[string]bool{"b1": true},
		ExportedAt: ts,
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseFormat("edn")
	require.Error(t, err)

	require.Equal(t, FormatYAML, FormatFromPath("backup.YML"))
	require.Equal(t, FormatJSON, FormatFromPath("backup.txt"))
}

func TestEncodeDecode_BothFormats(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{FormatJSON, FormatYAML} {
		f := f
		t.Run(string(f), func(t *testing.T) {
			t.Parallel()
			want := sampleSnapshot()

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, want, f, true))
			got, err := Decode(&buf, f)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestDecode_AbsentCollectionsStayNil(t *testing.T) {
	t.Parallel()

	snap, err := Decode(strings.NewReader(`{"collapsed":{"b1":true}}`), FormatJSON)
	require.NoError(t, err)
	require.Nil(t, snap.Apps)
	require.Nil(t, snap.Blocks)
	require.Equal(t, map[string]bool{"b1": true}, snap.Collapsed)

	snap, err = Decode(strings.NewReader("blocks: []\n"), FormatYAML)
	require.NoError(t, err)
	require.Nil(t, snap.Apps)
	require.NotNil(t, snap.Blocks)
	require.Empty(t, snap.Blocks)
}

func TestDecode_SchemaViolations(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader(`{"apps":[{"name":"no id"}],"blocks":[{"id":"b","app_id":"a","type":"note","status":"done","order":"first"}]}`), FormatJSON)
	var se *SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	paths := map[string]bool{}
	for _, p := range se.Problems {
		paths[p.Path] = true
	}
	require.True(t, paths["apps/0"], "problems: %+v", se.Problems)
	require.True(t, paths["blocks/0/order"], "problems: %+v", se.Problems)

	_, err = Decode(strings.NewReader(`{"collapsed":{"b1":"yes"}}`), FormatJSON)
	require.True(t, errors.As(err, &se))

	_, err = Decode(strings.NewReader(`{not json`), FormatJSON)
	require.Error(t, err)
}

func TestWriteReadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	want := sampleSnapshot()

	for _, name := range []string{"out/backup.json", "out/backup.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, want, "", false))

		got, err := ReadFile(path, "")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	require.Len(t, entries, 2, "temp files must be cleaned up")

	raw, err := os.ReadFile(filepath.Join(dir, "out/backup.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(raw), "exportedAt:")
	require.Contains(t, string(raw), "parent_id: b1")
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"), "")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateJSON_OrderMustBeInteger(t *testing.T) {
	t.Parallel()

	ok := `{"blocks":[{"id":"b","app_id":"a","type":"note","status":"done","order":3}]}`
	require.NoError(t, ValidateJSON([]byte(ok)))

	bad := `{"blocks":[{"id":"b","app_id":"a","type":"note","status":"done","order":1.5}]}`
	var se *SchemaError
	require.True(t, errors.As(ValidateJSON([]byte(bad)), &se))
	paths := []string{}
	for _, p := range se.Problems {
		paths = append(paths, p.Path)
	}
	require.Contains(t, paths, "blocks/0/order")

	require.Error(t, ValidateJSON([]byte(`{"apps":`)))
}
