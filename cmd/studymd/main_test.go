package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/studymd/internal/export"
	"github.com/gubarz/studymd/internal/logging"
	"github.com/gubarz/studymd/internal/parser"
)

const guide = `I
Arrays & Hashing
9
1.
Contains Duplicate
[E]
2.
Group Anagrams
[M]
`

func setup(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	logger = logging.NewWithWriter(io.Discard, "info", "text")
	return t.TempDir()
}

func TestRunParseWritesDataTable(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "neetcode.txt")
	output := filepath.Join(dir, "src", "data", "neetcodeData.js")
	require.NoError(t, os.WriteFile(input, []byte(guide), 0o644))

	require.NoError(t, runParse(parseCmd, []string{input, output}))

	categories, err := export.ReadFile(output)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Arrays & Hashing", categories[0].Name)
	assert.Len(t, categories[0].Problems, 2)
}

func TestRunParseMissingInputLeavesOutput(t *testing.T) {
	dir := setup(t)
	output := filepath.Join(dir, "neetcodeData.js")
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0o644))

	err := runParse(parseCmd, []string{filepath.Join(dir, "missing.txt"), output})
	require.Error(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestRunParseMissingInputCreatesNoOutput(t *testing.T) {
	dir := setup(t)
	output := filepath.Join(dir, "src", "data", "neetcodeData.js")

	err := runParse(parseCmd, []string{filepath.Join(dir, "missing.txt"), output})
	require.Error(t, err)

	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadCategoriesByExtension(t *testing.T) {
	dir := setup(t)
	categories := parser.Parse(guide)

	js := filepath.Join(dir, "data.js")
	require.NoError(t, export.WriteFile(js, categories))
	txt := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(txt, []byte(guide), 0o644))

	fromJS, err := loadCategories(js)
	require.NoError(t, err)
	fromText, err := loadCategories(txt)
	require.NoError(t, err)
	assert.Equal(t, fromText, fromJS)
}

func TestItemsFromCategories(t *testing.T) {
	items := itemsFromCategories(parser.Parse(guide))
	require.Len(t, items, 2)
	assert.Equal(t, "Arrays & Hashing", items[0].Category)
	assert.Equal(t, "Easy", items[0].Difficulty)
	assert.Equal(t, parser.DefaultStatus, items[0].Status)
	assert.Equal(t, "https://leetcode.com/problems/group-anagrams/", items[1].LeetCode)
	assert.Zero(t, items[1].ID)
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"90", 90, false},
		{"25m", 1500, false},
		{"1h30m", 5400, false},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseSeconds(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
