package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/engtrainer/internal/logger"
	"github.com/example/engtrainer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReadCSVByHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "russian,english,example\nвремя, time ,I have time.\n,,\nгод,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := ReadWords(path, DefaultImportConfig())
	require.NoError(t, err)

	assert.Equal(t, []models.Word{{English: "time", Russian: "время", Example: "I have time."}}, result.Words)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 4")
}

func TestReadCSVWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte("day,день,deɪ\n"), 0644))

	result, err := ReadWords(path, DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, []models.Word{{English: "day", Russian: "день", IPA: "deɪ"}}, result.Words)
}

func TestFileCatalogBootstrapsStarter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "words.csv")
	c := NewFileCatalog(path)

	words, err := c.LoadWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 25)
	assert.Equal(t, models.Word{English: "time", Russian: "время", IPA: "taɪm", Example: "I don't have much time."}, words[0])
	assert.Equal(t, "wɜːk", words[9].IPA, "cells are trimmed")

	require.NoError(t, c.AppendWords(ctx, []models.Word{{English: "sun", Russian: "солнце", Example: "Hot, bright sun."}}))
	words, err = c.LoadWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 26)
	assert.Equal(t, "Hot, bright sun.", words[25].Example)
}

func TestAppendCSVWritesHeaderToNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.csv")
	require.NoError(t, appendCSV(path, []models.Word{{English: "cat", Russian: "кот"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "english,russian,ipa,example\ncat,кот,,\n", string(data))
}

func TestFileCatalogReportsRejectedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte("english,russian\ncat,кот\n,собака\n"), 0644))

	core, logs := observer.New(zap.DebugLevel)
	c := NewFileCatalog(path).WithLogger(&logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	words, err := c.LoadWords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Word{{English: "cat", Russian: "кот"}}, words)
	require.Len(t, c.Rejected(), 1)
	assert.Contains(t, c.Rejected()[0], "Row 3")

	entries := logs.FilterMessage("skipped catalog rows").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["count"])
}

func TestExcelCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "words.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"english", "russian", "ipa", "example"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"house", "дом", "haʊs", "A big house."}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"", "пусто"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := ReadWords(path, DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, []models.Word{{English: "house", Russian: "дом", IPA: "haʊs", Example: "A big house."}}, result.Words)
	assert.Len(t, result.Errors, 1)

	c := NewFileCatalog(path)
	require.NoError(t, c.AppendWords(ctx, []models.Word{{English: "money", Russian: "деньги"}}))

	words, err := c.LoadWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "money", words[1].English)
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 3, columnToIndex("d"))
	assert.Equal(t, 26, columnToIndex("AA"))
	assert.Equal(t, -1, columnToIndex(""))
}
