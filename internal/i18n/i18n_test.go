package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, Initialize("en"))

	assert.Equal(t, "Uploaded! Inserted 12 rows", T("en", KeyUploadInserted, 12))
	assert.Equal(t, "Error: Only .csv files are allowed.", T("en", KeyUploadOnlyCSV))
	assert.Equal(t, "上傳中...", T("zh_TW", KeyUploadInProgress))
}

func TestTranslateFallsBack(t *testing.T) {
	require.NoError(t, Initialize("en"))

	assert.Equal(t, "Uploading...", T("fr", KeyUploadInProgress))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestLocalesHaveSameKeys(t *testing.T) {
	require.NoError(t, Initialize("en"))

	en := instance.translations["en"]
	zh := instance.translations["zh_TW"]
	require.NotEmpty(t, en)
	for key := range en {
		assert.Contains(t, zh, key, "zh_TW is missing %s", key)
	}
	assert.Equal(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}
