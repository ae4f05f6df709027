package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/models"
)

type recordingArchiver struct {
	names []string
	err   error
}

func (a *recordingArchiver) ArchiveCSV(_ context.Context, filename string, data []byte, _ string) (*ArchiveResult, error) {
	a.names = append(a.names, filename)
	if a.err != nil {
		return nil, a.err
	}
	return &ArchiveResult{Key: "csv-imports/" + filename, Size: int64(len(data)), Archived: true}, nil
}

const sampleCSV = "name,sku,price\nTee,T-1,10\n"

func TestIsCSV(t *testing.T) {
	assert.True(t, IsCSV("data.csv", ""))
	assert.True(t, IsCSV("DATA.CSV", "application/octet-stream"))
	assert.True(t, IsCSV("export", "text/csv; charset=utf-8"))
	assert.False(t, IsCSV("data.txt", "text/plain"))
	assert.False(t, IsCSV("data.csv.zip", "application/zip"))
}

func TestStageRejectsNonCSVWithoutNetwork(t *testing.T) {
	for _, source := range []UploadSource{SourcePicker, SourceDrop} {
		api := newFakeCatalog()
		upload := NewBulkUpload(api, nil, 0, time.Minute)

		_, err := upload.Stage(source, "data.csv", "text/csv", []byte(sampleCSV))
		require.NoError(t, err)

		state, err := upload.Stage(source, "data.txt", "text/plain", []byte("hello"))
		assert.ErrorIs(t, err, ErrNotCSV)
		assert.Nil(t, state.File)
		require.NotNil(t, state.Status)
		assert.Equal(t, i18n.KeyUploadOnlyCSV, state.Status.Key)

		_, err = upload.Submit(context.Background(), "admin@example.com")
		assert.ErrorIs(t, err, ErrNoFile)
		assert.Zero(t, api.uploadCount())
	}
}

func TestSubmitPostsOnceAndClearsFile(t *testing.T) {
	api := newFakeCatalog()
	api.inserted = 42
	archiver := &recordingArchiver{}
	upload := NewBulkUpload(api, archiver, 0, time.Minute)

	_, err := upload.Stage(SourceDrop, "data.csv", "", []byte(sampleCSV))
	require.NoError(t, err)

	state, err := upload.Submit(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, api.uploadCount())
	assert.Equal(t, []string{sampleCSV}, api.uploadBody)
	assert.Equal(t, []string{"data.csv"}, archiver.names)
	assert.Nil(t, state.File)
	require.NotNil(t, state.Status)
	assert.Equal(t, models.NoticeSuccess, state.Status.Kind)
	assert.Equal(t, i18n.KeyUploadInserted, state.Status.Key)
	assert.Equal(t, []interface{}{42}, state.Status.Args)
}

func TestSubmitFailureKeepsFile(t *testing.T) {
	api := newFakeCatalog()
	api.uploadErr = &catalog.APIError{Status: 422, Message: "row 3: price missing", FromBody: true}
	upload := NewBulkUpload(api, nil, 0, time.Minute)

	_, err := upload.Stage(SourcePicker, "data.csv", "text/csv", []byte(sampleCSV))
	require.NoError(t, err)

	state, err := upload.Submit(context.Background(), "admin@example.com")
	assert.Error(t, err)
	require.NotNil(t, state.File)
	assert.Equal(t, "data.csv", state.File.Name)
	require.NotNil(t, state.Status)
	assert.Equal(t, i18n.KeyUploadFailed, state.Status.Key)
	assert.Equal(t, []interface{}{"row 3: price missing"}, state.Status.Args)
	assert.False(t, state.Uploading)
}

func TestArchiveFailureDoesNotBlockUpload(t *testing.T) {
	api := newFakeCatalog()
	api.inserted = 1
	upload := NewBulkUpload(api, &recordingArchiver{err: errors.New("s3 down")}, 0, time.Minute)

	_, err := upload.Stage(SourcePicker, "data.csv", "text/csv", []byte(sampleCSV))
	require.NoError(t, err)

	_, err = upload.Submit(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, api.uploadCount())
}

func TestStageRejectsOversizedFile(t *testing.T) {
	upload := NewBulkUpload(newFakeCatalog(), nil, 10, time.Minute)

	state, err := upload.Stage(SourcePicker, "data.csv", "text/csv", []byte(sampleCSV))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Nil(t, state.File)

	var limitErr *SizeLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, int64(10), limitErr.Limit)
}

func TestStatusClearsAfterTTL(t *testing.T) {
	api := newFakeCatalog()
	upload := NewBulkUpload(api, nil, 0, 30*time.Millisecond)

	_, err := upload.Stage(SourcePicker, "data.csv", "text/csv", []byte(sampleCSV))
	require.NoError(t, err)
	state, err := upload.Submit(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, state.Status)

	assert.Eventually(t, func() bool {
		return upload.State().Status == nil
	}, time.Second, 5*time.Millisecond)
}

func TestNewerStatusSurvivesOlderTimer(t *testing.T) {
	upload := NewBulkUpload(newFakeCatalog(), nil, 0, 50*time.Millisecond)

	_, err := upload.Stage(SourcePicker, "a.txt", "text/plain", nil)
	require.ErrorIs(t, err, ErrNotCSV)

	time.Sleep(30 * time.Millisecond)
	_, err = upload.Stage(SourceDrop, "b.txt", "text/plain", nil)
	require.ErrorIs(t, err, ErrNotCSV)

	// The first timer fires here but must not clear the second status.
	time.Sleep(30 * time.Millisecond)
	assert.NotNil(t, upload.State().Status)

	assert.Eventually(t, func() bool {
		return upload.State().Status == nil
	}, time.Second, 5*time.Millisecond)
}

func TestClearRemovesFileAndStatus(t *testing.T) {
	upload := NewBulkUpload(newFakeCatalog(), nil, 0, time.Minute)
	_, err := upload.Stage(SourcePicker, "data.csv", "text/csv", []byte(sampleCSV))
	require.NoError(t, err)

	state := upload.Clear()
	assert.Nil(t, state.File)
	assert.Nil(t, state.Status)
}
