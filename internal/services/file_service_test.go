package services_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"songvault/internal/audio"
	"songvault/internal/models"
	"songvault/internal/services"
	"songvault/internal/storage"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// buildForm encodes parts as multipart/form-data and parses them back the way an HTTP server would.
func buildForm(t *testing.T, parts ...filePart) *multipart.Form {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.filename))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form
}

// wavBytes returns a silent 16-bit mono WAV file of the given length.
func wavBytes(t *testing.T, sampleRate, seconds int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, sampleRate*seconds),
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

const testMaxFileSize = 1 << 20

func newFileService(t *testing.T, publisher services.EventPublisher) (*services.FileService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "resources")
	return services.NewFileService(storage.NewDiskStore(dir), audio.NewProber(""), testMaxFileSize, publisher, nil), dir
}

func TestFileService_StoreValidation(t *testing.T) {
	ctx := context.Background()
	fs, dir := newFileService(t, nil)
	wavData := wavBytes(t, 8000, 1)

	cases := []struct {
		name    string
		form    *multipart.Form
		message string
	}{
		{"nil form", nil, "file must be provided"},
		{"no files", buildForm(t), "file must be provided"},
		{"two files", buildForm(t,
			filePart{"file", "a.wav", "audio/wav", wavData},
			filePart{"file", "b.wav", "audio/wav", wavData},
		), "file must be a single file"},
		{"two fields", buildForm(t,
			filePart{"a", "a.wav", "audio/wav", wavData},
			filePart{"b", "b.wav", "audio/wav", wavData},
		), "file must be a single file"},
		{"not audio", buildForm(t, filePart{"file", "notes.txt", "text/plain", []byte("hello")}), "file must be an audio file"},
		{"sniffed not audio", buildForm(t, filePart{"file", "notes.wav", "application/octet-stream", []byte("hello")}), "file must be an audio file"},
		{"no extension", buildForm(t, filePart{"file", "song", "audio/wav", wavData}), "file must have an extension"},
		{"too large", buildForm(t, filePart{"file", "big.wav", "audio/wav", make([]byte, testMaxFileSize+1)}), "file is too large"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fs.Store(ctx, "user-1", "song-1", tc.form)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.message, verr.Message)
		})
	}

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "nothing should be written for rejected uploads")
}

func TestFileService_StoreAndMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockPublisher)
	fs, dir := newFileService(t, publisher)

	publisher.On("Publish", models.EventSongFileUploaded, mock.MatchedBy(func(body []byte) bool {
		return bytes.Contains(body, []byte(`"filename":"song-1.wav"`))
	})).Return(nil).Once()

	name, err := fs.Store(ctx, "user-1", "song-1", buildForm(t, filePart{"file", "take.wav", "audio/wav", wavBytes(t, 8000, 3)}))
	require.NoError(t, err)
	assert.Equal(t, "song-1.wav", name)
	assert.FileExists(t, filepath.Join(dir, "song-1.wav"))
	publisher.AssertExpectations(t)

	meta, err := fs.Metadata(ctx, "song-1")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "song-1.wav", meta.Filename)
	require.NotNil(t, meta.Duration)
	assert.InDelta(t, 3.0, *meta.Duration, 0.01)
	require.NotNil(t, meta.Bitrate)
	assert.Equal(t, float64(8000*16), *meta.Bitrate)
}

func TestFileService_StoreSniffsGenericContentType(t *testing.T) {
	fs, dir := newFileService(t, nil)

	name, err := fs.Store(context.Background(), "user-1", "song-2", buildForm(t,
		filePart{"file", "take.wav", "application/octet-stream", wavBytes(t, 8000, 1)}))
	require.NoError(t, err)
	assert.Equal(t, "song-2.wav", name)

	// the rewound upload must be written in full
	info, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(16000))
}

func TestFileService_StoreOverwritesSameExtension(t *testing.T) {
	ctx := context.Background()
	fs, _ := newFileService(t, nil)

	_, err := fs.Store(ctx, "user-1", "song-1", buildForm(t, filePart{"file", "a.wav", "audio/wav", wavBytes(t, 8000, 1)}))
	require.NoError(t, err)
	_, err = fs.Store(ctx, "user-1", "song-1", buildForm(t, filePart{"file", "b.wav", "audio/wav", wavBytes(t, 8000, 2)}))
	require.NoError(t, err)

	meta, err := fs.Metadata(ctx, "song-1")
	require.NoError(t, err)
	require.NotNil(t, meta.Duration)
	assert.InDelta(t, 2.0, *meta.Duration, 0.01)
}

func TestFileService_MetadataMissing(t *testing.T) {
	ctx := context.Background()
	fs, _ := newFileService(t, nil)

	// resources directory does not exist yet
	meta, err := fs.Metadata(ctx, "song-1")
	require.NoError(t, err)
	assert.Nil(t, meta)

	_, err = fs.Store(ctx, "user-1", "song-10", buildForm(t, filePart{"file", "a.wav", "audio/wav", wavBytes(t, 8000, 1)}))
	require.NoError(t, err)

	// "song-1" must not match "song-10.wav"
	meta, err = fs.Metadata(ctx, "song-1")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestFileService_MetadataUnparseable(t *testing.T) {
	ctx := context.Background()
	fs, _ := newFileService(t, nil)

	_, err := fs.Store(ctx, "user-1", "song-1", buildForm(t, filePart{"file", "broken.wav", "audio/wav", []byte("definitely not RIFF")}))
	require.NoError(t, err)

	meta, err := fs.Metadata(ctx, "song-1")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "song-1.wav", meta.Filename)
	assert.Nil(t, meta.Duration)
	assert.Nil(t, meta.Bitrate)
}
