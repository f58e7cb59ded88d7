package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"songvault/internal/audio"
	"songvault/internal/models"
	"songvault/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// FileService places uploaded audio files in the resource store and reads
// their metadata back.
type FileService struct {
	store       storage.ObjectStore
	prober      *audio.Prober
	maxFileSize int64
	events      eventEmitter
	log         *zap.Logger
}

// NewFileService creates a new FileService. Uploads larger than maxFileSize
// bytes are rejected; zero or less disables the check. publisher may be nil.
func NewFileService(store storage.ObjectStore, prober *audio.Prober, maxFileSize int64, publisher EventPublisher, log *zap.Logger) *FileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileService{
		store:       store,
		prober:      prober,
		maxFileSize: maxFileSize,
		events:      eventEmitter{publisher: publisher, log: log},
		log:         log,
	}
}

// Store validates the single audio file in form and saves it as "<songID>.<ext>",
// overwriting a previous upload with the same extension. Files left over from
// uploads with a different extension are not removed.
func (s *FileService) Store(ctx context.Context, userID, songID string, form *multipart.Form) (string, error) {
	fh, err := singleFile(form)
	if err != nil {
		return "", err
	}
	if s.maxFileSize > 0 && fh.Size > s.maxFileSize {
		return "", validationError("file is too large")
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	contentType, err := detectContentType(fh, src)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "audio/") {
		return "", validationError("file must be an audio file")
	}

	ext := strings.TrimPrefix(filepath.Ext(fh.Filename), ".")
	if ext == "" {
		return "", validationError("file must have an extension")
	}

	name := songID + "." + ext
	if err := s.store.Save(ctx, name, src, fh.Size, contentType); err != nil {
		return "", fmt.Errorf("failed to store resource file: %w", err)
	}

	s.log.Info("Stored resource file", zap.String("song_id", songID), zap.String("filename", name))
	s.events.emit(models.EventSongFileUploaded, songID, userID, name)
	return name, nil
}

// Metadata reads duration and bitrate from the song's stored file. It returns
// nil when no file has been uploaded. A file that cannot be parsed yields
// metadata carrying only the filename.
func (s *FileService) Metadata(ctx context.Context, songID string) (*models.SongMetadata, error) {
	name, err := s.store.FindByPrefix(ctx, songID+".")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	f, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource file: %w", err)
	}
	defer f.Close()

	meta := &models.SongMetadata{Filename: name}
	probed, err := s.prober.Probe(ctx, name, f)
	if err != nil {
		s.log.Warn("Failed to read audio metadata", zap.String("filename", name), zap.Error(err))
		return meta, nil
	}
	meta.Duration = probed.Duration
	meta.Bitrate = probed.Bitrate
	return meta, nil
}

// Open returns a reader over a stored file by its full name.
func (s *FileService) Open(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	return s.store.Open(ctx, name)
}

func singleFile(form *multipart.Form) (*multipart.FileHeader, error) {
	if form == nil {
		return nil, validationError("file must be provided")
	}

	var files []*multipart.FileHeader
	for _, fhs := range form.File {
		files = append(files, fhs...)
	}
	switch len(files) {
	case 0:
		return nil, validationError("file must be provided")
	case 1:
		return files[0], nil
	default:
		return nil, validationError("file must be a single file")
	}
}

// detectContentType trusts the part's declared type unless it is missing or
// generic, in which case the content is sniffed. src is rewound afterwards.
func detectContentType(fh *multipart.FileHeader, src multipart.File) (string, error) {
	declared := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to sniff upload: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	return mt.String(), nil
}
