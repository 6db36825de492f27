package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// MaxAvatarSize is the largest accepted avatar upload.
const MaxAvatarSize = 5 * 1024 * 1024

var (
	ErrInvalidImageType = errors.New("invalid file type. Only JPG, PNG, GIF, WEBP allowed")
	ErrImageTooLarge    = errors.New("file too large. Maximum size is 5MB")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarStorage keeps profile pictures on local disk under basePath and
// serves them from baseURL.
type AvatarStorage struct {
	basePath string
	baseURL  string
	now      func() time.Time
	log      *zap.Logger
}

func NewAvatarStorage(basePath, baseURL string, logger *zap.Logger) (*AvatarStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &AvatarStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
		log:      logger.Named("storage"),
	}, nil
}

func (s *AvatarStorage) BasePath() string { return s.basePath }

type SaveImageResponse struct {
	Filename  string `json:"filename"`
	FilePath  string `json:"file_path"`
	PublicURL string `json:"public_url"`
	FileSize  int64  `json:"file_size"`
	MimeType  string `json:"mime_type"`
}

// SaveAvatar stores the image read from r for participantID. The type is
// sniffed from the content, the client filename is ignored.
func (s *AvatarStorage) SaveAvatar(participantID string, r io.Reader) (*SaveImageResponse, error) {
	if strings.ContainsAny(participantID, `/\.`) || participantID == "" {
		return nil, fmt.Errorf("invalid participant id %q", participantID)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxAvatarSize {
		return nil, ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mtype.String()]
	if !ok {
		s.log.Info("rejected avatar", zap.String("participant", participantID), zap.String("mime", mtype.String()))
		return nil, ErrInvalidImageType
	}

	userDir := filepath.Join(s.basePath, participantID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, fmt.Errorf("create user dir: %w", err)
	}
	filename := fmt.Sprintf("avatar_%d%s", s.now().UnixNano(), ext)
	dst, err := os.Create(filepath.Join(userDir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	rel := participantID + "/" + filename
	return &SaveImageResponse{
		Filename:  filename,
		FilePath:  rel,
		PublicURL: s.ImageURL(rel),
		FileSize:  int64(len(data)),
		MimeType:  mtype.String(),
	}, nil
}

// ImageURL maps a stored relative path to its public URL.
func (s *AvatarStorage) ImageURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return s.baseURL + "/" + imagePath
}

// LocalPath reverses ImageURL for URLs served by this storage.
func (s *AvatarStorage) LocalPath(publicURL string) (string, bool) {
	rel, ok := strings.CutPrefix(publicURL, s.baseURL+"/")
	if !ok || rel == "" {
		return "", false
	}
	return rel, true
}

// DeleteImage removes a stored image; a missing file is not an error.
func (s *AvatarStorage) DeleteImage(imagePath string) error {
	if imagePath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(imagePath)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// AllowedImageExtensions lists the extensions avatars are stored under.
func AllowedImageExtensions() []string {
	exts := lo.Uniq(lo.Values(allowedImageTypes))
	slices.Sort(exts)
	return exts
}
