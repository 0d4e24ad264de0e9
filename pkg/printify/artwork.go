package printify

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Artwork is an image in the account's media library.
type Artwork struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	Height     int    `json:"height"`
	Width      int    `json:"width"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
	PreviewURL string `json:"preview_url"`
	UploadTime string `json:"upload_time"`
}

type uploadArtwork struct {
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
	Contents string `json:"contents,omitempty"`
}

// ArtworkService wraps https://developers.printify.com/#uploads.
type ArtworkService struct {
	api *transport
}

func (s *ArtworkService) List(ctx context.Context, maxPages int) ([]Artwork, error) {
	return listPages[Artwork](ctx, s.api, s.api.url("/v1/uploads.json"), maxPages)
}

func (s *ArtworkService) Get(ctx context.Context, imageID string) (*Artwork, error) {
	return getOne[Artwork](ctx, s.api, s.api.url("/v1/uploads/%s.json", url.PathEscape(imageID)))
}

// Upload sends either a local file (base64 encoded) or a public image URL.
// Exactly one of filePath and imageURL must be set.
func (s *ArtworkService) Upload(ctx context.Context, filePath, imageURL string) (*Artwork, error) {
	filePath = strings.TrimSpace(filePath)
	imageURL = strings.TrimSpace(imageURL)

	switch {
	case filePath != "" && imageURL != "":
		return nil, configError("must provide a local filename or url for upload, not both")
	case imageURL != "":
		u, err := url.Parse(imageURL)
		if err != nil {
			return nil, configError(fmt.Sprintf("invalid image url: %v", err))
		}
		return s.UploadFromURL(ctx, path.Base(u.Path), imageURL)
	case filePath != "":
		b, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read artwork %s: %w", filePath, err)
		}
		return s.send(ctx, uploadArtwork{
			FileName: filepath.Base(filePath),
			Contents: base64.StdEncoding.EncodeToString(b),
		})
	default:
		return nil, configError("must provide at least a local filename or url for upload")
	}
}

// UploadFromURL uploads the image at imageURL under an explicit file name,
// which is useful for signed URLs whose path does not end in a file name.
func (s *ArtworkService) UploadFromURL(ctx context.Context, fileName, imageURL string) (*Artwork, error) {
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(imageURL) == "" {
		return nil, configError("file name and url are required")
	}
	return s.send(ctx, uploadArtwork{FileName: fileName, URL: imageURL})
}

// Archive hides an upload from the media library.
func (s *ArtworkService) Archive(ctx context.Context, imageID string) error {
	_, err := s.api.post(ctx, s.api.url("/v1/uploads/%s/archive.json", url.PathEscape(imageID)), nil)
	return err
}

func (s *ArtworkService) send(ctx context.Context, body uploadArtwork) (*Artwork, error) {
	return sendOne[Artwork](ctx, s.api, http.MethodPost, s.api.url("/v1/uploads/images.json"), body)
}
