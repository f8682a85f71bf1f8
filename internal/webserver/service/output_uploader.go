package service

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/manifest"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/model"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/sanitize"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/store"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/webserver/weberror"
)

// Canonical extensions for the accepted output image types.
var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type (
	// An OutputUploader registers images produced by a tool, linked to that
	// tool's manifest entry.
	OutputUploader struct {
		store     store.Store
		manifests *manifest.Repository
		workshop  string
		gallery   string
	}

	// OutputInput is the parsed multipart form of an output registration
	// request.
	OutputInput struct {
		ToolID      string
		Filename    string
		ContentType string
		Payload     []byte
	}
)

// NewOutputUploader returns a new OutputUploader.
func NewOutputUploader(s store.Store, m *manifest.Repository, workshop, gallery string) *OutputUploader {
	return &OutputUploader{
		store:     s,
		manifests: m,
		workshop:  workshop,
		gallery:   gallery,
	}
}

// Upload validates the input, checks the referenced tool exists, persists the
// image and prepends a manifest entry referencing both. Nothing is persisted
// when the manifest or the tool is missing.
func (s *OutputUploader) Upload(ctx context.Context, in OutputInput) (*Result, error) {
	fields := map[string]string{}
	if in.ToolID == "" {
		fields["toolId"] = "is required"
	}
	ext, allowed := imageExtensions[in.ContentType]
	switch {
	case in.Filename == "":
		fields["outputFile"] = "is required"
	case !allowed:
		fields["outputFile"] = "must be a png, jpeg, webp or gif image"
	}
	if len(fields) > 0 {
		return nil, weberror.Validation(fields)
	}

	//

	tool, exists, err := s.manifests.Find(ctx, in.ToolID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, weberror.New(http.StatusNotFound, "Manifest not found")
	}
	if tool == nil {
		return nil, weberror.New(http.StatusNotFound, "Tool not found")
	}

	//

	name := sanitize.Sanitize(strings.TrimSuffix(in.Filename, path.Ext(in.Filename)), 30)
	id := fmt.Sprintf("%s-%s", name, sanitize.ID(6))
	filename := fmt.Sprintf("%s.%s", id, ext)
	location := path.Join(s.workshop, "outputs", filename)

	//

	if _, err := s.store.PutFile(ctx, location, in.Payload, "Upload output "+filename, ""); err != nil {
		return nil, errors.Wrap(err, "could not store output")
	}

	err = s.manifests.AddOutput(ctx, model.Output{
		ID:        id,
		ToolID:    in.ToolID,
		ToolURL:   tool.URL,
		URL:       location,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	//

	return &Result{
		Success:    true,
		Filename:   filename,
		GalleryURL: GalleryURL(s.gallery, s.workshop),
	}, nil
}
