package service

import (
	"context"
	"fmt"
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

// Workshop tool scripts are p5.js sketches.
const toolExtension = ".js"

type (
	// A ToolUploader registers uploaded scripts in the content store and the
	// workshop manifest.
	ToolUploader struct {
		store     store.Store
		manifests *manifest.Repository
		workshop  string
		gallery   string
	}

	// ToolInput is the parsed multipart form of a tool registration request.
	// String fields are expected trimmed.
	ToolInput struct {
		Name        string
		Description string
		Nickname    string
		Model       string
		Filename    string
		Payload     []byte
	}

	// A Result references the stored artifact and the public gallery page.
	Result struct {
		Success    bool   `json:"success"`
		Filename   string `json:"filename"`
		GalleryURL string `json:"galleryUrl"`
	}
)

// NewToolUploader returns a new ToolUploader.
func NewToolUploader(s store.Store, m *manifest.Repository, workshop, gallery string) *ToolUploader {
	return &ToolUploader{
		store:     s,
		manifests: m,
		workshop:  workshop,
		gallery:   gallery,
	}
}

// Upload validates the input, persists the script and prepends a manifest
// entry referencing it. Validation failures come back as a weberror
// enumerating every failing field; any other error is an internal failure
// for the HTTP layer to collapse.
func (s *ToolUploader) Upload(ctx context.Context, in ToolInput) (*Result, error) {
	fields := map[string]string{}
	if in.Name == "" {
		fields["toolName"] = "is required"
	}
	if in.Description == "" {
		fields["toolDescription"] = "is required"
	}
	if in.Nickname == "" {
		fields["nickname"] = "is required"
	}
	if in.Model == "" {
		fields["modelUsed"] = "is required"
	}
	switch {
	case in.Filename == "":
		fields["toolFile"] = "is required"
	case !strings.HasSuffix(strings.ToLower(in.Filename), toolExtension):
		fields["toolFile"] = "must be a " + toolExtension + " file"
	}
	if len(fields) > 0 {
		return nil, weberror.Validation(fields)
	}

	//

	author := sanitize.Sanitize(in.Nickname, 20)
	name := sanitize.Sanitize(strings.TrimSuffix(in.Filename, path.Ext(in.Filename)), 30)
	id := fmt.Sprintf("%s-%s-%s", author, name, sanitize.ID(6))
	filename := id + toolExtension
	location := path.Join(s.workshop, "tools", filename)

	//

	_, err := s.store.PutFile(ctx, location, in.Payload, "Upload tool "+filename, "")
	if err != nil {
		return nil, errors.Wrap(err, "could not store tool")
	}

	err = s.manifests.AddTool(ctx, model.Tool{
		ID:          id,
		Author:      in.Nickname,
		Name:        in.Name,
		Description: in.Description,
		Model:       in.Model,
		URL:         location,
		UploadedAt:  time.Now().UTC(),
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

// GalleryURL computes the public gallery page for a workshop.
func GalleryURL(base, workshop string) string {
	return strings.TrimSuffix(base, "/") + "/" + workshop + "/"
}
