package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/idilsaglam/cusrr/internal/apperr"
	"github.com/idilsaglam/cusrr/internal/model"
)

const presentationsPath = "/api/v1/presentations"

func presentationPath(id int) string {
	return presentationsPath + "/" + strconv.Itoa(id)
}

func (c *Client) ListPresentations(ctx context.Context) ([]model.Presentation, error) {
	var out []model.Presentation
	if err := c.GetJSON(ctx, presentationsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPresentation(ctx context.Context, id int) (model.Presentation, error) {
	var out model.Presentation
	err := c.GetJSON(ctx, presentationPath(id), nil, &out)
	return out, err
}

// PresentationsByType lists presentations whose block type matches kind
// (poster, keynote, ...).
func (c *Client) PresentationsByType(ctx context.Context, kind string) ([]model.Poster, error) {
	var out []model.Poster
	if err := c.GetJSON(ctx, presentationsPath+"/type/"+url.PathEscape(kind), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePresentation posts to the collection; the trailing slash is part of
// the route.
func (c *Client) CreatePresentation(ctx context.Context, p model.NewPresentation) (model.Presentation, error) {
	var out model.Presentation
	err := c.postJSON(ctx, presentationsPath+"/", p, &out)
	return out, err
}

func (c *Client) UpdatePresentation(ctx context.Context, id int, fields map[string]any) (model.Presentation, error) {
	var out model.Presentation
	err := c.PutJSON(ctx, presentationPath(id), fields, &out)
	return out, err
}

func (c *Client) DeletePresentation(ctx context.Context, id int) error {
	return c.delete(ctx, presentationPath(id))
}

// Upload is a presentation file plus optional metadata.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
	Title    string
	Notes    string
}

var uploadExtensions = []string{".ppt", ".pptx"}

// ValidateUpload applies the client-side checks: a file is present, it is
// a slide deck, and it is under limit bytes.
func ValidateUpload(u Upload, limit int64) error {
	if u.Body == nil || strings.TrimSpace(u.Filename) == "" {
		return apperr.Invalid("file", "no file selected")
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	allowed := false
	for _, e := range uploadExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperr.Invalid("file", "only .ppt or .pptx files are accepted")
	}
	if limit > 0 && u.Size > limit {
		return apperr.Invalid("file", fmt.Sprintf("%s exceeds the %s limit",
			humanize.IBytes(uint64(u.Size)), humanize.IBytes(uint64(limit))))
	}
	return nil
}

// UploadPresentationFile sends a multipart form with file, title and notes.
// Oversized or wrongly typed files are rejected before any request.
func (c *Client) UploadPresentationFile(ctx context.Context, id int, u Upload) error {
	if err := ValidateUpload(u, c.uploadLimit); err != nil {
		return err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUpload(mw, u))
	}()

	// Unblocks the writer goroutine if the request ends early.
	defer pr.Close()

	req, err := c.newRequest(ctx, http.MethodPost, presentationPath(id)+"/upload", nil, pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, nil)
}

func writeUpload(mw *multipart.Writer, u Upload) error {
	if u.Title != "" {
		if err := mw.WriteField("title", u.Title); err != nil {
			return err
		}
	}
	if u.Notes != "" {
		if err := mw.WriteField("notes", u.Notes); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("file", filepath.Base(u.Filename))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, u.Body); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return mw.Close()
}
