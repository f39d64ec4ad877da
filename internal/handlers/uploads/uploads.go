// Package uploads turns incoming image and PDF files into normalized PNG
// pages held in the in-memory attachment store. Nothing is written to disk;
// the returned file id is what chat requests later reference.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"aiconsole/internal/handlers/settings"
	"aiconsole/internal/shared"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// allowedExtensions mirrors what the picker in the UI offers.
var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"pdf": true, "webp": true, "heic": true, "avif": true,
}

// SettingsSource supplies the current upload limits.
type SettingsSource interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Sink receives the processed pages and hands back the attachment id.
type Sink interface {
	Put(sessionID string, pages [][]byte) string
}

// Processor converts uploads and stores the results.
type Processor struct {
	Settings    SettingsSource
	Attachments Sink
	Log         *zap.SugaredLogger
}

func NewProcessor(src SettingsSource, sink Sink, log *zap.SugaredLogger) *Processor {
	return &Processor{Settings: src, Attachments: sink, Log: log}
}

// Process validates, converts and stores one uploaded file, returning the
// attachment id the client will reference in chat messages.
func (p *Processor) Process(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", shared.ErrNoFile
	}

	s, err := p.Settings.Load(ctx)
	if err != nil {
		return "", err
	}

	if len(data) > s.MaxUploadFileSize*shared.MaxUploadBytesFactor {
		return "", &shared.RequestError{
			StatusCode: 413,
			Err:        fmt.Errorf("File is too large. The current maximum upload size is %d MB.", s.MaxUploadFileSize),
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return "", &shared.RequestError{
			StatusCode: 400,
			Err:        fmt.Errorf("File type '%s' not allowed.", ext),
		}
	}

	var pages [][]byte
	if ext == "pdf" {
		pages, err = p.renderPDF(filename, data, s)
	} else {
		pages, err = normalizeImage(data)
	}
	if err != nil {
		return "", err
	}

	id := p.Attachments.Put(sessionID, pages)
	p.Log.Infow("stored upload", "session_id", sessionID, "file", filename, "pages", len(pages), "attachment_id", id)
	return id, nil
}

// renderPDF rasterizes every page to PNG at the configured resolution. PNG
// keeps text and diagrams legible where JPEG artifacts would not.
func (p *Processor) renderPDF(filename string, data []byte, s settings.Settings) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		p.Log.Errorw("failed to open pdf", "file", filename, "error", err)
		return nil, &shared.RequestError{
			StatusCode: 400,
			Err:        fmt.Errorf("Failed to process PDF file '%s'.", filename),
		}
	}
	defer doc.Close()

	if doc.NumPage() > s.MaxPages {
		return nil, &shared.RequestError{
			StatusCode: 400,
			Err:        fmt.Errorf("PDF '%s' has %d pages. The limit is %d pages.", filename, doc.NumPage(), s.MaxPages),
		}
	}

	dpi := shared.PDFRenderBaseDPI * s.PDFImageRes
	pages := make([][]byte, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			p.Log.Errorw("failed to render pdf page", "file", filename, "page", i+1, "error", err)
			return nil, &shared.RequestError{
				StatusCode: 400,
				Err:        fmt.Errorf("Failed to process PDF file '%s'.", filename),
			}
		}
		encoded, err := encodePNG(img)
		if err != nil {
			return nil, err
		}
		pages = append(pages, encoded)
	}
	return pages, nil
}

// normalizeImage decodes any supported image format and re-encodes it as
// PNG, stripping metadata in the process.
func normalizeImage(data []byte) ([][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &shared.RequestError{
			StatusCode: 400,
			Err:        fmt.Errorf("Invalid or corrupt image file."),
		}
	}
	encoded, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	return [][]byte{encoded}, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
