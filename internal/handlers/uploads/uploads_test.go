package uploads

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"aiconsole/internal/attachments"
	"aiconsole/internal/handlers/settings"
	"aiconsole/internal/kv"
	"aiconsole/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProcessor(t *testing.T) (*Processor, *attachments.Store) {
	t.Helper()
	store := attachments.NewStore(zap.NewNop().Sugar())
	mgr := settings.NewManager(kv.NewMemory())
	return NewProcessor(mgr, store, zap.NewNop().Sugar()), store
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessStoresImageAsPNGPage(t *testing.T) {
	p, store := newTestProcessor(t)

	id, err := p.Process(context.Background(), "sess", "photo.png", testPNG(t))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	pages, ok := store.Resolve("sess", id)
	require.True(t, ok)
	require.Len(t, pages, 1)

	// The stored page is a decodable PNG.
	_, err = png.Decode(bytes.NewReader(pages[0]))
	assert.NoError(t, err)
}

func TestProcessRejectsUnknownExtension(t *testing.T) {
	p, _ := newTestProcessor(t)

	_, err := p.Process(context.Background(), "sess", "notes.txt", []byte("hello"))
	var reqErr *shared.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 400, reqErr.StatusCode)
	assert.Contains(t, reqErr.Err.Error(), "'txt' not allowed")
}

func TestProcessRejectsOversizedFile(t *testing.T) {
	p, _ := newTestProcessor(t)

	big := make([]byte, (shared.DefaultMaxUploadMB+1)*shared.MaxUploadBytesFactor)
	_, err := p.Process(context.Background(), "sess", "huge.png", big)
	var reqErr *shared.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 413, reqErr.StatusCode)
	assert.Contains(t, reqErr.Err.Error(), "maximum upload size is 20 MB")
}

func TestProcessRejectsCorruptImage(t *testing.T) {
	p, store := newTestProcessor(t)

	_, err := p.Process(context.Background(), "sess", "photo.jpg", []byte("not an image"))
	var reqErr *shared.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 400, reqErr.StatusCode)
	assert.Equal(t, 0, store.Len())
}

func TestProcessRequiresFilename(t *testing.T) {
	p, _ := newTestProcessor(t)

	_, err := p.Process(context.Background(), "sess", "", testPNG(t))
	assert.ErrorIs(t, err, shared.ErrNoFile)
}
