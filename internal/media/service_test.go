package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuwa-dev/kasuwa-backend/internal/catalog"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/config"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
)

// stubCatalog records AttachImage calls without touching a database.
type stubCatalog struct {
	catalog.Service
	attached []catalog.ImageInput
	fail     error
}

func (s *stubCatalog) AttachImage(_ context.Context, productID uuid.UUID, input catalog.ImageInput) (*models.ProductImage, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.attached = append(s.attached, input)
	return &models.ProductImage{
		ID:        uuid.New(),
		ProductID: productID,
		URL:       input.URL,
		AltText:   input.AltText,
		IsMain:    input.IsMain,
		Position:  input.Position,
	}, nil
}

func newMediaFixture(t *testing.T) (Service, *stubCatalog, string) {
	t.Helper()
	dir := t.TempDir()
	stub := &stubCatalog{}
	svc, err := NewService(stub, config.MediaConfig{Dir: dir, MaxUploadMB: 1})
	require.NoError(t, err)
	return svc, stub, dir
}

func TestSaveProductImageWritesFileAndAttaches(t *testing.T) {
	svc, stub, dir := newMediaFixture(t)

	image, err := svc.SaveProductImage(context.Background(), uuid.New(), Upload{
		Filename: "rice.jpg",
		Size:     9,
		Content:  strings.NewReader("fake bytes"),
		IsMain:   true,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(image.URL, "/media/"))
	assert.True(t, strings.HasSuffix(image.URL, ".jpg"))
	assert.True(t, image.IsMain)

	stored := filepath.Join(dir, strings.TrimPrefix(image.URL, "/media/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "fake bytes", string(data))
	require.Len(t, stub.attached, 1)
}

func TestSaveProductImageRejectsUnknownExtension(t *testing.T) {
	svc, _, dir := newMediaFixture(t)

	_, err := svc.SaveProductImage(context.Background(), uuid.New(), Upload{
		Filename: "malware.exe",
		Content:  strings.NewReader("nope"),
	})
	assertMediaErrCode(t, err, pkgerrors.CodeValidation)
	assertDirEmpty(t, dir)
}

func TestSaveProductImageEnforcesSizeLimit(t *testing.T) {
	svc, _, dir := newMediaFixture(t)

	oversized := strings.NewReader(strings.Repeat("x", 2<<20))
	_, err := svc.SaveProductImage(context.Background(), uuid.New(), Upload{
		Filename: "big.png",
		Content:  oversized,
	})
	assertMediaErrCode(t, err, pkgerrors.CodeValidation)
	assertDirEmpty(t, dir)
}

func TestSaveProductImageCleansUpWhenAttachFails(t *testing.T) {
	dir := t.TempDir()
	stub := &stubCatalog{fail: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	svc, err := NewService(stub, config.MediaConfig{Dir: dir, MaxUploadMB: 1})
	require.NoError(t, err)

	_, err = svc.SaveProductImage(context.Background(), uuid.New(), Upload{
		Filename: "rice.jpg",
		Content:  strings.NewReader("fake bytes"),
	})
	assertMediaErrCode(t, err, pkgerrors.CodeNotFound)
	assertDirEmpty(t, dir)
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func assertMediaErrCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
