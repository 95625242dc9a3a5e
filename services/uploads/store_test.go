package uploads

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var storedName = regexp.MustCompile(`^[0-9a-f]{32}\.(png|jpg|jpeg|gif|webp)$`)

func TestExtension(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"png", "photo.png", "png", false},
		{"uppercase", "PHOTO.JPG", "jpg", false},
		{"jpeg", "a.b.jpeg", "jpeg", false},
		{"webp", "x.WebP", "webp", false},
		{"gif with path", "../../etc/cat.gif", "gif", false},
		{"windows path", `C:\Users\me\pic.png`, "png", false},
		{"pdf", "cv.pdf", "", true},
		{"no extension", "README", "", true},
		{"double extension", "evil.png.exe", "", true},
		{"trailing dot", "image.", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extension(tt.input)
			if tt.wantErr {
				assert.True(t, services.IsValidationError(err))
				assert.Contains(t, err.Error(), "Allowed: png, jpg, jpeg, gif, webp")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImageStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store := NewImageStore(dir, zaptest.NewLogger(t))

	name, err := store.Save(context.Background(), "Me.PNG", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Regexp(t, storedName, name)
	assert.True(t, strings.HasSuffix(name, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestImageStore_SaveGeneratesDistinctNames(t *testing.T) {
	store := NewImageStore(t.TempDir(), zaptest.NewLogger(t))

	a, err := store.Save(context.Background(), "a.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	b, err := store.Save(context.Background(), "a.jpg", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestImageStore_SaveRejectsDisallowedType(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, zaptest.NewLogger(t))

	_, err := store.Save(context.Background(), "shell.php", strings.NewReader("<?php"))
	assert.True(t, services.IsValidationError(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImageStore_EmptyNameMeansNoFile(t *testing.T) {
	store := NewImageStore(t.TempDir(), zaptest.NewLogger(t))

	name, err := store.Save(context.Background(), "", strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestImageStore_CanceledContext(t *testing.T) {
	store := NewImageStore(t.TempDir(), zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, zaptest.NewLogger(t))

	name, err := store.Save(context.Background(), "me.png", strings.NewReader("pixels"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, store.Remove(name))

	for _, bad := range []string{"", ".", "..", "../secret.png", "a/b.png"} {
		assert.Error(t, store.Remove(bad), bad)
	}
}
