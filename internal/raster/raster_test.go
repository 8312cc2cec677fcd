package raster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	gotName string
	gotArgs []string
	render  bool
	err     error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.gotName = name
	f.gotArgs = args
	if f.err != nil {
		return nil, []byte("boom"), f.err
	}
	if f.render {
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+"-1.png", []byte("png"), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestFirstPagePNG(t *testing.T) {
	t.Run("renders and cleans up", func(t *testing.T) {
		r := &fakeRunner{render: true}
		p := NewWithRunner(Config{DPI: 150}, r, nil)

		img, cleanup, err := p.FirstPagePNG(context.Background(), "invoice.pdf")

		require.NoError(t, err)
		assert.Equal(t, "pdftoppm", r.gotName)
		assert.Equal(t, []string{"-f", "1", "-l", "1", "-r", "150", "-png", "invoice.pdf"}, r.gotArgs[:len(r.gotArgs)-1])
		assert.FileExists(t, img)

		cleanup()
		assert.NoDirExists(t, filepath.Dir(img))
	})

	t.Run("command failure", func(t *testing.T) {
		r := &fakeRunner{err: errors.New("exit status 1")}
		p := NewWithRunner(Config{}, r, nil)

		_, _, err := p.FirstPagePNG(context.Background(), "invoice.pdf")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "pdftoppm failed")
	})

	t.Run("no pages rendered", func(t *testing.T) {
		r := &fakeRunner{render: false}
		p := NewWithRunner(Config{}, r, nil)

		_, _, err := p.FirstPagePNG(context.Background(), "empty.pdf")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no pages rendered")
	})

	t.Run("defaults applied", func(t *testing.T) {
		r := &fakeRunner{render: true}
		p := NewWithRunner(Config{}, r, nil)

		_, cleanup, err := p.FirstPagePNG(context.Background(), "invoice.pdf")

		require.NoError(t, err)
		defer cleanup()
		assert.Contains(t, r.gotArgs, "200")
	})
}
