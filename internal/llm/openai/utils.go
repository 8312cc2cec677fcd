package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/invoice-validator/constants"
)

// imageForDocument turns a document into a data URL the vision API accepts.
// PDFs are rendered to a first-page PNG first; the rendered file is removed
// as soon as it has been read.
func (c *Client) imageForDocument(ctx context.Context, path string) (string, error) {
	file := path
	if constants.IsPDFExt(filepath.Ext(path)) {
		if c.raster == nil {
			return "", fmt.Errorf("pdf input needs a rasterizer: %s", filepath.Base(path))
		}
		png, cleanup, err := c.raster.FirstPagePNG(ctx, path)
		if err != nil {
			return "", fmt.Errorf("rasterize first page: %w", err)
		}
		defer cleanup()
		file = png
		u, err := readAsDataURL(file)
		if err != nil {
			return "", err
		}
		return u, nil
	}
	return readAsDataURL(file)
}

func readAsDataURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	mt := mime.TypeByExtension("." + ext)
	if mt == "" {
		// fallbacks
		switch ext {
		case "jpg", "jpeg":
			mt = "image/jpeg"
		case "png":
			mt = "image/png"
		default:
			mt = "application/octet-stream"
		}
	}
	data := base64.StdEncoding.EncodeToString(b)
	return "data:" + mt + ";base64," + data, nil
}
