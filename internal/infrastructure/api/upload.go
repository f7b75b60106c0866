package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

type uploadWire struct {
	URL string `json:"url"`
}

// Upload streams file as the multipart field "file" and returns the
// reference URL from the response.
func (c *Client) Upload(ctx context.Context, file ports.Upload) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	contentType := mw.FormDataContentType()

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Filename))
		h.Set("Content-Type", file.ContentType)
		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, file.Body)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := c.build(ctx, http.MethodPost, "upload", pr, true)
	if err != nil {
		_ = pr.CloseWithError(err)
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return "", err
	}
	var out uploadWire
	if err := unwrapInto(raw, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", domain.ServerError(http.StatusOK, "upload response has no url")
	}
	return out.URL, nil
}
