package resolve

import (
	"fmt"
	"net/url"

	"github.com/deploymenttheory/go-clearkey/pkg/app"
)

// Validate checks the request for consistency
func (r *Request) Validate() error {
	if r.InitDataPath == "" && r.ResponsePath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "init data or license response path is required", nil)
	}

	if r.ResponsePath != "" && r.LicenseURL != "" {
		return app.NewError(app.ErrCodeInvalidInput, "cannot use both a license response file and a license server", nil)
	}

	if r.LicenseURL != "" {
		if r.InitDataPath == "" {
			return app.NewError(app.ErrCodeInvalidInput, "a license server request needs init data", nil)
		}
		u, err := url.Parse(r.LicenseURL)
		if err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid license URL", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unsupported license URL scheme %q", u.Scheme), nil)
		}
	}

	switch r.InitDataFormat {
	case "", FormatAuto, FormatRaw, FormatHex, FormatBase64, FormatMP4:
	default:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unsupported init data format %q", r.InitDataFormat), nil)
	}

	if r.Timeout < 0 {
		return app.NewError(app.ErrCodeInvalidInput, "timeout must not be negative", nil)
	}

	return nil
}
