package decrypt

import (
	"encoding/hex"
	"fmt"

	"github.com/deploymenttheory/go-clearkey/internal/types"
	"github.com/deploymenttheory/go-clearkey/pkg/app"
)

// Validate checks the request for consistency and decodes its hex fields
func (r *Request) Validate() error {
	if r.InputPath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "input path is required", nil)
	}
	if r.OutputPath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "output path is required", nil)
	}

	switch {
	case r.KeyHex != "" && r.ResponsePath != "":
		return app.NewError(app.ErrCodeInvalidInput, "cannot use both a key and a license response", nil)
	case r.KeyHex != "":
		key, err := decodeHex16(r.KeyHex, "key")
		if err != nil {
			return err
		}
		r.key = key
	case r.ResponsePath != "":
		kid, err := decodeHex16(r.KeyIDHex, "kid")
		if err != nil {
			return err
		}
		copy(r.keyID[:], kid)
	default:
		return app.NewError(app.ErrCodeInvalidInput, "a key or a license response is required", nil)
	}

	iv, err := decodeHex16(r.IVHex, "iv")
	if err != nil {
		return err
	}
	r.iv = iv
	return nil
}

// decodeHex16 decodes a 32 digit hex string
func decodeHex16(s, name string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("invalid %s hex", name), err)
	}
	if len(b) != types.KeyLen {
		return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("%s must be %d bytes, got %d", name, types.KeyLen, len(b)), nil)
	}
	return b, nil
}
