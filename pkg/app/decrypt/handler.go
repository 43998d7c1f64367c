package decrypt

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/deploymenttheory/go-clearkey/internal/crypto"
	"github.com/deploymenttheory/go-clearkey/internal/services"
	"github.com/deploymenttheory/go-clearkey/internal/types"
	"github.com/deploymenttheory/go-clearkey/pkg/app"
)

// Handle decrypts the input file into the output file
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return nil, app.NewError(app.ErrCodeIO, "failed to read input", err)
	}
	if len(data)%types.BlockSize != 0 {
		return nil, app.NewError(app.ErrCodeInvalidInput,
			fmt.Sprintf("input is %d bytes, not a multiple of %d", len(data), types.BlockSize), nil)
	}

	iv := req.iv
	response := &Response{
		OutputPath: req.OutputPath,
		Bytes:      len(data),
		Blocks:     len(data) / types.BlockSize,
	}

	if req.KeyHex != "" {
		defer clear(req.key)
		if err := crypto.DecryptAES(req.key, data, iv); err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "failed to decrypt", err)
		}
	} else {
		kid, err := decryptWithLicense(ctx, req, data, iv)
		if err != nil {
			return nil, err
		}
		response.KeyID = kid.String()
	}

	if err := os.WriteFile(req.OutputPath, data, 0o644); err != nil {
		return nil, app.NewError(app.ErrCodeIO, "failed to write output", err)
	}

	response.NextIV = hex.EncodeToString(iv)
	response.Elapsed = time.Since(startTime)
	ctx.Log(fmt.Sprintf("Decrypted %d blocks into %s", response.Blocks, req.OutputPath))
	return response, nil
}

// decryptWithLicense loads the license response into a session and decrypts with the key for KeyIDHex
func decryptWithLicense(ctx *app.Context, req *Request, data, iv []byte) (types.KeyID, error) {
	kid := req.keyID

	license, err := os.ReadFile(req.ResponsePath)
	if err != nil {
		return kid, app.NewError(app.ErrCodeIO, "failed to read license response", err)
	}

	session, err := services.NewSession(types.SessionTypeTemporary, services.NewKeyStore(req.KeyTTL), services.WithLogger(ctx))
	if err != nil {
		return kid, err
	}
	defer session.Close()

	if _, err := session.Update(license); err != nil {
		return kid, app.NewError(app.ErrCodeParseFailed, "failed to parse license response", err)
	}

	if err := session.Decrypt(kid, data, iv); err != nil {
		if types.IsKeyNotFound(err) {
			return kid, app.NewError(app.ErrCodeKeyNotFound, "license response has no key for "+kid.String(), err)
		}
		return kid, app.NewError(app.ErrCodeInvalidInput, "failed to decrypt", err)
	}
	return kid, nil
}
