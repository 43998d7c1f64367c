package resolve

import (
	"fmt"
	"os"
	"time"

	"github.com/deploymenttheory/go-clearkey/internal/parsers/jwk"
	"github.com/deploymenttheory/go-clearkey/internal/parsers/pssh"
	"github.com/deploymenttheory/go-clearkey/internal/parsers/request"
	"github.com/deploymenttheory/go-clearkey/internal/services"
	"github.com/deploymenttheory/go-clearkey/internal/types"
	"github.com/deploymenttheory/go-clearkey/pkg/app"
)

// Handle processes a key resolution request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	response := &Response{}
	requested := make(map[types.KeyID]bool)

	// 2. Init data -> key IDs -> license request
	var licenseRequest string
	if req.InitDataPath != "" {
		ctx.Log(fmt.Sprintf("Reading init data from: %s", req.InitDataPath))

		initData, err := LoadInitData(req.InitDataPath, req.InitDataFormat)
		if err != nil {
			return nil, app.NewError(app.ErrCodeIO, "failed to load init data", err)
		}

		ids, err := pssh.ParseInitData(initData, ctx)
		if err != nil {
			if len(ids) == 0 {
				return nil, app.NewError(app.ErrCodeParseFailed, "failed to parse init data", err)
			}
			response.Warnings = append(response.Warnings, fmt.Sprintf("init data parse stopped early: %v", err))
		}

		for _, id := range ids {
			response.KeyIDs = append(response.KeyIDs, newKeyIDResult(id))
			requested[id] = true
		}

		if len(ids) == 0 {
			response.Warnings = append(response.Warnings, "init data carries no ClearKey key IDs")
		} else {
			licenseRequest, err = request.BuildKeyRequest(ids)
			if err != nil {
				return nil, app.NewError(app.ErrCodeParseFailed, "failed to build license request", err)
			}
			response.LicenseRequest = licenseRequest
		}
	}

	// 3. License response from file or server
	var license []byte
	switch {
	case req.ResponsePath != "":
		ctx.Log(fmt.Sprintf("Reading license response from: %s", req.ResponsePath))
		data, err := os.ReadFile(req.ResponsePath)
		if err != nil {
			return nil, app.NewError(app.ErrCodeIO, "failed to read license response", err)
		}
		license = data
		response.LicenseSource = req.ResponsePath

	case req.LicenseURL != "":
		if licenseRequest == "" {
			return nil, app.NewError(app.ErrCodeInvalidInput, "no key IDs to request from the license server", nil)
		}
		data, err := fetchLicense(ctx, req, []byte(licenseRequest))
		if err != nil {
			return nil, app.NewError(app.ErrCodeLicenseFetch, "failed to fetch license", err)
		}
		license = data
		response.LicenseSource = req.LicenseURL
	}

	// 4. License response -> keys
	if license != nil {
		pairs, err := jwk.ParseKeySet(license, ctx)
		if err != nil {
			return nil, app.NewError(app.ErrCodeParseFailed, "failed to parse license response", err)
		}
		for _, pair := range pairs {
			id, ok := pair.ID()
			response.Keys = append(response.Keys, newKeyResult(pair, req.ShowKeys, ok && requested[id]))
		}
		ctx.Log(fmt.Sprintf("License carried %d usable keys", len(pairs)))
	}

	response.Elapsed = time.Since(startTime)
	return response, nil
}

// fetchLicense posts the license request to the configured server
func fetchLicense(ctx *app.Context, req *Request, body []byte) ([]byte, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = ctx.DefaultTimeout
	}

	client, err := services.NewLicenseClient(req.LicenseURL,
		services.WithTimeout(timeout),
		services.WithUserAgent(req.UserAgent),
	)
	if err != nil {
		return nil, err
	}

	tctx, cancel := ctx.WithTimeout(timeout)
	defer cancel()

	ctx.Log(fmt.Sprintf("Requesting license from: %s", client.URL()))
	return client.FetchLicense(tctx, body)
}
