package resolve

import (
	"encoding/hex"
	"time"

	"github.com/deploymenttheory/go-clearkey/internal/parsers/base64web"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// InitDataFormat names how init data is stored on disk
type InitDataFormat string

const (
	FormatAuto   InitDataFormat = "auto"
	FormatRaw    InitDataFormat = "raw"
	FormatHex    InitDataFormat = "hex"
	FormatBase64 InitDataFormat = "base64"
	FormatMP4    InitDataFormat = "mp4"
)

// Request represents a key resolution request
type Request struct {
	// Init data source
	InitDataPath   string
	InitDataFormat InitDataFormat

	// License source: a saved response or a license server
	ResponsePath string
	LicenseURL   string
	Timeout      time.Duration
	UserAgent    string

	// Print content keys instead of masking them
	ShowKeys bool
}

// Response represents the outcome of key resolution
type Response struct {
	KeyIDs         []KeyIDResult `json:"key_ids,omitempty" yaml:"key_ids,omitempty"`
	LicenseRequest string        `json:"license_request,omitempty" yaml:"license_request,omitempty"`
	LicenseSource  string        `json:"license_source,omitempty" yaml:"license_source,omitempty"`
	Keys           []KeyResult   `json:"keys,omitempty" yaml:"keys,omitempty"`
	Warnings       []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Elapsed        time.Duration `json:"elapsed" yaml:"elapsed"`
}

// KeyIDResult is one key ID extracted from init data
type KeyIDResult struct {
	UUID   string `json:"uuid" yaml:"uuid"`
	Hex    string `json:"hex" yaml:"hex"`
	Base64 string `json:"base64" yaml:"base64"`
}

// KeyResult is one key resolved from a license response
type KeyResult struct {
	KeyID       string `json:"kid" yaml:"kid"`
	KeyIDBase64 string `json:"kid_base64" yaml:"kid_base64"`
	Key         string `json:"key" yaml:"key"`
	Requested   bool   `json:"requested" yaml:"requested"`
}

const maskedKey = "********************************"

// newKeyIDResult renders a key ID in every supported notation
func newKeyIDResult(id types.KeyID) KeyIDResult {
	return KeyIDResult{
		UUID:   id.String(),
		Hex:    id.Hex(),
		Base64: base64web.Encode(id[:]),
	}
}

// newKeyResult renders a resolved key, masking the key unless showKey is set
func newKeyResult(pair types.KeyIDPair, showKey bool, requested bool) KeyResult {
	r := KeyResult{
		KeyIDBase64: base64web.Encode(pair.KeyID),
		Key:         maskedKey,
		Requested:   requested,
	}
	if id, ok := pair.ID(); ok {
		r.KeyID = id.String()
	} else {
		r.KeyID = hex.EncodeToString(pair.KeyID)
	}
	if showKey {
		r.Key = pair.Key.Hex()
	}
	return r
}
