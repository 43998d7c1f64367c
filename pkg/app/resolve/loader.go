package resolve

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/deploymenttheory/go-clearkey/internal/parsers/pssh"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// LoadInitData reads init data from path in the given format
func LoadInitData(path string, format InitDataFormat) ([]byte, error) {
	if format == FormatMP4 {
		return loadMP4(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read init data: %w", err)
	}

	if format == "" || format == FormatAuto {
		format = detectFormat(data)
		if format == FormatMP4 {
			return pssh.ExtractFromMP4(bytes.NewReader(data))
		}
	}

	return DecodeInitData(data, format)
}

// DecodeInitData converts init data text or bytes in the given format to raw boxes
func DecodeInitData(data []byte, format InitDataFormat) ([]byte, error) {
	switch format {
	case FormatRaw:
		return data, nil
	case FormatHex:
		b, err := hex.DecodeString(stripSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("invalid hex init data: %w", err)
		}
		return b, nil
	case FormatBase64:
		b, err := base64.StdEncoding.DecodeString(stripSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 init data: %w", err)
		}
		return b, nil
	case FormatMP4:
		return pssh.ExtractFromMP4(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported init data format %q", format)
	}
}

func loadMP4(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mp4: %w", err)
	}
	defer f.Close()

	return pssh.ExtractFromMP4(f)
}

// detectFormat guesses the encoding of init data read from a file
func detectFormat(data []byte) InitDataFormat {
	if len(data) >= 8 {
		switch string(data[4:8]) {
		case types.PsshBoxType:
			return FormatRaw
		case "ftyp", "moov", "styp":
			return FormatMP4
		}
	}

	text := stripSpace(string(data))
	if text == "" {
		return FormatRaw
	}
	if _, err := hex.DecodeString(text); err == nil {
		return FormatHex
	}
	if _, err := base64.StdEncoding.DecodeString(text); err == nil {
		return FormatBase64
	}
	return FormatRaw
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
