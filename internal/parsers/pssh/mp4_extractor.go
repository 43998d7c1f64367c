package pssh

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// ExtractFromMP4 walks the top-level boxes of an MP4 or CMAF init segment and returns
// the pssh boxes of its moov serialized back to back, the layout ParseInitData expects.
//
// Only the box tree is decoded; the track layout is never interpreted, so a moov
// without tracks is accepted. Undecodable input fails with types.ErrMalformed.
func ExtractFromMP4(r io.Reader) (initData []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			initData = nil
			err = fmt.Errorf("%w: failed to decode mp4: %v", types.ErrMalformed, p)
		}
	}()

	moov, err := findMoov(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, box := range moov.Psshs {
		if err := box.Encode(&buf); err != nil {
			return nil, fmt.Errorf("failed to encode pssh box: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// findMoov decodes top-level boxes until it reaches the moov box.
func findMoov(r io.Reader) (*mp4.MoovBox, error) {
	var pos uint64
	for {
		box, err := mp4.DecodeBox(pos, r)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no moov box found", types.ErrMalformed)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode mp4 box at offset %d: %v", types.ErrMalformed, pos, err)
		}

		if moov, ok := box.(*mp4.MoovBox); ok {
			return moov, nil
		}
		pos += box.Size()
	}
}
