// Package request serializes key IDs into a ClearKey license request.
package request

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-clearkey/internal/parsers/base64web"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// BuildKeyRequest returns the license request for ids:
//
//	{"kids":["<base64url>",...],"type":"temporary"}
//
// Only temporary sessions are requested. An empty ids slice is a caller error and
// fails with types.ErrPrecondition.
func BuildKeyRequest(ids []types.KeyID) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: key request needs at least one key ID", types.ErrPrecondition)
	}

	var b strings.Builder
	b.Grow(len(`{"kids":[],"type":"temporary"}`) + len(ids)*(base64web.EncodedLen(types.KeyLen)+3))

	b.WriteString(`{"` + types.RequestMemberID + `":[`)
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(base64web.Encode(id[:]))
		b.WriteByte('"')
	}
	b.WriteString(`],"` + types.JwkMemberType + `":"` + string(types.SessionTypeTemporary) + `"}`)

	return b.String(), nil
}
