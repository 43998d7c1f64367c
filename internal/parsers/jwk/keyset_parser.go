// Package jwk extracts ClearKey key/key ID pairs from a JWK-style license response:
//
//	{"keys":[{"kty":"oct","alg":"A128KW","k":"<b64>","kid":"<b64>"}],"type":"temporary"}
package jwk

import (
	"fmt"

	"github.com/deploymenttheory/go-clearkey/internal/interfaces"
	"github.com/deploymenttheory/go-clearkey/internal/parsers/base64web"
	"github.com/deploymenttheory/go-clearkey/internal/parsers/jsonscan"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// ParseKeySet parses a license response and returns every usable key it carries.
//
// Members may appear in any order and unknown members are skipped. A "type" other
// than "temporary" fails the parse, as does any structural error. Key objects with
// the wrong kty or alg, missing members, or undecodable values are dropped without
// failing the parse.
func ParseKeySet(data []byte, log interfaces.Logger) ([]types.KeyIDPair, error) {
	log = interfaces.OrNop(log)
	c := jsonscan.NewCursor(data, log)

	if err := c.ExpectSymbol('{'); err != nil {
		return nil, err
	}

	keys := []types.KeyIDPair{}
	if c.PeekSymbol() == '}' {
		c.NextSymbol()
		return keys, nil
	}

	for {
		label, err := c.ReadLabel()
		if err != nil {
			return nil, err
		}
		if err := c.ExpectSymbol(':'); err != nil {
			return nil, err
		}

		switch label {
		case types.JwkMemberKeys:
			if keys, err = parseKeys(c, log, keys); err != nil {
				log.Logf("failed to parse keys array: %v", err)
				return nil, err
			}
		case types.JwkMemberType:
			sessionType, err := c.ReadLabel()
			if err != nil {
				return nil, err
			}
			if types.SessionType(sessionType) != types.SessionTypeTemporary {
				return nil, fmt.Errorf("%w: unsupported session type %q", types.ErrInvalid, sessionType)
			}
		default:
			if err := c.SkipToken(); err != nil {
				return nil, err
			}
		}

		if c.PeekSymbol() == '}' {
			break
		}
		if err := c.ExpectSymbol(','); err != nil {
			return nil, err
		}
	}

	if err := c.ExpectSymbol('}'); err != nil {
		return nil, err
	}

	return keys, nil
}

// parseKeys consumes the "keys" array, appending every valid key object to keys.
func parseKeys(c *jsonscan.Cursor, log interfaces.Logger, keys []types.KeyIDPair) ([]types.KeyIDPair, error) {
	if err := c.ExpectSymbol('['); err != nil {
		return keys, err
	}

	if c.PeekSymbol() == ']' {
		c.NextSymbol()
		return keys, nil
	}

	for {
		pair, valid, err := parseKeyObject(c, log)
		if err != nil {
			return keys, err
		}
		if valid {
			keys = append(keys, pair)
		}

		sym := c.PeekSymbol()
		if sym == jsonscan.EOF || sym == ']' {
			break
		}
		if err := c.ExpectSymbol(','); err != nil {
			return keys, err
		}
	}

	return keys, c.ExpectSymbol(']')
}

// keyObject collects the members of one key object that matter for validation.
type keyObject struct {
	kty string
	alg string
	k   string
	kid string
}

// parseKeyObject consumes one key object. valid reports whether it produced a usable pair;
// err is set only for structural problems.
func parseKeyObject(c *jsonscan.Cursor, log interfaces.Logger) (pair types.KeyIDPair, valid bool, err error) {
	if err = c.ExpectSymbol('{'); err != nil {
		return pair, false, err
	}

	if c.PeekSymbol() == '}' {
		c.NextSymbol()
		return pair, false, nil
	}

	var obj keyObject
	for {
		label, err := c.ReadLabel()
		if err != nil {
			return pair, false, err
		}
		if err := c.ExpectSymbol(':'); err != nil {
			return pair, false, err
		}

		switch {
		case label == types.JwkMemberKty:
			obj.kty, err = c.ReadLabel()
		case label == types.JwkMemberAlg:
			obj.alg, err = c.ReadLabel()
		case label == types.JwkMemberKey && c.PeekSymbol() == '"':
			obj.k, err = c.ReadLabel()
		case label == types.JwkMemberKeyID && c.PeekSymbol() == '"':
			obj.kid, err = c.ReadLabel()
		default:
			err = c.SkipToken()
		}
		if err != nil {
			return pair, false, err
		}

		sym := c.PeekSymbol()
		if sym == jsonscan.EOF || sym == '}' {
			break
		}
		if err := c.ExpectSymbol(','); err != nil {
			return pair, false, err
		}
	}

	if err := c.ExpectSymbol('}'); err != nil {
		return pair, false, err
	}

	pair, verr := obj.resolve()
	if verr != nil {
		log.Logf("dropping key object: %v", verr)
		return types.KeyIDPair{}, false, nil
	}
	return pair, true, nil
}

// resolve validates the collected members and decodes the key and key ID.
func (o keyObject) resolve() (types.KeyIDPair, error) {
	var pair types.KeyIDPair

	if o.kty != types.JwkKeyTypeOct {
		return pair, fmt.Errorf("%w: kty %q", types.ErrInvalid, o.kty)
	}
	if o.alg != types.JwkAlgA128KW {
		return pair, fmt.Errorf("%w: alg %q", types.ErrInvalid, o.alg)
	}
	if o.k == "" || o.kid == "" {
		return pair, fmt.Errorf("%w: missing k or kid", types.ErrInvalid)
	}

	kid, err := base64web.Decode(o.kid)
	if err != nil {
		return pair, fmt.Errorf("kid: %w", err)
	}
	key, err := base64web.DecodeKey(o.k)
	if err != nil {
		return pair, fmt.Errorf("k: %w", err)
	}

	pair.KeyID = kid
	pair.Key = key
	return pair, nil
}
