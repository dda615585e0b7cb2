// Package digest computes and verifies RFC 9530 Content-Digest header values.
// The header is an RFC 8941 Dictionary keyed by algorithm with byte-sequence members:
//
//	Content-Digest: sha-256=:X48E9qOokqqrvdts8nOJRJN3OWDUoyWxBf7kbu9DBPE=:
package digest

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"
)

// Header is the response header carrying the digest.
const Header = "Content-Digest"

// AlgorithmSHA256 is the only algorithm produced and checked.
const AlgorithmSHA256 = "sha-256"

// ErrMismatch is returned when the body does not match the advertised digest.
var ErrMismatch = errors.New("content digest mismatch")

// ErrUnsupported is returned when the header names no algorithm we can check.
var ErrUnsupported = errors.New("no supported digest algorithm")

// Compute returns the Content-Digest value for body.
func Compute(body []byte) (string, error) {
	sum := sha256.Sum256(body)

	dict := httpsfv.NewDictionary()
	dict.Add(AlgorithmSHA256, httpsfv.NewItem(sum[:]))

	value, err := httpsfv.Marshal(dict)
	if err != nil {
		return "", fmt.Errorf("marshal content digest: %w", err)
	}
	return value, nil
}

// Verify checks body against a Content-Digest header value.
// Returns ErrUnsupported if no sha-256 member is present and ErrMismatch if it differs.
func Verify(header string, body []byte) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return errors.New("empty Content-Digest header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return fmt.Errorf("invalid Content-Digest header: %w", err)
	}

	member, ok := dict.Get(AlgorithmSHA256)
	if !ok {
		return ErrUnsupported
	}

	item, ok := member.(httpsfv.Item)
	if !ok {
		return errors.New("sha-256 value must be an item")
	}

	want, ok := item.Value.([]byte)
	if !ok {
		return errors.New("sha-256 value must be a byte sequence")
	}

	sum := sha256.Sum256(body)
	if !bytes.Equal(sum[:], want) {
		return ErrMismatch
	}
	return nil
}
