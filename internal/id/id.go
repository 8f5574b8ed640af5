// Package id generates prefixed unique identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Well-known prefixes for the wardrobe entity types.
const (
	PrefixMember   = "mem"
	PrefixItem     = "itm"
	PrefixTag      = "tag"
	PrefixLocation = "loc"
	PrefixTransfer = "xfer"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g. "itm-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly and shorter than UUIDs (21 characters vs 36)
// with comparable collision resistance.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Only appropriate where failure should crash the program, e.g. during
// initialization.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
