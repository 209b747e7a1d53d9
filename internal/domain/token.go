// Package domain defines the core entities of the token catalog.
package domain

// RawTokenRecord is a single entry of the upstream token feed.
// It is immutable for the duration of a run; the platforms map is the
// source of truth for which (chain, address) pairs exist.
type RawTokenRecord struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals *int   `json:"decimals,omitempty"`

	// LogoURI points at the upstream logo asset, when the feed has one.
	LogoURI *string `json:"logoURI,omitempty"`

	// Platforms maps a source chain identifier to the token's contract
	// address on that chain, e.g. {"ethereum": "0xA0b8..."}.
	Platforms map[string]string `json:"platforms"`
}

// LogoDescriptor describes the logo entry of a written token file.
// Width and height are fixed-size strings to match the catalog file
// contract exactly.
type LogoDescriptor struct {
	Src    string `json:"src"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// LogoWidth and LogoHeight are the catalog's fixed logo dimensions.
const (
	LogoWidth  = "32"
	LogoHeight = "32"
)

// ResolvedToken is the entity written to durable storage, one file per
// (target chain, canonical address) pair. Field order here defines the
// byte layout of the serialized file; Logo is omitted entirely when no
// logo source is available.
type ResolvedToken struct {
	Symbol    string            `json:"symbol"`
	Name      string            `json:"name"`
	Address   string            `json:"address"`
	Decimals  int               `json:"decimals"`
	Type      string            `json:"type"`
	Logo      *LogoDescriptor   `json:"logo,omitempty"`
	Platforms map[string]string `json:"platforms"`
}

// NewLogo builds the catalog logo descriptor for an upstream source
// URI. Returns nil for an empty source so the logo key is absent from
// the written file.
func NewLogo(src string) *LogoDescriptor {
	if src == "" {
		return nil
	}
	return &LogoDescriptor{
		Src:    src,
		Width:  LogoWidth,
		Height: LogoHeight,
	}
}
