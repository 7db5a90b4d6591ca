package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys from document hashes and output options.
type Keyer interface {
	// LayoutKey identifies a document relaid out at a container size.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// RenderKey identifies a rendered preview of a document.
	RenderKey(docHash string, opts RenderKeyOpts) string

	// TreeKey identifies a tree diagram of a document's structure.
	TreeKey(docHash string, opts TreeKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a relaid-out document.
type LayoutKeyOpts struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// RenderKeyOpts are the inputs that change a rendered preview.
type RenderKeyOpts struct {
	Format   string  `json:"f"`
	Width    float64 `json:"w"`
	Height   float64 `json:"h"`
	Selected string  `json:"s,omitempty"`
	Color    bool    `json:"c,omitempty"`
}

// TreeKeyOpts are the inputs that change a tree diagram.
type TreeKeyOpts struct {
	Format   string `json:"f"`
	Detailed bool   `json:"d,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:" followed by a hash of the
// document hash and options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return "layout:" + hashKey(docHash, opts)
}

func (DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return "render:" + hashKey(docHash, opts)
}

func (DefaultKeyer) TreeKey(docHash string, opts TreeKeyOpts) string {
	return "tree:" + hashKey(docHash, opts)
}

// ScopedKeyer prefixes every key produced by an inner keyer, so several
// tenants can share one backend.
type ScopedKeyer struct {
	Scope string
	Inner Keyer
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(scope string, inner Keyer) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Scope: scope, Inner: inner}
}

func (k ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.scoped(k.Inner.LayoutKey(docHash, opts))
}

func (k ScopedKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return k.scoped(k.Inner.RenderKey(docHash, opts))
}

func (k ScopedKeyer) TreeKey(docHash string, opts TreeKeyOpts) string {
	return k.scoped(k.Inner.TreeKey(docHash, opts))
}

func (k ScopedKeyer) scoped(key string) string {
	if k.Scope == "" {
		return key
	}
	return k.Scope + ":" + key
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hashKey(docHash string, opts any) string {
	raw, _ := json.Marshal(opts)
	return Hash(append([]byte(docHash+"|"), raw...))
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = ScopedKeyer{}
)
