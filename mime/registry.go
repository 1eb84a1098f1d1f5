package mime

import (
	"sync"

	"github.com/wesleyorama2/lasso/codec"
)

// registry is the process-wide MIME-to-codec table. Registration is rare
// and resolution is hot, so access follows reader/writer discipline.
var (
	registryMu sync.RWMutex
	registry   = map[string]codec.Codec{}

	// fallback handles every MIME type nobody registered a codec for.
	fallback codec.Codec = codec.Passthrough{}
)

func init() {
	Register(JSON, codec.JSON{})
	Register(XML, codec.XML{})
	Register(Form, codec.Form{})
	Register(CSV, codec.CSV{})
}

// Register installs c as the codec for the given MIME type (short names are
// expanded). Registering a type a second time replaces the table entry;
// codec values previously handed out by Resolve remain valid.
func Register(mimeType string, c codec.Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[ShortToFull(mimeType)] = c
}

// Resolve returns the codec registered for the given MIME type, falling
// back to a passthrough codec. It never fails: absence of a codec is not an
// error.
func Resolve(mimeType string) codec.Codec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if c, ok := registry[ShortToFull(mimeType)]; ok {
		return c
	}
	return fallback
}

// IsRegistered reports whether a codec is registered for the given MIME
// type.
func IsRegistered(mimeType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[ShortToFull(mimeType)]
	return ok
}
