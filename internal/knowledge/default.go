package knowledge

import (
	"bytes"
	_ "embed"
)

//go:embed data/knowledge.yaml
var defaultData []byte

// Default builds a Base from the embedded catalog. The embedded document is
// validated the same way as an external one; an error here means the binary
// shipped with a broken catalog.
func Default() (*Base, error) {
	return Load(bytes.NewReader(defaultData))
}
