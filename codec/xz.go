//go:build !noxz

package codec

import (
	"bytes"

	"github.com/ulikunitz/xz"
)

func init() {
	register(XZ{})
}

type XZ struct{}

func (XZ) Name() string { return "xz" }

func (XZ) Decompress(src []byte, limit int) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, corrupt("xz", err)
	}
	return readAll("xz", r, limit)
}
