package serialize

import (
	"github.com/vmihailenco/msgpack/v5"

	"accelir/pkg/accelctx"
	"accelir/pkg/ir"
)

// DumpBinary renders m as a compact self-describing binary blob (spec
// §4.9: "Binary: a compact, self-describing encoding (msgpack or
// similar) sufficient for a structural round-trip"). Grounded on the
// msgpack dependency already required by the rest of the retrieved
// pack (github.com/vmihailenco/msgpack/v5) rather than a hand-rolled
// codec.
func DumpBinary(m *ir.Module) ([]byte, error) {
	return msgpack.Marshal(encodeModule(m))
}

// LoadBinary parses a blob produced by DumpBinary back into a fresh
// Module living in ctx (spec §8 scenario 7: "Binary round-trip... a
// structural-equality test, not a byte-for-byte one").
func LoadBinary(ctx *accelctx.Context, data []byte) (*ir.Module, error) {
	var w wireModule
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return decodeModule(ctx, w), nil
}
