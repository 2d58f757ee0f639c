package serialize

import (
	"encoding/json"

	"accelir/pkg/accelctx"
	"accelir/pkg/ir"
)

// DumpJSON renders m as deterministic, traversal-ordered JSON (spec
// §4.9: "JSON: a tree matching the type/instruction shapes above;
// BasicBlock is serialized as an array of {id, data} pairs in
// traversal order"). encoding/json is stdlib-only here because the
// wire structs already fix field order and omitempty behavior
// deterministically — nothing in the retrieved pack offers a JSON
// library beyond what the standard encoder already provides for a
// plain struct tree (no streaming, no schema validation needed), so
// reaching past it would add a dependency with no behavior to justify
// it.
func DumpJSON(m *ir.Module) ([]byte, error) {
	return json.Marshal(encodeModule(m))
}

// LoadJSON parses JSON produced by DumpJSON back into a fresh Module
// living in ctx, re-interning all types through ctx.Types.
func LoadJSON(ctx *accelctx.Context, data []byte) (*ir.Module, error) {
	var w wireModule
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return decodeModule(ctx, w), nil
}
