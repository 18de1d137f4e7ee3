// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/rolfedh/adt-core/internal/workflow"
)

// migrationPatches maps "document is at this version" to the RFC 6902 patch
// that brings it to version+1. Each patch only ever adds a key that
// genuinely does not exist yet at that version, so re-running it is
// equivalent to a plain insert.
var migrationPatches = map[int]string{
	0: `[{"op":"add","path":"/metadata","value":{"version":1}}]`,
	1: `[{"op":"add","path":"/directory_config","value":null},{"op":"add","path":"/files_discovered","value":[]}]`,
}

type versionProbe struct {
	Metadata struct {
		Version int `json:"version"`
	} `json:"metadata"`
}

// migrate brings a raw JSON document up to workflow.SchemaVersion, filling
// in fields that did not exist in older snapshots so they remain loadable.
// encoding/json already zero-fills struct fields absent from the document
// (empty slices, zero retry_count); migrate handles only the top-level keys
// that genuinely did not exist in earlier schema versions.
func migrate(raw []byte) ([]byte, error) {
	var probe versionProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("probing schema version: %w", err)
	}

	version := probe.Metadata.Version
	if version > workflow.SchemaVersion {
		return nil, fmt.Errorf("%w: document version %d, supported %d", ErrNewerSchema, version, workflow.SchemaVersion)
	}

	current := raw
	for v := version; v < workflow.SchemaVersion; v++ {
		patchDoc, ok := migrationPatches[v]
		if !ok {
			continue
		}
		patch, err := jsonpatch.DecodePatch([]byte(patchDoc))
		if err != nil {
			return nil, fmt.Errorf("decoding migration patch for schema v%d: %w", v, err)
		}
		current, err = patch.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying migration patch for schema v%d: %w", v, err)
		}
	}

	bump, err := jsonpatch.MergePatch(current, []byte(fmt.Sprintf(`{"metadata":{"version":%d}}`, workflow.SchemaVersion)))
	if err != nil {
		return nil, fmt.Errorf("bumping schema version: %w", err)
	}
	return bump, nil
}
