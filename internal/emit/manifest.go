package emit

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"incan/internal/diag"
	"incan/internal/source"
)

// RuntimeVersion pins incan_stdlib and incan_derive together; the emitted
// manifest always requests both at this exact version.
const RuntimeVersion = "0.4.0"

// crateSpec is one entry of the curated native crate registry.
type crateSpec struct {
	Version  string
	Features []string
}

// crateRegistry lists the native crates generated code may depend on.
// Versions are pinned here, never taken from user input.
var crateRegistry = map[string]crateSpec{
	"anyhow":     {Version: "1.0"},
	"axum":       {Version: "0.7"},
	"bytes":      {Version: "1"},
	"chrono":     {Version: "0.4"},
	"clap":       {Version: "4", Features: []string{"derive"}},
	"env_logger": {Version: "0.11"},
	"futures":    {Version: "0.3"},
	"itertools":  {Version: "0.13"},
	"log":        {Version: "0.4"},
	"rand":       {Version: "0.8"},
	"regex":      {Version: "1"},
	"reqwest":    {Version: "0.12", Features: []string{"json"}},
	"serde":      {Version: "1.0", Features: []string{"derive"}},
	"sqlx":       {Version: "0.8", Features: []string{"runtime-tokio"}},
	"thiserror":  {Version: "1.0"},
	"tokio":      {Version: "1", Features: []string{"full"}},
	"uuid":       {Version: "1", Features: []string{"v4"}},
}

// CuratedCrates returns the registry's crate names sorted.
func CuratedCrates() []string {
	out := make([]string, 0, len(crateRegistry))
	for name := range crateRegistry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type manifestPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

type manifestDep struct {
	Version  string   `toml:"version"`
	Features []string `toml:"features,omitempty"`
}

type manifest struct {
	Package      manifestPackage        `toml:"package"`
	Dependencies map[string]manifestDep `toml:"dependencies"`
}

// RenderManifest renders Cargo.toml for a generated crate. crates are the
// extra native dependencies collected during lowering; each must appear in
// the curated registry, anything else is an emission error.
func RenderManifest(name string, crates []string, rep diag.Reporter) (string, bool) {
	deps := map[string]manifestDep{
		"incan_stdlib": {Version: RuntimeVersion},
		"incan_derive": {Version: RuntimeVersion},
	}

	ok := true
	for _, c := range crates {
		spec, known := crateRegistry[c]
		if !known {
			diag.Errorf(rep, diag.EmitUnknownCrate, source.Span{},
				fmt.Sprintf("crate '%s' is not in the curated registry", c)).Emit()
			ok = false
			continue
		}
		deps[c] = manifestDep{Version: spec.Version, Features: spec.Features}
	}
	if !ok {
		return "", false
	}

	m := manifest{
		Package:      manifestPackage{Name: name, Version: "0.1.0", Edition: "2021"},
		Dependencies: deps,
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		diag.Errorf(rep, diag.EmitWriteFailed, source.Span{},
			fmt.Sprintf("cannot render Cargo.toml: %v", err)).Emit()
		return "", false
	}
	return buf.String(), true
}
