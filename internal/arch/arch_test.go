// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go tool not on PATH")
	}
	cmd := exec.Command("go", "list", "-json", "../../...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	// The core never reaches for the CLI layer; writers and wire types stay
	// below the apps.
	bans := map[string][]string{
		"convscan/core/": {"convscan/internal/", "convscan/cmd/", "convscan/pkg/"},
		"convscan/pkg/":  {"convscan/internal/", "convscan/cmd/", "convscan/core/"},
		"convscan/internal/writers": {
			"convscan/internal/appcore", "convscan/internal/app", "convscan/internal/embedapp",
			"convscan/internal/cli", "convscan/internal/embedcli", "convscan/cmd/",
		},
		"convscan/internal/jsonlutil": {"convscan/"},
		"convscan/internal/clibase": {
			"convscan/internal/appcore", "convscan/internal/app", "convscan/internal/embedapp",
			"convscan/core/", "convscan/cmd/",
		},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "convscan/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) && !strings.HasPrefix(dep, prefix) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
