package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Program is an external executable a conversion stage shells out to.
type Program struct {
	Name    string
	Command string
	// Purpose is shown by the deps command when the program resolves.
	Purpose  string
	Optional bool
}

// Lookup is the outcome of resolving one Program.
type Lookup struct {
	Program
	// Path is the absolute executable path; empty when the program is missing.
	Path   string
	Detail string
}

// Found reports whether the program resolved to an executable.
func (l Lookup) Found() bool {
	return l.Path != ""
}

// Resolve looks up every program. A command containing a path separator is
// checked in place; anything else is searched on PATH.
func Resolve(programs []Program) []Lookup {
	results := make([]Lookup, 0, len(programs))
	for _, p := range programs {
		p.Command = strings.TrimSpace(p.Command)
		p.Purpose = strings.TrimSpace(p.Purpose)
		results = append(results, resolve(p))
	}
	return results
}

func resolve(p Program) Lookup {
	l := Lookup{Program: p}
	if p.Command == "" {
		l.Detail = "command not configured"
		return l
	}
	if strings.ContainsRune(p.Command, filepath.Separator) {
		info, err := os.Stat(p.Command)
		switch {
		case err != nil:
			l.Detail = fmt.Sprintf("%s does not exist", p.Command)
		case info.IsDir() || info.Mode().Perm()&0o111 == 0:
			l.Detail = fmt.Sprintf("%s is not executable", p.Command)
		default:
			l.Path, _ = filepath.Abs(p.Command)
		}
		return l
	}
	path, err := exec.LookPath(p.Command)
	if err != nil {
		l.Detail = fmt.Sprintf("%q not found on PATH", p.Command)
		return l
	}
	l.Path, _ = filepath.Abs(path)
	return l
}

// MissingRequired returns the lookups for non-optional programs that did not
// resolve.
func MissingRequired(lookups []Lookup) []Lookup {
	var missing []Lookup
	for _, l := range lookups {
		if !l.Found() && !l.Optional {
			missing = append(missing, l)
		}
	}
	return missing
}
