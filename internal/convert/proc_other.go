//go:build !unix

package convert

import "os/exec"

// Without process groups the default Cancel kills only the direct child.
func configureProcessGroup(*exec.Cmd) {}
