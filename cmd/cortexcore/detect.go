package main

import "github.com/cortexcore/cortexcore/internal/project"

// detectOrUseCwd walks upward from cwd looking for a project marker,
// falling back to cwd itself when none is found (e.g. indexing a bare
// directory with no .git or manifest).
func detectOrUseCwd(cwd string) string {
	root, err := project.Detect(cwd)
	if err != nil {
		return cwd
	}
	return root
}
