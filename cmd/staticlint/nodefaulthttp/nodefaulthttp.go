// Package nodefaulthttp reports use of the net/http package-level client
// (http.Get, http.Post, http.DefaultClient and friends) outside tests.
// Calls between services go through configured clients with a timeout; the
// default client has none.
package nodefaulthttp

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "nodefaulthttp",
	Doc:  "prohibits the net/http default client outside tests",
	Run:  run,
}

var defaultClientUses = map[string]bool{
	"Get":           true,
	"Head":          true,
	"Post":          true,
	"PostForm":      true,
	"DefaultClient": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.File(file.Pos()).Name(), "_test.go") {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok || !defaultClientUses[sel.Sel.Name] {
				return true
			}

			obj := pass.TypesInfo.Uses[sel.Sel]
			if obj == nil || obj.Pkg() == nil || obj.Pkg().Path() != "net/http" {
				return true
			}
			// methods and fields are not in the package scope
			if obj.Parent() != obj.Pkg().Scope() {
				return true
			}

			pass.Reportf(sel.Pos(), "use a client with an explicit timeout instead of http.%s", sel.Sel.Name)
			return true
		})
	}

	return nil, nil
}
