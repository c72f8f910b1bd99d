// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/hochfrequenz/ahbicht-go/internal/validate"
	"github.com/hochfrequenz/ahbicht-go/keys"
	"github.com/hochfrequenz/ahbicht-go/parser"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(`Usage: ahbicht-cli "<ahb expression>"`)
		os.Exit(1)
	}

	expression := strings.Join(os.Args[1:], " ")

	tree, err := parser.ParseAhb(expression)
	if err != nil {
		reportParseError(expression, err)
		os.Exit(1)
	}

	fmt.Println("Parsed expression:")
	fmt.Println(tree.String())

	extract, err := keys.ExtractFromAhb(tree)
	if err != nil {
		color.Red("Key classification failed: %s", err)
		os.Exit(1)
	}
	printKeys(extract)

	packageResolver, _ := providers.NewDictPackageResolver(nil)
	result, err := validate.Expression(context.Background(), expression, validate.Options{PackageResolver: packageResolver})
	if err != nil {
		color.Red("Validity check failed: %s", err)
		os.Exit(1)
	}
	if result.Valid {
		color.Green("✅ Expression is valid")
	} else {
		color.Yellow("⚠ Expression is invalid: %s", result.ErrorMessage)
	}
}

func printKeys(extract *keys.CategorizedKeyExtract) {
	fmt.Printf("Requirement constraints: %s\n", strings.Join(extract.RcKeys, ", "))
	fmt.Printf("Hints:                   %s\n", strings.Join(extract.HintKeys, ", "))
	fmt.Printf("Format constraints:      %s\n", strings.Join(extract.FcKeys, ", "))
	fmt.Printf("Packages:                %s\n", strings.Join(extract.PackageKeys, ", "))
	fmt.Printf("Time conditions:         %s\n", strings.Join(extract.TimeConditionKeys, ", "))
}

// reportParseError prints a friendly caret-style parse error message,
// pointing at the exact column ParseAhb's *parser.SyntaxError reports.
func reportParseError(src string, err error) {
	syntaxErr, ok := err.(*parser.SyntaxError)
	if !ok {
		color.Red("❌ Unexpected error: %s", err)
		return
	}

	if syntaxErr.Pos.Column <= 0 || syntaxErr.Pos.Column > len(src)+1 {
		color.Red("❌ Syntax error: %s", syntaxErr.Message)
		return
	}

	caret := strings.Repeat(" ", syntaxErr.Pos.Column-1) + "^"

	color.Red("❌ Syntax error at column %d:", syntaxErr.Pos.Column)
	fmt.Println(src)
	color.HiRed(caret)
	fmt.Printf("→ %s\n", syntaxErr.Message)
}
