// Package parser converts shell command lines into Intent structs.
// No grammar beyond aliases and positional arguments.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/saveutils/types"
)

var verbAliases = map[string]string{
	"m":         "money",
	"cash":      "money",
	"hp":        "health",
	"res":       "residence",
	"home":      "residence",
	"size":      "sizeanalysis",
	"sa":        "sizeanalysis",
	"show":      "get",
	"ls":        "keys",
	"summary":   "stats",
	"info":      "stats",
	"residency": "residence",
}

var actionAliases = map[string]string{
	"p":    "print",
	"show": "print",
	"=":    "set",
	"+":    "add",
	"-":    "remove",
	"sub":  "remove",
	"ls":   "list",
}

// statVerbs take an action and a numeric amount.
var statVerbs = map[string]bool{
	"money":  true,
	"health": true,
}

// Parse converts a raw command line into an Intent. The verb and action are
// case-insensitive; remaining arguments keep their case since save keys do
// not fold.
func Parse(input string) types.Intent {
	words := strings.Fields(input)
	if len(words) == 0 {
		return types.Intent{}
	}

	words = expandMultiWordVerbs(words)

	verb := strings.ToLower(words[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	rest := words[1:]

	switch verb {
	case "get":
		// get <key>
		return types.Intent{Verb: verb, Object: strings.Join(rest, " ")}
	case "sizeanalysis":
		// sizeanalysis [cutoff]
		return types.Intent{Verb: verb, Target: arg(rest, 0)}
	}

	if len(rest) == 0 {
		return types.Intent{Verb: verb}
	}

	action := strings.ToLower(rest[0])
	if alias, ok := actionAliases[action]; ok {
		action = alias
	}
	// "money 500" is shorthand for "money set 500".
	if statVerbs[verb] && isNumber(rest[0]) {
		return types.Intent{Verb: verb, Object: "set", Target: rest[0]}
	}
	// "residence 600" is shorthand for "residence set 600".
	if verb == "residence" && isNumber(rest[0]) {
		return types.Intent{Verb: verb, Object: "set", Target: rest[0], Extra: arg(rest, 1)}
	}

	return types.Intent{
		Verb:   verb,
		Object: action,
		Target: arg(rest, 1),
		Extra:  strings.Join(tail(rest, 2), " "),
	}
}

// expandMultiWordVerbs handles "size analysis", "list keys" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	first, second := strings.ToLower(words[0]), strings.ToLower(words[1])
	switch first {
	case "size":
		if second == "analysis" {
			return append([]string{"sizeanalysis"}, words[2:]...)
		}
	case "list", "show":
		if second == "keys" {
			return append([]string{"keys"}, words[2:]...)
		}
		if second == "residences" || second == "apartments" {
			return append([]string{"residence", "list"}, words[2:]...)
		}
	case "change", "move":
		if second == "residence" || second == "to" {
			return append([]string{"residence", "set"}, words[2:]...)
		}
	}

	return words
}

func arg(words []string, i int) string {
	if i < len(words) {
		return words[i]
	}
	return ""
}

func tail(words []string, from int) []string {
	if from < len(words) {
		return words[from:]
	}
	return nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
