// Package args turns command-line tokens into a copy request. It handles
// the natural syntax ("state1 state2 from a.dmi to b.dmi"); the flag
// syntax is parsed by cobra and normalized through Flatten.
package args

import (
	"errors"
	"strings"
)

// Request is a fully parsed invocation: copy the named states out of From
// into To. States keeps command-line order and is not deduplicated.
type Request struct {
	From   string
	To     string
	States []string
}

var (
	ErrNoStatesBeforeFrom = errors.New(`no icon states specified before "from"`)
	ErrToBeforeSource     = errors.New(`source file not specified before "to"`)
	ErrExpectedTo         = errors.New(`expected keyword "to"`)
	ErrTrailingArgs       = errors.New("unexpected trailing arguments")
	ErrMissingSource      = errors.New("missing source file")
	ErrMissingDestination = errors.New("missing destination file")
	ErrMissingBoth        = errors.New("missing both source and destination file")
)

// The natural syntax is a small automaton over the token stream. Keeping
// the mode explicit ties each error to the exact point of failure.
type parseMode int

const (
	collectingStates parseMode = iota
	awaitingFromValue
	awaitingToKeyword
	awaitingToValue
	done
)

// ParseNatural parses "<state>... from <FROM> to <TO>".
func ParseNatural(tokens []string) (*Request, error) {
	req := &Request{}
	mode := collectingStates

	for _, tok := range tokens {
		switch tok {
		case "from":
			if len(req.States) == 0 {
				return nil, ErrNoStatesBeforeFrom
			}
			mode = awaitingFromValue
		case "to":
			if req.From == "" {
				return nil, ErrToBeforeSource
			}
			mode = awaitingToValue
		default:
			switch mode {
			case collectingStates:
				req.States = append(req.States, tok)
			case awaitingFromValue:
				req.From = tok
				mode = awaitingToKeyword
			case awaitingToKeyword:
				return nil, ErrExpectedTo
			case awaitingToValue:
				req.To = tok
				mode = done
			case done:
				return nil, ErrTrailingArgs
			}
		}
	}

	switch {
	case req.From != "" && req.To != "":
		return req, nil
	case req.From != "":
		return nil, ErrMissingDestination
	case req.To != "":
		return nil, ErrMissingSource
	default:
		return nil, ErrMissingBoth
	}
}

// SplitList splits a comma-separated state list, trimming whitespace and
// dropping empty pieces, so "a,,b" yields ["a","b"].
func SplitList(value string) []string {
	var out []string
	for _, piece := range strings.Split(value, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// Flatten expands repeated --state values, each possibly a comma list,
// into one slice in occurrence order.
func Flatten(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, SplitList(v)...)
	}
	return out
}
