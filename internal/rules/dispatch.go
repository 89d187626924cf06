package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rule dispatch.
var (
	// ErrNoApplicableRule indicates that no registered rule accepts the
	// requested (node kind, outbound, inbound tuple) combination.
	ErrNoApplicableRule = errors.New("rules: no applicable rule")

	// ErrAmbiguousRules indicates that two or more equally specific rules
	// accept the request; the rule set is misconfigured.
	ErrAmbiguousRules = errors.New("rules: ambiguous rule set")
)

// Dispatch selects the single update rule for the given node kind, requested
// outbound family and concrete inbound tuple. An empty outbound accepts any
// produced family.
//
// All registered rules for the kind are filtered by outbound and by their
// inbound patterns; among the survivors the one with the strictly highest
// specificity wins. A tie at the top is reported as ErrAmbiguousRules, never
// resolved by registration order.
func (r *Registry) Dispatch(node, outbound string, inbound []Inbound) (*Rule, error) {
	var matched []*Rule
	for _, rule := range r.rules[node] {
		if outbound != "" && rule.Outbound != outbound {
			continue
		}
		if rule.matches(inbound) {
			matched = append(matched, rule)
		}
	}

	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("%w for node kind '%s', outbound '%s', inbound %s",
			ErrNoApplicableRule, node, orAny(outbound), formatInbound(inbound))
	case 1:
		return matched[0], nil
	}

	best, runnerUp := matched[0], 0
	bestScore := best.specificity()
	for _, rule := range matched[1:] {
		score := rule.specificity()
		switch {
		case score > bestScore:
			best, bestScore, runnerUp = rule, score, 0
		case score == bestScore:
			runnerUp++
		}
	}
	if runnerUp > 0 {
		ids := make([]string, 0, len(matched))
		for _, rule := range matched {
			if rule.specificity() == bestScore {
				ids = append(ids, rule.ID)
			}
		}
		return nil, fmt.Errorf("%w: rules [%s] match node kind '%s', outbound '%s', inbound %s with equal specificity",
			ErrAmbiguousRules, strings.Join(ids, ", "), node, orAny(outbound), formatInbound(inbound))
	}
	return best, nil
}
