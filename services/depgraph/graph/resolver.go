// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"strings"

	"github.com/AleutianAI/IncludeGraph/services/depgraph/config"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/scan"
)

// GroupRule maps a directory prefix to the proxy node standing in for
// everything underneath it.
type GroupRule struct {
	// Prefix is the absolute path prefix, compared literally: "lib"
	// also captures a sibling "lib2". This has always been the
	// matching rule and consumers rely on it.
	Prefix string

	// ProxyID is the synthetic node id for this group.
	ProxyID string
}

// Resolver maps file paths to node identities.
//
// Rules are checked in configuration order and the first matching
// prefix wins; a path matching no rule resolves to its direct base
// name. Resolvers are immutable after construction.
type Resolver struct {
	rules []GroupRule
}

// NewResolver builds a Resolver from the run configuration's group
// list, preserving order.
func NewResolver(cfg config.Config) *Resolver {
	rules := make([]GroupRule, 0, len(cfg.Groups))
	for _, dir := range cfg.Groups {
		rules = append(rules, GroupRule{
			Prefix:  dir,
			ProxyID: GroupProxyPrefix + scan.BaseName(dir),
		})
	}
	return &Resolver{rules: rules}
}

// Resolve returns the node id for a file path and whether that id is a
// group proxy.
func (r *Resolver) Resolve(path string) (string, bool) {
	for _, rule := range r.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.ProxyID, true
		}
	}
	return scan.BaseName(path), false
}

// Covers reports whether the directory itself falls under a group
// rule. Covered directories are opaque: their files contribute nodes
// through Resolve but are never traversed for edges.
func (r *Resolver) Covers(dir string) bool {
	for _, rule := range r.rules {
		if strings.HasPrefix(dir, rule.Prefix) {
			return true
		}
	}
	return false
}

// Rules returns the resolver's rules in evaluation order.
func (r *Resolver) Rules() []GroupRule {
	return r.rules
}
