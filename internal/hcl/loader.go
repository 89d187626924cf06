// Package hcl implements the config.Loader interface for HCL model files.
package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/factorgrid/internal/config"
	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL model loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL model loading process. It is agnostic to
// the origin of the paths and parses any valid block from any file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.FileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.mergeFile(ctx, model, &root, file); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.",
		"variables", len(model.Variables),
		"factors", len(model.Factors),
		"breakers", len(model.Breakers),
	)
	return model, nil
}

// mergeFile translates one decoded file root and merges it into the model.
func (l *Loader) mergeFile(ctx context.Context, model *config.Model, root *schema.FileRoot, file string) error {
	for _, m := range root.Models {
		if model.Name != "" && model.Name != m.Name {
			return fmt.Errorf("%s declares model '%s', but '%s' was already declared", file, m.Name, model.Name)
		}
		model.Name = m.Name
	}
	for _, v := range root.Variables {
		model.Variables = append(model.Variables, &config.Variable{Name: v.Name})
	}
	for _, f := range root.Factors {
		model.Factors = append(model.Factors, &config.Factor{
			Kind:    f.Kind,
			Name:    f.Name,
			Connect: f.Connect,
		})
	}
	for _, c := range root.Clamps {
		val, diags := c.Value.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("invalid value for clamp '%s' in %s: %w", c.Name, file, diags)
		}
		if val.IsNull() {
			return fmt.Errorf("clamp '%s' in %s has a null value", c.Name, file)
		}
		model.Factors = append(model.Factors, &config.Factor{
			Kind:    "clamp",
			Name:    c.Name,
			Connect: []string{c.Variable},
			Value:   &val,
		})
	}
	for _, b := range root.Breakers {
		model.Breakers = append(model.Breakers, &config.Breaker{
			Node:   b.Node,
			Slot:   b.Slot,
			Family: b.Family,
		})
	}
	for _, p := range root.Posteriors {
		if model.Posterior != nil {
			return fmt.Errorf("%s declares a second posterior block", file)
		}
		post := &config.Posterior{
			TargetVariables: p.TargetVariables,
			FreeEnergy:      p.FreeEnergy,
			ExternalTargets: p.ExternalTargets,
		}
		for _, g := range p.Groups {
			post.Groups = append(post.Groups, &config.Group{ID: g.ID, Variables: g.Variables})
		}
		model.Posterior = post
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					if _, wasSeen := seen[p]; !wasSeen {
						allFiles = append(allFiles, p)
						seen[p] = struct{}{}
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
