package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/factorgrid/internal/artifact"
	"github.com/vk/factorgrid/internal/config"
	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/factorization"
	"github.com/vk/factorgrid/internal/graph"
)

// Run executes the full preparation pipeline for the loaded model: assemble
// the factor graph, build the posterior factorization, select targets,
// generate every factor's schedule and write the resulting artifact.
func (a *App) Run(ctx context.Context, outputPath string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	g, err := graph.Build(ctx, a.model, a.registry)
	if err != nil {
		return fmt.Errorf("building factor graph: %w", err)
	}

	fz, req, err := a.factorize(ctx, g)
	if err != nil {
		return err
	}
	factorization.SetCurrent(fz)

	if err := fz.SetTargets(ctx, req); err != nil {
		return fmt.Errorf("selecting targets: %w", err)
	}
	if err := fz.Prepare(ctx); err != nil {
		return fmt.Errorf("preparing schedules: %w", err)
	}

	doc := artifact.FromFactorization(a.model.Name, fz)
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing artifact: %w", err)
		}
		a.logger.Info("Artifact written.", "path", outputPath)
		return nil
	}
	if _, err := a.outW.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}

// factorize translates the model's posterior declaration into a live
// factorization and the target-selection request it carries. A model without
// a posterior block gets the single joint factor over all variables.
func (a *App) factorize(ctx context.Context, g *graph.Graph) (*factorization.Factorization, factorization.Request, error) {
	post := a.model.Posterior
	if post == nil {
		post = &config.Posterior{}
	}

	var fz *factorization.Factorization
	var err error
	if len(post.Groups) == 0 {
		fz, err = factorization.FromGraph(ctx, g, a.registry)
	} else {
		groups := make([][]*graph.Variable, len(post.Groups))
		ids := make([]string, len(post.Groups))
		for i, grp := range post.Groups {
			ids[i] = grp.ID
			vars, rerr := resolveVariables(g, grp.Variables)
			if rerr != nil {
				return nil, factorization.Request{}, fmt.Errorf("posterior group %q: %w", grp.ID, rerr)
			}
			groups[i] = vars
		}
		fz, err = factorization.FromGroups(ctx, g, a.registry, groups, ids)
	}
	if err != nil {
		return nil, factorization.Request{}, fmt.Errorf("building factorization: %w", err)
	}

	targets, err := resolveVariables(g, post.TargetVariables)
	if err != nil {
		return nil, factorization.Request{}, fmt.Errorf("target variables: %w", err)
	}
	req := factorization.Request{
		TargetVariables: targets,
		FreeEnergy:      post.FreeEnergy,
		ExternalTargets: post.ExternalTargets || len(post.Groups) > 1,
	}
	return fz, req, nil
}

func resolveVariables(g *graph.Graph, names []string) ([]*graph.Variable, error) {
	vars := make([]*graph.Variable, 0, len(names))
	for _, name := range names {
		v, ok := g.Variable(name)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", graph.ErrUnknownVariable, name)
		}
		vars = append(vars, v)
	}
	return vars, nil
}
