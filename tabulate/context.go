// Package tabulate orchestrates the end-to-end pipeline spec.md §1 calls
// the "Tabulation pipeline": resolve request metadata, bind a request
// against it, compile analytical SQL, execute it, and materialize typed
// result tables (spec.md §5 "C — Orchestration").
package tabulate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"microtab/core"
	"microtab/exec"
	"microtab/metadata"
	"microtab/querygen"
	"microtab/querygen/duckdb"
	"microtab/request"
)

// Context holds the configuration shared by every Tabulate call: the data
// root to resolve samples and files under, and the SQL dialect to compile
// against (spec.md §9 "Engine coupling" keeps dialect selection a Context
// concern, not Generator's).
type Context struct {
	DataRoot string
	Dialect  querygen.Dialect
	logger   *zap.SugaredLogger
}

// NewContext builds a Context rooted at dataRoot targeting DuckDB, the only
// dialect this pipeline ships (spec.md §9 "Engine coupling").
func NewContext(dataRoot string) (*Context, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("tabulate: build logger: %w", err)
	}
	return &Context{DataRoot: dataRoot, Dialect: duckdb.New(), logger: logger.Sugar()}, nil
}

// Close flushes the Context's logger.
func (c *Context) Close() error {
	if c.logger == nil {
		return nil
	}
	return c.logger.Sync()
}

// Tabulate runs the full pipeline for req: load metadata for every sample
// req names, bind req against it, compile one SQL statement per sample, and
// execute them against a transient DuckDB connection, returning one Table
// per sample in request order (spec.md §5).
func (c *Context) Tabulate(ctx context.Context, req *request.Request) ([]*exec.Table, error) {
	dataRoot := c.DataRoot
	if req.DataRoot != nil && *req.DataRoot != "" {
		dataRoot = *req.DataRoot
	}

	coll, err := c.loadCollection(req, dataRoot)
	if err != nil {
		return nil, err
	}

	bound, err := request.Bind(req, coll, dataRoot)
	if err != nil {
		c.logger.Errorw("binding failed", "product", req.Product, "error", err)
		return nil, err
	}
	c.logger.Infow("request bound", "uoa", bound.UOA.Code, "tab_variables", len(bound.TabVariables), "samples", len(bound.Samples))

	gen := querygen.NewGenerator(c.Dialect, coll.Hierarchy, coll.RecordTypes)
	resolver := metadata.NewResolver(dataRoot, req.Product)
	stmts, err := gen.TabulationQueries(bound, resolver)
	if err != nil {
		c.logger.Errorw("query generation failed", "error", err)
		return nil, err
	}

	executor, err := exec.NewExecutor(ctx, exec.Options{})
	if err != nil {
		c.logger.Errorw("executor connect failed", "error", err)
		return nil, err
	}
	defer func() {
		if closeErr := executor.Close(); closeErr != nil {
			c.logger.Warnw("executor close failed", "error", closeErr)
		}
	}()

	tables, err := executor.RunAll(ctx, stmts)
	if err != nil {
		c.logger.Errorw("execution failed", "error", err)
		return nil, err
	}
	c.logger.Infow("tabulation complete", "tables", len(tables))
	return tables, nil
}

// loadCollection loads metadata for every sample req names, merging results
// into one Collection sharing the product's hierarchy and record types
// (spec.md §4.1 "load_sample(product, sample)" run once per requested
// sample, per §3's Product/Collection split).
func (c *Context) loadCollection(req *request.Request, dataRoot string) (*core.Collection, error) {
	loader := metadata.NewLoader(dataRoot, req.Product)
	loader.OnWarning(func(msg string) { c.logger.Warnw("metadata warning", "msg", msg) })

	var merged *core.Collection
	for _, rs := range req.RequestSamples {
		coll, err := loader.LoadSample(rs.Name)
		if err != nil {
			c.logger.Errorw("sample load failed", "sample", rs.Name, "error", err)
			return nil, err
		}
		if merged == nil {
			merged = coll
			continue
		}
		for _, v := range coll.Variables() {
			merged.AddVariable(v)
		}
		for _, ds := range coll.Datasets() {
			merged.AddDataset(ds)
		}
	}
	if merged == nil {
		return nil, core.NewError(core.InvalidRequest, req.Product, "request names zero samples")
	}
	return merged, nil
}
