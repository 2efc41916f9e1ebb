package recon

import (
	"context"
	"errors"
	"fmt"

	"recon-manager/core/dataset"
	"recon-manager/core/reconcile"
	"recon-manager/core/report"
	"recon-manager/core/source"
	"recon-manager/core/storage"
	"recon-manager/core/writer"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRequest is returned for malformed request parameters.
var ErrInvalidRequest = errors.New("invalid request")

// Service runs reconciliations for the HTTP API.
type Service struct {
	resolver *source.Resolver
	cache    *reconcile.Cache
	client   storage.Client
	bucket   string
	cfg      reconcile.Config
	logger   *zap.Logger
}

// NewService creates a new recon service.
func NewService(resolver *source.Resolver, cache *reconcile.Cache, client storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		cache:    cache,
		client:   client,
		bucket:   bucket,
		cfg:      cfg,
		logger:   logger,
	}
}

// Reconcile matches two inline datasets.
func (s *Service) Reconcile(ctx context.Context, req Request, l *zap.Logger) (*Response, error) {
	opts, err := s.options(req.Params, l)
	if err != nil {
		return nil, err
	}

	left, err := inlineDataset(req.Left, "left")
	if err != nil {
		return nil, err
	}
	right, err := inlineDataset(req.Right, "right")
	if err != nil {
		return nil, err
	}

	e, err := reconcile.New(ctx, left, right, opts)
	if err != nil {
		return nil, err
	}
	return s.respond(e, req.Params, false)
}

// ReconcileSources loads both sources and matches them, reusing cached engines.
func (s *Service) ReconcileSources(ctx context.Context, req SourceRequest, l *zap.Logger) (*Response, error) {
	opts, err := s.options(req.Params, l)
	if err != nil {
		return nil, err
	}
	for _, uri := range []string{req.Left, req.Right} {
		loc, err := source.ParseURI(uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if loc.Scheme == source.SchemeFile {
			return nil, fmt.Errorf("%w: %q must be an s3:// or db:// source", ErrInvalidRequest, uri)
		}
	}

	leftOpts := source.ReadOptions{Sheet: sheetOr(req.LeftSheet, s.cfg.Sheet)}
	rightOpts := source.ReadOptions{Sheet: sheetOr(req.RightSheet, s.cfg.Sheet)}
	key := reconcile.CacheKey(req.Left+"#"+leftOpts.Sheet, req.Right+"#"+rightOpts.Sheet, opts)

	cached := true
	e, err := s.cache.GetOrBuild(ctx, key, func(ctx context.Context) (*reconcile.Engine, error) {
		cached = false
		var left, right *dataset.Dataset
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			left, err = s.resolver.Load(gctx, req.Left, leftOpts)
			return err
		})
		g.Go(func() error {
			var err error
			right, err = s.resolver.Load(gctx, req.Right, rightOpts)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return reconcile.New(ctx, left, right, opts)
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.respond(e, req.Params, cached)
	if err != nil {
		return nil, err
	}

	if req.Output != "" {
		if s.client == nil {
			return nil, fmt.Errorf("%w: no object storage configured for output", source.ErrUnavailable)
		}
		views, err := e.Views(viewNames(req.Views)...)
		if err != nil {
			return nil, err
		}
		if _, err := writer.Upload(ctx, s.client, s.bucket, req.Output, views); err != nil {
			return nil, err
		}
		resp.Output = "s3://" + s.bucket + "/" + req.Output
		l.Info("Views uploaded", zap.String("output", resp.Output))
	}
	return resp, nil
}

// ListSources returns the readable objects under prefix in the default bucket.
func (s *Service) ListSources(ctx context.Context, prefix string) (*ObjectList, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: no object storage configured", source.ErrUnavailable)
	}
	keys, err := source.ListObjects(ctx, s.client, s.bucket, prefix)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}
	return &ObjectList{Bucket: s.bucket, Objects: keys}, nil
}

func (s *Service) options(p Params, l *zap.Logger) (reconcile.Options, error) {
	opts := s.cfg.ServerOptions(p.LeftOn, p.RightOn)
	opts.Logger = l
	switch len(p.Suffixes) {
	case 0:
	case 2:
		opts.LeftSuffix, opts.RightSuffix = p.Suffixes[0], p.Suffixes[1]
	default:
		return opts, fmt.Errorf("%w: suffixes needs two values, got %d", ErrInvalidRequest, len(p.Suffixes))
	}
	return opts, nil
}

func (s *Service) respond(e *reconcile.Engine, p Params, cached bool) (*Response, error) {
	summary := report.Summarize(e)

	if p.Relationship != "" {
		expected, err := reconcile.ParseRelationship(p.Relationship)
		if err != nil {
			return nil, err
		}
		if err := summary.Check(expected); err != nil {
			return nil, err
		}
	}

	if p.Verify {
		if err := e.Verify(); err != nil {
			return nil, err
		}
	}

	views, err := e.Views(viewNames(p.Views)...)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		ID:       uuid.NewString(),
		Summary:  summary,
		Views:    writer.Tables(views),
		Verified: p.Verify,
		Cached:   cached,
	}
	summary.Log(s.logger.With(zap.String("run_id", resp.ID)))
	return resp, nil
}

func inlineDataset(in DatasetInput, fallback string) (*dataset.Dataset, error) {
	name := in.Name
	if name == "" {
		name = fallback
	}
	ds, err := dataset.New(name, in.Columns, in.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return ds, nil
}

func viewNames(names []string) []string {
	if len(names) == 0 {
		return []string{reconcile.ViewAll}
	}
	return names
}

func sheetOr(sheet, fallback string) string {
	if sheet != "" {
		return sheet
	}
	return fallback
}
