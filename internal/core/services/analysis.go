package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
	"github.com/custodia-labs/cytoset/internal/core/ports/driving"
	"github.com/custodia-labs/cytoset/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

var tracer = otel.Tracer("github.com/custodia-labs/cytoset/internal/core/services")

// AnalysisService loads a data file, resolves its sets and produces the
// statistics table and serialized definition.
type AnalysisService struct {
	particles   driven.ParticleSource
	definitions driven.DefinitionSource
	serializer  driven.DefinitionSerializer
	classifier  driving.Classifier
	volumes     driving.VolumeEstimator
	runStore    driven.RunStore
	metrics     driven.MetricsRecorder
	now         func() time.Time
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	particles driven.ParticleSource,
	definitions driven.DefinitionSource,
	serializer driven.DefinitionSerializer,
	classifier driving.Classifier,
	volumes driving.VolumeEstimator,
) *AnalysisService {
	return &AnalysisService{
		particles:   particles,
		definitions: definitions,
		serializer:  serializer,
		classifier:  classifier,
		volumes:     volumes,
		now:         time.Now,
	}
}

// SetRunStore enables run history. A nil store disables it.
func (s *AnalysisService) SetRunStore(store driven.RunStore) {
	s.runStore = store
}

// SetMetrics sets the metrics recorder. A nil recorder disables metrics.
func (s *AnalysisService) SetMetrics(metrics driven.MetricsRecorder) {
	s.metrics = metrics
}

// Analyze loads, classifies and summarises one data file.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "AnalysisService.Analyze", trace.WithAttributes(
		attribute.String("cytoset.file", req.DataPath),
		attribute.Bool("cytoset.override", req.OverridePath != ""),
	))
	defer span.End()

	logger.Section("Analysis: " + filepath.Base(req.DataPath))

	result, err := s.analyze(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.observeFailure(err)
		return nil, err
	}
	return result, nil
}

func (s *AnalysisService) analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	file, err := s.loadFile(ctx, req.DataPath)
	if err != nil {
		return nil, err
	}

	info, err := s.setInformation(ctx, file, req.OverridePath)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Filename:    filepath.Base(req.DataPath),
		ImagingMode: file.Context.ImagingMode,
		Info:        *info,
	}
	if req.IncludeParticles {
		result.Particles = Memberships(file.Particles, info.Sets)
	}

	if s.runStore != nil {
		run := &domain.AnalysisRun{
			ID:             uuid.New().String(),
			Filename:       result.Filename,
			OverridePath:   req.OverridePath,
			ImagingMode:    file.Context.ImagingMode,
			AnalyzedVolume: file.Context.AnalyzedVolume,
			ExclusiveSets:  info.Sets.ExclusiveSets,
			Definition:     info.Definition,
			Statistics:     info.Statistics,
			CreatedAt:      s.now().UTC(),
		}
		if err := s.runStore.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		result.RunID = run.ID
		logger.Debug("Saved run %s", run.ID)
	}

	return result, nil
}

// AnalyzeAll analyses independent files concurrently. Each file has its own
// sets and population, so runs share nothing but thread-safe adapters.
func (s *AnalysisService) AnalyzeAll(
	ctx context.Context, reqs []domain.AnalysisRequest, jobs int,
) ([]*domain.AnalysisResult, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]*domain.AnalysisResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range reqs {
		g.Go(func() error {
			res, err := s.Analyze(gctx, reqs[i])
			if err != nil {
				return fmt.Errorf("%s: %w", reqs[i].DataPath, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Memberships returns per-particle set names. Files without usable set
// information produce records with no membership rather than an error.
func (s *AnalysisService) Memberships(
	ctx context.Context, req domain.AnalysisRequest,
) ([]domain.ParticleMembership, error) {
	ctx, span := tracer.Start(ctx, "AnalysisService.Memberships",
		trace.WithAttributes(attribute.String("cytoset.file", req.DataPath)))
	defer span.End()

	file, err := s.loadFile(ctx, req.DataPath)
	if err != nil {
		return nil, err
	}

	info, err := s.setInformation(ctx, file, req.OverridePath)
	switch {
	case err == nil:
		return Memberships(file.Particles, info.Sets), nil
	case errors.Is(err, domain.ErrImagingDisabled), errors.Is(err, domain.ErrMissingRegionDefinition):
		logger.Warn("No set information for %s: %v", filepath.Base(req.DataPath), err)
		return Memberships(file.Particles, nil), nil
	default:
		span.RecordError(err)
		return nil, err
	}
}

func (s *AnalysisService) loadFile(ctx context.Context, path string) (*domain.DataFile, error) {
	ctx, span := tracer.Start(ctx, "ParticleSource.Load")
	defer span.End()

	file, err := s.particles.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load data file: %w", err)
	}
	logger.Debug("Loaded %d particles, imaging mode %s, analysed volume %.4f µL",
		len(file.Particles), file.Context.ImagingMode, file.Context.AnalyzedVolume)
	span.SetAttributes(attribute.Int("cytoset.particles", len(file.Particles)))
	return file, nil
}

// setInformation loads the active definition, resolves it and attributes
// volumes. When an override is active the file's own imaging sets are
// resolved independently for the containment test.
func (s *AnalysisService) setInformation(
	ctx context.Context, file *domain.DataFile, overridePath string,
) (*domain.SetInformation, error) {
	if !file.Context.ImagingEnabled {
		return nil, fmt.Errorf("export set information: %w", domain.ErrImagingDisabled)
	}

	var (
		sets *domain.SetsList
		err  error
	)
	if overridePath != "" {
		logger.Info("Using override definition %s", overridePath)
		sets, err = s.definitions.LoadOverride(ctx, overridePath, file)
		if err != nil {
			return nil, fmt.Errorf("load override: %w", err)
		}
	} else {
		sets, err = s.definitions.LoadEmbedded(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("load embedded definition: %w", err)
		}
	}
	if err := sets.Validate(); err != nil {
		return nil, fmt.Errorf("validate definition: %w", err)
	}

	resolved, err := s.resolve(ctx, sets, file.Particles)
	if err != nil {
		return nil, err
	}

	var imagingSets *domain.SetsList
	if overridePath != "" {
		imagingSets, err = s.imagingSets(ctx, file)
		if err != nil {
			return nil, err
		}
	}

	statsCtx, span := tracer.Start(ctx, "VolumeEstimator.Statistics")
	stats, err := s.volumes.Statistics(statsCtx, file, resolved, imagingSets)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}

	definition, err := s.serializer.Serialize(resolved, file.Context.ConfigurationDate)
	if err != nil {
		return nil, fmt.Errorf("serialize definition: %w", err)
	}

	return &domain.SetInformation{
		Definition: definition,
		Statistics: stats,
		Sets:       resolved,
		Override:   overridePath != "",
	}, nil
}

// imagingSets resolves the sets the instrument was imaging, for the override
// containment test. A missing or legacy embedded definition does not stop an
// override analysis: the result is an empty list, so no set can be shown to
// lie inside an imaging target.
func (s *AnalysisService) imagingSets(ctx context.Context, file *domain.DataFile) (*domain.SetsList, error) {
	embedded, err := s.definitions.LoadEmbedded(ctx, file)
	switch {
	case errors.Is(err, domain.ErrMissingRegionDefinition), errors.Is(err, domain.ErrLegacyFormatUnsupported):
		logger.Warn("Imaging sets unavailable, override volumes are undefined: %v", err)
		return &domain.SetsList{OriginSerialNumber: file.Context.SerialNumber}, nil
	case err != nil:
		return nil, fmt.Errorf("load imaging sets: %w", err)
	}
	return s.resolve(ctx, embedded, file.Particles)
}

func (s *AnalysisService) resolve(
	ctx context.Context, sets *domain.SetsList, particles []domain.Particle,
) (*domain.SetsList, error) {
	ctx, span := tracer.Start(ctx, "Classifier.Resolve", trace.WithAttributes(
		attribute.Int("cytoset.sets", sets.Len()),
		attribute.Bool("cytoset.exclusive", sets.ExclusiveSets),
	))
	defer span.End()

	start := time.Now()
	resolved, err := s.classifier.Resolve(ctx, sets, particles)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveClassification(time.Since(start), len(particles), resolved.Len())
	}
	return resolved, nil
}

func (s *AnalysisService) observeFailure(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveFailure(failureReason(err))
}

// failureReason maps an analysis error to a low-cardinality label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, domain.ErrLegacyFormatUnsupported):
		return "legacy_format"
	case errors.Is(err, domain.ErrMissingRegionDefinition):
		return "missing_region_definition"
	case errors.Is(err, domain.ErrUnsupportedImagingMode):
		return "unsupported_imaging_mode"
	case errors.Is(err, domain.ErrImagingDisabled):
		return "imaging_disabled"
	case errors.Is(err, domain.ErrInternalConfiguration):
		return "internal_configuration"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
