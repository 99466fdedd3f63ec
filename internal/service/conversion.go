package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"foldertoword/internal/archive"
	"foldertoword/internal/gallery"
)

var tracer = otel.Tracer("foldertoword/internal/service")

// ConversionResult is a generated gallery document ready for delivery.
type ConversionResult struct {
	// FileName is "<primary folder>.docx".
	FileName      string
	PrimaryFolder string
	Data          []byte
	Report        gallery.Report
}

// ConversionService turns an uploaded archive into a gallery document.
type ConversionService interface {
	// Convert scans archive, groups its images by folder and serializes the document.
	// Unreadable images become placeholders; only archive and serialization failures are returned.
	Convert(ctx context.Context, archive []byte) (*ConversionResult, error)
}

type conversionService struct {
	scan    archive.Options
	builder *gallery.Builder
	metrics *Metrics
}

// NewConversionService constructs a ConversionService. metrics may be nil.
func NewConversionService(scan archive.Options, builder *gallery.Builder, metrics *Metrics) ConversionService {
	if builder == nil {
		builder = gallery.NewBuilder(gallery.DefaultOptions())
	}
	return &conversionService{scan: scan, builder: builder, metrics: metrics}
}

func (s *conversionService) Convert(ctx context.Context, data []byte) (*ConversionResult, error) {
	_, span := tracer.Start(ctx, "gallery.Convert")
	defer span.End()
	span.SetAttributes(attribute.Int("archive.size", len(data)))

	scanned, err := archive.ScanWithOptions(data, s.scan)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return nil, err
	}

	doc, report := s.builder.Build(gallery.Group(scanned.Entries))
	s.metrics.observeImages(report.Embedded, len(report.Failed))

	out, err := doc.Bytes()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "serialize failed")
		return nil, fmt.Errorf("write document: %w", err)
	}

	span.SetAttributes(
		attribute.String("gallery.primary_folder", scanned.PrimaryFolder),
		attribute.Int("gallery.folders", report.Folders),
		attribute.Int("gallery.embedded", report.Embedded),
		attribute.Int("gallery.failed", len(report.Failed)),
	)

	return &ConversionResult{
		FileName:      scanned.PrimaryFolder + ".docx",
		PrimaryFolder: scanned.PrimaryFolder,
		Data:          out,
		Report:        report,
	}, nil
}
