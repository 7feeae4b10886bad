package las

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joshuapare/laskit/internal/fields"
	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/lasio"
	"github.com/joshuapare/laskit/internal/logger"
	"github.com/joshuapare/laskit/internal/metadata"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/internal/waveform"
	"github.com/joshuapare/laskit/pkg/types"
)

// LoadResult is the outcome of a successful load.
type LoadResult struct {
	Cloud  *Cloud
	Header Header

	// StandardFields lists the imported standard fields. Fields whose value
	// never changed have no column; ConstantFields holds their value.
	StandardFields []schema.StandardField
	ConstantFields map[string]float64

	// ConstantColor is set when every record carried the same colour, in
	// which case the cloud holds no colours.
	ConstantColor *Color

	// ExtraFields lists the imported extra bytes fields with their columns.
	ExtraFields []schema.ExtraField

	// Diagnostics lists the metadata problems that were recovered from.
	Diagnostics *types.DiagnosticReport
}

// Load reads the LAS file at path.
func Load(ctx context.Context, path string, opts LoadOptions) (*LoadResult, error) {
	r, err := lasio.Open(path)
	if err != nil {
		return nil, classify(err)
	}
	defer r.Close()
	return LoadFrom(ctx, r, path, opts)
}

// fileBytes is implemented by readers that can expose the whole file, which
// is where an internal waveform record lives.
type fileBytes interface {
	Bytes() []byte
}

// LoadFrom reads every record of r. path names the source and locates a
// sibling waveform file; it may be empty.
func LoadFrom(ctx context.Context, r types.PointReader, path string, opts LoadOptions) (*LoadResult, error) {
	start := time.Now()
	log := logger.For(opts.Logger, "load")
	h := r.Header()
	report := types.NewDiagnosticReport(path)

	count := h.NumberOfPoints()
	if count > math.MaxUint32 {
		return nil, types.Wrap(types.ErrTooManyPoints, errors.New(path))
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	c := NewCloud(name, opts.Limits)
	if int64(count) > c.Limits().MaxPoints {
		return nil, types.Wrap(types.ErrNotEnoughMemory, fmt.Errorf("%d points declared, limit %d", count, c.Limits().MaxPoints))
	}
	// A corrupt count must not drive the allocation; reserve only what the
	// file can hold.
	reserve := count
	if fb, ok := r.(fileBytes); ok && h.PointRecordLength > 0 {
		if n := len(fb.Bytes()) - int(h.OffsetToPoints); n >= 0 {
			reserve = min(reserve, uint64(n/int(h.PointRecordLength)))
		}
	}
	if err := c.Reserve(int(reserve)); err != nil {
		return nil, err
	}
	if h.Min != [3]float64{} {
		c.SetGlobalShift(h.Min)
	}
	shift := c.GlobalShift()

	standard := selectStandardFields(h.PointFormat, opts.StandardFields, report, log)
	extra := loadExtraFields(h, r.VLRs(), opts.ExtraFields, report, log)

	loader := fields.NewLoader(h.PointFormat, standard, extra, opts.Logger)
	dropped, err := loader.CreateExtraColumns(c)
	if err != nil {
		return nil, err
	}
	for _, name := range dropped {
		report.Warn("ExtraBytes", "extra field "+name, "columns of the field already exist, field not imported")
	}

	var linker *waveform.Linker
	var wfSource *waveform.Source
	var descriptors map[uint8]types.WaveformDescriptor
	if format.HasWavePacketField(h.PointFormat) && !opts.SkipWaveforms {
		descriptors = waveform.ParseDescriptors(r.VLRs(), report, opts.Logger)
		var file []byte
		if fb, ok := r.(fileBytes); ok {
			file = fb.Bytes()
		}
		wfSource = waveform.OpenDataSource(h, path, file, c.Limits(), report, opts.Logger)
		if wfSource != nil && len(descriptors) > 0 {
			linker = waveform.NewLinker(descriptors, wfSource, h.PointFormat, report, opts.Logger)
		}
	}

	hasRGB := format.HasRGBField(h.PointFormat)
	var rec format.PointRecord
	for row := 0; ; row++ {
		if err := checkCanceled(ctx); err != nil {
			return nil, err
		}
		rec.Reset()
		err := r.ReadPoint(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, format.ErrTruncated) && row > 0 {
				report.Add(types.Diagnostic{
					Severity:  types.SevError,
					Structure: "Points",
					Issue:     fmt.Sprintf("point data ends after %d of %d records", row, count),
				})
				log.Warn("point data truncated", "read", row, "declared", count)
				break
			}
			if last := r.LastError(); last != nil {
				err = last
			}
			return nil, classify(err)
		}

		var p [3]float64
		raw := [3]int32{rec.X, rec.Y, rec.Z}
		for i := range p {
			p[i] = float64(raw[i])*h.Scale[i] + h.Offset[i] - shift[i]
		}
		if err := c.AppendPoint(p); err != nil {
			return nil, err
		}
		if err := loader.ReadStandardFields(c, &rec); err != nil {
			return nil, err
		}
		if hasRGB {
			if err := loader.ReadRGB(c, &rec); err != nil {
				return nil, err
			}
		}
		if err := loader.ReadExtraFields(c, &rec); err != nil {
			return nil, err
		}
		if linker != nil {
			if link, ok := linker.LinkPoint(&rec); ok {
				if err := c.SetWaveformLink(row, link); err != nil {
					return nil, err
				}
			}
		}
	}

	if linker != nil && c.WaveformCount() > 0 {
		c.SetWaveformDescriptors(descriptors)
		c.SetWaveformData(wfSource.Data)
	}

	res := &LoadResult{
		Cloud:          c,
		Header:         h,
		StandardFields: loader.StandardFields(),
		ConstantFields: make(map[string]float64),
		ExtraFields:    loader.ExtraFields(),
		Diagnostics:    report,
	}
	for i, f := range res.StandardFields {
		if v, ok := loader.ConstantValue(i); ok {
			res.ConstantFields[f.Name] = v
		}
	}
	if col, ok := loader.ConstantColor(); ok {
		res.ConstantColor = &col
	}
	c.Saved = metadata.FromHeader(h, r.VLRs(), res.ExtraFields)
	c.Saved.Constants = maps.Clone(res.ConstantFields)
	c.Saved.ConstantColor = res.ConstantColor

	log.Info("loaded",
		slog.String("path", path),
		slog.Int("points", c.Len()),
		slog.Int("columns", c.ColumnCount()),
		slog.Bool("colors", c.HasColors()),
		slog.Int("waveforms", c.WaveformCount()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// selectStandardFields returns the catalog of pointFormat, restricted to
// the requested names when names is not nil.
func selectStandardFields(pointFormat uint8, names []string, report *types.DiagnosticReport, log *slog.Logger) []schema.StandardField {
	all := schema.StandardFieldsForPointFormat(pointFormat)
	if names == nil {
		return all
	}
	out := make([]schema.StandardField, 0, len(names))
	for _, f := range all {
		if slices.Contains(names, f.Name) {
			out = append(out, f)
		}
	}
	for _, n := range names {
		if !slices.ContainsFunc(all, func(f schema.StandardField) bool { return f.Name == n }) {
			log.Warn("requested field not in point format", "field", n, "point_format", pointFormat)
			report.Add(types.Diagnostic{Severity: types.SevInfo, Structure: "Fields", Issue: fmt.Sprintf("field %s is not part of point format %d", n, pointFormat)})
		}
	}
	return out
}

// loadExtraFields parses the extra bytes VLR and drops the fields that do
// not fit in the records or were not requested.
func loadExtraFields(h Header, vlrs []VLR, names []string, report *types.DiagnosticReport, log *slog.Logger) []schema.ExtraField {
	vlr, ok := schema.FindExtraBytesVLR(vlrs)
	if !ok {
		if n := h.ExtraBytesPerRecord(); n > 0 {
			log.Info("undescribed extra bytes", "bytes", n)
		}
		return nil
	}
	parsed, pr := schema.ParseExtraFields(vlr)
	if pr.Remainder != 0 {
		log.Warn("extra bytes VLR length is not a multiple of 192", "remainder", pr.Remainder)
		report.Warn("ExtraBytes", "", "VLR payload has %d trailing bytes", pr.Remainder)
	}
	for _, name := range pr.Dropped {
		log.Warn("unsupported extra field type", "field", name)
		report.Warn("ExtraBytes", "extra field "+name, "undocumented or invalid data type")
	}

	available := h.ExtraBytesPerRecord()
	out := parsed[:0:0]
	for _, f := range parsed {
		if names != nil && !slices.Contains(names, f.NameString()) {
			continue
		}
		if f.ByteOffset+f.ByteSize() > available {
			log.Warn("extra field outside record", "field", f.NameString(), "end", f.ByteOffset+f.ByteSize(), "available", available)
			report.Warn("ExtraBytes", "extra field "+f.NameString(), "field ends at byte %d but records carry %d extra bytes", f.ByteOffset+f.ByteSize(), available)
			continue
		}
		out = append(out, f)
	}
	return out
}
