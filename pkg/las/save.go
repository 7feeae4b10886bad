package las

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"os"
	"time"

	"github.com/joshuapare/laskit/internal/fields"
	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/lasio"
	"github.com/joshuapare/laskit/internal/logger"
	"github.com/joshuapare/laskit/internal/metadata"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/internal/waveform"
	"github.com/joshuapare/laskit/internal/writer"
	"github.com/joshuapare/laskit/pkg/types"
)

// SaveResult describes a written file.
type SaveResult struct {
	Header Header
	Points uint64
	// WaveformPath is the .wdp file written next to the LAS file, if any.
	WaveformPath string
	// Diagnostics lists data that could not be carried by the output.
	Diagnostics *types.DiagnosticReport
}

// alternateColumns lists the column tried when a field's own column is
// missing. Both scan angle columns hold degrees.
var alternateColumns = map[string]string{
	types.NameScanAngle:     types.NameScanAngleRank,
	types.NameScanAngleRank: types.NameScanAngle,
}

// Save writes c to path. The file appears only once every record was
// written; a failed or cancelled save leaves nothing behind.
func Save(ctx context.Context, c *Cloud, path string, opts SaveOptions) (*SaveResult, error) {
	sink, err := writer.CreateAtomic(path)
	if err != nil {
		return nil, classify(err)
	}
	return SaveTo(ctx, c, sink, waveform.SiblingPath(path), opts)
}

// SaveTo writes c into sink. wdpPath receives the waveform samples when the
// output carries waveforms.
func SaveTo(ctx context.Context, c *Cloud, sink Sink, wdpPath string, opts SaveOptions) (*SaveResult, error) {
	start := time.Now()
	log := logger.For(opts.Logger, "save")
	committed := false
	defer func() {
		if !committed {
			_ = sink.Abort()
		}
	}()

	info, minor, pf, err := resolveTarget(c, &opts)
	if err != nil {
		return nil, err
	}
	count := uint64(c.Len())
	if count > math.MaxUint32 {
		return nil, types.Wrap(types.ErrTooManyPoints, fmt.Errorf("%d points", count))
	}

	report := types.NewDiagnosticReport("")
	scale, err := chooseScale(c, info, &opts)
	if err != nil {
		return nil, err
	}
	offset := c.GlobalShift()
	if !c.IsShifted() {
		lo, _, ok := c.Bounds()
		if ok {
			offset = lo
		}
	}

	standard := bindStandardFields(c, pf, opts.StandardFields, log)
	extra, missing := schema.MatchExtraBytesToColumns(info.ExtraFields, c)
	for _, name := range missing {
		log.Warn("extra field column missing", "column", name)
		report.Warn("ExtraBytes", "extra field", "column %q not found, field not written", name)
	}
	saver := fields.NewSaver(pf, standard, extra, opts.Logger)
	if opts.StandardFields == nil {
		saver.SetConstants(constantsFor(info.Constants), info.ConstantColor)
	}

	var vlrs []format.VLR
	if len(extra) > 0 {
		vlrs = append(vlrs, schema.EncodeExtraBytesVLR(extra))
	}
	withWaveforms := !opts.SkipWaveforms && c.HasWaveforms() && format.HasWavePacketField(pf)
	if c.HasWaveforms() && !withWaveforms && !opts.SkipWaveforms {
		log.Warn("point format cannot carry waveforms", "point_format", pf)
		report.Warn("Waveform", "waveforms", "point format %d has no wave packet field", pf)
	}
	if withWaveforms {
		vlrs = append(vlrs, waveform.DescriptorVLRs(c.WaveformDescriptors())...)
	}
	if content := contentOf(c); !metadata.Carries(pf, content) {
		log.Warn("point format drops some of the cloud's content", "point_format", pf)
		report.Warn("Points", "point format", "format %d cannot hold everything the cloud carries", pf)
	}

	h, vlrs, err := metadata.BuildHeader(info, metadata.HeaderParams{
		VersionMinor:      minor,
		PointFormat:       pf,
		Scale:             scale,
		Offset:            offset,
		ExtraBytes:        saver.ExtraBytesSize(),
		VLRs:              vlrs,
		ExternalWaveforms: withWaveforms,
	})
	if err != nil {
		return nil, classify(err)
	}

	w, err := lasio.NewWriter(sink, h, vlrs)
	if err != nil {
		return nil, classify(err)
	}

	hasRGB := format.HasRGBField(pf)
	clamped := 0
	rec := format.PointRecord{ExtraBytes: make([]byte, saver.ExtraBytesSize())}
	for row := 0; row < c.Len(); row++ {
		if err := checkCanceled(ctx); err != nil {
			_ = w.Abort()
			return nil, err
		}
		rec.Reset()
		g := c.GlobalPoint(row)
		raw := [3]*int32{&rec.X, &rec.Y, &rec.Z}
		for i := range raw {
			v := math.Round((g[i] - offset[i]) / scale[i])
			if v < math.MinInt32 || v > math.MaxInt32 {
				clamped++
			}
			*raw[i] = fields.SaturateI32(v)
		}
		saver.WriteStandardFields(c, row, &rec)
		if hasRGB {
			saver.WriteRGB(c, row, &rec)
		}
		if err := saver.WriteExtraFields(c, row, &rec); err != nil {
			_ = w.Abort()
			return nil, classify(err)
		}
		if withWaveforms {
			if link, ok := c.WaveformLink(row); ok {
				waveform.EncodeLink(link, &rec)
			}
		}
		if err := w.WritePoint(&rec); err != nil {
			_ = w.Abort()
			return nil, classify(err)
		}
	}
	if clamped > 0 {
		log.Warn("coordinates clamped to the int32 range", "count", clamped)
		report.Add(types.Diagnostic{Severity: types.SevError, Structure: "Points", Issue: fmt.Sprintf("%d coordinates out of range for the chosen scale", clamped)})
	}

	res := &SaveResult{Header: w.Header(), Points: w.Count(), Diagnostics: report}
	if withWaveforms {
		if err := waveform.WriteExternal(wdpPath, c.WaveformData()); err != nil {
			_ = w.Abort()
			return nil, classify(err)
		}
		res.WaveformPath = wdpPath
	}
	if err := w.Commit(); err != nil {
		if withWaveforms {
			_ = os.Remove(wdpPath)
		}
		return nil, classify(err)
	}
	committed = true

	log.Info("saved",
		slog.Uint64("points", res.Points),
		slog.String("version", format.VersionString(minor)),
		slog.Int("point_format", int(pf)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// resolveTarget picks the snapshot, version and point format of the output.
// A cloud without a snapshot is written with the smallest version and format
// that hold its content, unless both are given.
func resolveTarget(c *Cloud, opts *SaveOptions) (*SavedInfo, uint8, uint8, error) {
	var (
		info  *SavedInfo
		minor uint8
		pf    uint8
	)
	switch {
	case c.Saved != nil:
		info = c.Saved.Clone()
		minor, pf = info.VersionMinor, info.PointFormat
	case opts.BestFit():
		info = &SavedInfo{}
		minor, pf = metadata.SelectBestVersion(contentOf(c))
	case opts.VersionMinor != 0 && opts.PointFormat != nil:
		info = &SavedInfo{}
	default:
		return nil, 0, 0, types.Wrap(types.ErrNoSavedInfo, errors.New("give both a version and a point format"))
	}

	if opts.PointFormat != nil {
		pf = *opts.PointFormat
		if opts.VersionMinor == 0 && !format.FormatAllowedForVersion(minor, pf) {
			minor = lowestVersionFor(pf)
		}
	}
	if opts.VersionMinor != 0 {
		minor = opts.VersionMinor
	}
	if !format.FormatAllowedForVersion(minor, pf) {
		return nil, 0, 0, types.Wrap(types.ErrUnsupported, fmt.Errorf("point format %d in LAS %s", pf, format.VersionString(minor)))
	}
	return info, minor, pf, nil
}

func lowestVersionFor(pf uint8) uint8 {
	for minor := uint8(2); minor <= 4; minor++ {
		if format.FormatAllowedForVersion(minor, pf) {
			return minor
		}
	}
	return 4
}

func chooseScale(c *Cloud, info *SavedInfo, opts *SaveOptions) ([3]float64, error) {
	mode := opts.ScaleMode
	if opts.Scale != nil {
		mode = ScaleCustom
	}
	optimal := func() [3]float64 {
		lo, hi, _ := c.Bounds()
		return metadata.OptimalScale([3]float64{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]})
	}
	switch mode {
	case ScaleCustom:
		if opts.Scale == nil {
			return [3]float64{}, types.Errorf(types.ErrKindArgument, "custom scale mode without a scale", nil)
		}
		return *opts.Scale, nil
	case ScaleOptimal:
		return optimal(), nil
	default:
		if info.Scale[0] > 0 && info.Scale[1] > 0 && info.Scale[2] > 0 {
			return info.Scale, nil
		}
		return optimal(), nil
	}
}

// bindStandardFields builds the target catalog and binds each field to the
// column that feeds it.
func bindStandardFields(c *Cloud, pf uint8, mapping map[string]string, log *slog.Logger) []schema.StandardField {
	standard := schema.StandardFieldsForPointFormat(pf)
	for i := range standard {
		f := &standard[i]
		if mapping != nil {
			col, ok := mapping[f.Name]
			if !ok {
				continue
			}
			f.Column = c.FindColumn(col)
			if !f.Column.Valid() {
				log.Warn("mapped column not found", "field", f.Name, "column", col)
			}
			continue
		}
		f.Column = c.FindColumn(f.Name)
		if !f.Column.Valid() {
			if alt, ok := alternateColumns[f.Name]; ok {
				f.Column = c.FindColumn(alt)
			}
		}
	}
	return standard
}

// constantsFor adds the alternate field names to constants so a constant
// scan angle rank still feeds the extended scan angle and back.
func constantsFor(constants map[string]float64) map[string]float64 {
	if len(constants) == 0 {
		return nil
	}
	out := maps.Clone(constants)
	for name, alt := range alternateColumns {
		if _, ok := out[name]; ok {
			continue
		}
		if v, ok := constants[alt]; ok {
			out[name] = v
		}
	}
	return out
}

// contentOf summarises what the cloud needs from a point format.
func contentOf(c *Cloud) metadata.Content {
	has := func(name string) bool { return c.FindColumn(name).Valid() }
	exceeds := func(name string, limit float64) bool {
		h := c.FindColumn(name)
		return h.Valid() && c.Stats(h).Max > limit
	}
	return metadata.Content{
		Colors:       c.HasColors() || (c.Saved != nil && c.Saved.ConstantColor != nil),
		GpsTime:      has(types.NameGpsTime),
		Waveforms:    c.HasWaveforms(),
		NearInfrared: has(types.NameNearInfrared),
		Extended: has(types.NameScannerChannel) || has(types.NameOverlapFlag) ||
			exceeds(types.NameClassification, 31) ||
			exceeds(types.NameReturnNumber, 7) || exceeds(types.NameNumberOfReturns, 7),
	}
}
