package las

import (
	"github.com/joshuapare/laskit/internal/cloud"
	"github.com/joshuapare/laskit/internal/metadata"
	"github.com/joshuapare/laskit/internal/writer"
	"github.com/joshuapare/laskit/pkg/types"
)

// Re-exported types so callers don't import internal packages.
type (
	Header      = types.Header
	VLR         = types.VLR
	Color       = types.Color
	ColumnStats = cloud.ColumnStats
	SavedInfo   = metadata.SavedInfo

	// Sink receives an encoded file. Nothing is visible at the destination
	// until Commit.
	Sink = writer.Sink
)

// Cloud is a point cloud with its attribute columns, colours and waveforms,
// plus the metadata snapshot taken when it was loaded.
type Cloud struct {
	*cloud.Cloud

	// Saved is nil for clouds that were not loaded from a LAS file.
	Saved *SavedInfo
}

// NewCloud returns an empty cloud.
func NewCloud(name string, limits Limits) *Cloud {
	return &Cloud{Cloud: cloud.New(name, limits)}
}
