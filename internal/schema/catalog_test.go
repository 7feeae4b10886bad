package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/laskit/internal/cloud"
	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/pkg/types"
)

func ids(fields []StandardField) []types.FieldID {
	out := make([]types.FieldID, len(fields))
	for i, f := range fields {
		out[i] = f.ID
	}
	return out
}

func TestStandardFieldsFormat3(t *testing.T) {
	fields := StandardFieldsForPointFormat(3)
	require.Len(t, fields, 13)
	assert.Equal(t, types.FieldIntensity, fields[0].ID)
	assert.Equal(t, types.FieldPointSourceID, fields[11].ID)
	assert.Equal(t, types.FieldGpsTime, fields[12].ID)
	assert.True(t, format.HasRGB(3))
	assert.False(t, format.HasWaveform(3))
	for _, f := range fields {
		assert.Equal(t, types.NoColumn, f.Column)
		assert.Equal(t, f.ID.Name(), f.Name)
	}
}

func TestStandardFieldsExtendedOrder(t *testing.T) {
	want := []types.FieldID{
		types.FieldIntensity,
		types.FieldExtendedReturnNumber,
		types.FieldExtendedNumberOfReturns,
		types.FieldExtendedScannerChannel,
		types.FieldScanDirectionFlag,
		types.FieldEdgeOfFlightLine,
		types.FieldExtendedClassification,
		types.FieldSyntheticFlag,
		types.FieldKeypointFlag,
		types.FieldWithheldFlag,
		types.FieldOverlapFlag,
		types.FieldExtendedScanAngle,
		types.FieldUserData,
		types.FieldPointSourceID,
		types.FieldGpsTime,
	}
	assert.Equal(t, want, ids(StandardFieldsForPointFormat(6)))
	assert.Equal(t, append(append([]types.FieldID{}, want...), types.FieldNearInfrared), ids(StandardFieldsForPointFormat(8)))
	assert.Len(t, StandardFieldsForPointFormat(0), 12)
	assert.Len(t, StandardFieldsForPointFormat(1), 13)
}

func TestIDFromName(t *testing.T) {
	cases := []struct {
		name   string
		format uint8
		want   types.FieldID
	}{
		{"Classification", 3, types.FieldClassification},
		{"Classification", 6, types.FieldExtendedClassification},
		{"Return Number", 5, types.FieldReturnNumber},
		{"Return Number", 10, types.FieldExtendedReturnNumber},
		{"Number Of Returns", 7, types.FieldExtendedNumberOfReturns},
		{"Withheld Flag", 1, types.FieldWithheldFlag},
		{"Scan Angle", 6, types.FieldExtendedScanAngle},
		{"Near Infrared", 8, types.FieldNearInfrared},
		{"Gps Time", 1, types.FieldGpsTime},
	}
	for _, tc := range cases {
		got, err := IDFromName(tc.name, tc.format)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, "%s/%d", tc.name, tc.format)
	}

	_, err := IDFromName("Amplitude", 3)
	require.ErrorIs(t, err, types.ErrUnknownField)
	assert.True(t, types.IsKind(err, types.ErrKindNotFound))
}

func TestNamesRoundTripThroughIDs(t *testing.T) {
	for _, pf := range []uint8{0, 3, 6, 8} {
		for _, f := range StandardFieldsForPointFormat(pf) {
			id, err := IDFromName(NameFromID(f.ID), pf)
			require.NoError(t, err)
			assert.Equal(t, f.ID, id)
		}
	}
}

func TestBindColumns(t *testing.T) {
	c := cloud.New("bind", types.Limits{})
	h, err := c.AddColumn("Intensity")
	require.NoError(t, err)

	fields := StandardFieldsForPointFormat(0)
	BindColumns(fields, c)
	assert.Equal(t, h, fields[0].Column)
	assert.Equal(t, types.NoColumn, fields[1].Column)
}
