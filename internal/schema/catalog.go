// Package schema builds the per-operation description of a point record:
// the standard fields a point format exposes and the user-defined extra
// fields declared by the extra bytes VLR.
package schema

import (
	"fmt"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/pkg/types"
)

// StandardField binds a standard LAS field to an attribute column.
// Column is types.NoColumn until the field is matched against a store.
type StandardField struct {
	Name   string
	ID     types.FieldID
	Column types.ColumnHandle
}

func newStandardField(id types.FieldID) StandardField {
	return StandardField{Name: id.Name(), ID: id, Column: types.NoColumn}
}

var (
	legacyFields = []types.FieldID{
		types.FieldIntensity,
		types.FieldReturnNumber,
		types.FieldNumberOfReturns,
		types.FieldScanDirectionFlag,
		types.FieldEdgeOfFlightLine,
		types.FieldClassification,
		types.FieldSyntheticFlag,
		types.FieldKeypointFlag,
		types.FieldWithheldFlag,
		types.FieldScanAngleRank,
		types.FieldUserData,
		types.FieldPointSourceID,
	}
	extendedFields = []types.FieldID{
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
	}
)

// StandardFieldsForPointFormat returns the standard fields of a point format
// in display order. The order is also the order columns are created in.
func StandardFieldsForPointFormat(pointFormat uint8) []StandardField {
	var ids []types.FieldID
	switch {
	case pointFormat <= 5:
		ids = legacyFields
	case pointFormat <= 10:
		ids = extendedFields
	}

	fields := make([]StandardField, 0, len(ids)+2)
	for _, id := range ids {
		fields = append(fields, newStandardField(id))
	}
	if format.HasGpsTime(pointFormat) {
		fields = append(fields, newStandardField(types.FieldGpsTime))
	}
	if format.HasNearInfrared(pointFormat) {
		fields = append(fields, newStandardField(types.FieldNearInfrared))
	}
	return fields
}

// IDFromName resolves a display name to a field id. The extended variant is
// returned for Return Number, Number Of Returns and Classification when
// targetFormat uses the extended layout.
func IDFromName(name string, targetFormat uint8) (types.FieldID, error) {
	extended := format.IsExtended(targetFormat)
	switch name {
	case types.NameIntensity:
		return types.FieldIntensity, nil
	case types.NameReturnNumber:
		if extended {
			return types.FieldExtendedReturnNumber, nil
		}
		return types.FieldReturnNumber, nil
	case types.NameNumberOfReturns:
		if extended {
			return types.FieldExtendedNumberOfReturns, nil
		}
		return types.FieldNumberOfReturns, nil
	case types.NameScanDirectionFlag:
		return types.FieldScanDirectionFlag, nil
	case types.NameEdgeOfFlightLine:
		return types.FieldEdgeOfFlightLine, nil
	case types.NameClassification:
		if extended {
			return types.FieldExtendedClassification, nil
		}
		return types.FieldClassification, nil
	case types.NameSyntheticFlag:
		return types.FieldSyntheticFlag, nil
	case types.NameKeypointFlag:
		return types.FieldKeypointFlag, nil
	case types.NameWithheldFlag:
		return types.FieldWithheldFlag, nil
	case types.NameScanAngleRank:
		return types.FieldScanAngleRank, nil
	case types.NameUserData:
		return types.FieldUserData, nil
	case types.NamePointSourceID:
		return types.FieldPointSourceID, nil
	case types.NameGpsTime:
		return types.FieldGpsTime, nil
	case types.NameScanAngle:
		return types.FieldExtendedScanAngle, nil
	case types.NameScannerChannel:
		return types.FieldExtendedScannerChannel, nil
	case types.NameOverlapFlag:
		return types.FieldOverlapFlag, nil
	case types.NameNearInfrared:
		return types.FieldNearInfrared, nil
	}
	return 0, fmt.Errorf("schema: %q: %w", name, types.ErrUnknownField)
}

// NameFromID returns the display name of id.
func NameFromID(id types.FieldID) string {
	return id.Name()
}

// IsStandardName reports whether name is one of the standard display names.
func IsStandardName(name string) bool {
	_, err := IDFromName(name, 0)
	return err == nil
}

// BindColumns looks up each field by name in store and records the handle.
// Fields without a column keep types.NoColumn.
func BindColumns(fields []StandardField, store types.AttributeStore) {
	for i := range fields {
		fields[i].Column = store.FindColumn(fields[i].Name)
	}
}
