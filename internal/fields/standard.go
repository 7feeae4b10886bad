package fields

import (
	"math"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/pkg/types"
)

// standardValue extracts field id from rec as a store value.
func standardValue(id types.FieldID, rec *format.PointRecord) float64 {
	switch id {
	case types.FieldIntensity:
		return float64(rec.Intensity)
	case types.FieldReturnNumber:
		return float64(rec.ReturnNumber)
	case types.FieldNumberOfReturns:
		return float64(rec.NumberOfReturns)
	case types.FieldScanDirectionFlag:
		return float64(rec.ScanDirectionFlag)
	case types.FieldEdgeOfFlightLine:
		return float64(rec.EdgeOfFlightLine)
	case types.FieldClassification:
		return float64(rec.Classification & 0x1F)
	case types.FieldSyntheticFlag:
		return float64(rec.SyntheticFlag)
	case types.FieldKeypointFlag:
		return float64(rec.KeypointFlag)
	case types.FieldWithheldFlag:
		return float64(rec.WithheldFlag)
	case types.FieldScanAngleRank:
		return float64(rec.ScanAngleRank)
	case types.FieldUserData:
		return float64(rec.UserData)
	case types.FieldPointSourceID:
		return float64(rec.PointSourceID)
	case types.FieldGpsTime:
		return rec.GpsTime
	case types.FieldExtendedScanAngle:
		return float64(rec.ExtendedScanAngle) * format.ScanAngleScale
	case types.FieldExtendedScannerChannel:
		return float64(rec.ExtendedScannerChannel)
	case types.FieldOverlapFlag:
		if rec.Overlap() {
			return 1
		}
		return 0
	case types.FieldExtendedClassification:
		return float64(rec.ExtendedClassification)
	case types.FieldExtendedReturnNumber:
		return float64(rec.ExtendedReturnNumber)
	case types.FieldExtendedNumberOfReturns:
		return float64(rec.ExtendedNumberOfReturns)
	case types.FieldNearInfrared:
		return float64(rec.RGB[3])
	}
	return 0
}

// setStandardValue stores v into field id of rec, saturating to the
// field's width.
func setStandardValue(id types.FieldID, rec *format.PointRecord, v float64) {
	switch id {
	case types.FieldIntensity:
		rec.Intensity = SaturateU16(v)
	case types.FieldReturnNumber:
		rec.ReturnNumber = SaturateBits(v, 3)
	case types.FieldNumberOfReturns:
		rec.NumberOfReturns = SaturateBits(v, 3)
	case types.FieldScanDirectionFlag:
		rec.ScanDirectionFlag = Flag(v)
	case types.FieldEdgeOfFlightLine:
		rec.EdgeOfFlightLine = Flag(v)
	case types.FieldClassification:
		rec.Classification = SaturateBits(v, 5)
	case types.FieldSyntheticFlag:
		rec.SyntheticFlag = Flag(v)
	case types.FieldKeypointFlag:
		rec.KeypointFlag = Flag(v)
	case types.FieldWithheldFlag:
		rec.WithheldFlag = Flag(v)
	case types.FieldScanAngleRank:
		rec.ScanAngleRank = SaturateI8(v)
	case types.FieldUserData:
		rec.UserData = SaturateU8(v)
	case types.FieldPointSourceID:
		rec.PointSourceID = SaturateU16(v)
	case types.FieldGpsTime:
		if math.IsNaN(v) {
			v = 0
		}
		rec.GpsTime = v
	case types.FieldExtendedScanAngle:
		rec.ExtendedScanAngle = SaturateI16(v / format.ScanAngleScale)
	case types.FieldExtendedScannerChannel:
		rec.ExtendedScannerChannel = SaturateBits(v, 2)
	case types.FieldOverlapFlag:
		rec.ExtendedClassificationFlags &^= format.OverlapFlagMask
		if v > 0 {
			rec.ExtendedClassificationFlags |= format.OverlapFlagMask
		}
	case types.FieldExtendedClassification:
		rec.ExtendedClassification = SaturateU8(v)
	case types.FieldExtendedReturnNumber:
		rec.ExtendedReturnNumber = SaturateBits(v, 4)
	case types.FieldExtendedNumberOfReturns:
		rec.ExtendedNumberOfReturns = SaturateBits(v, 4)
	case types.FieldNearInfrared:
		rec.RGB[3] = SaturateU16(v)
	}
}

// GpsTimeShiftThreshold is the magnitude from which GPS time values are
// stored relative to a shift, keeping float precision on adjusted
// standard time.
const GpsTimeShiftThreshold = 1e5

// GpsTimeShift returns the shift applied to a GPS time column whose first
// value is first.
func GpsTimeShift(first float64) float64 {
	if math.Abs(first) >= GpsTimeShiftThreshold {
		return math.Floor(first)
	}
	return 0
}
