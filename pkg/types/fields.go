package types

// FieldID identifies a standard LAS point attribute. Legacy and extended
// variants of a field share a display name but not a storage width, so
// they get distinct ids.
type FieldID int

const (
	FieldIntensity FieldID = iota
	FieldReturnNumber
	FieldNumberOfReturns
	FieldScanDirectionFlag
	FieldEdgeOfFlightLine
	FieldClassification
	FieldSyntheticFlag
	FieldKeypointFlag
	FieldWithheldFlag
	FieldScanAngleRank
	FieldUserData
	FieldPointSourceID
	FieldGpsTime
	// LAS 1.4 extended fields
	FieldExtendedScanAngle
	FieldExtendedScannerChannel
	FieldOverlapFlag
	FieldExtendedClassification
	FieldExtendedReturnNumber
	FieldExtendedNumberOfReturns
	FieldNearInfrared

	fieldCount
)

// Canonical display names of the standard fields.
const (
	NameIntensity         = "Intensity"
	NameReturnNumber      = "Return Number"
	NameNumberOfReturns   = "Number Of Returns"
	NameScanDirectionFlag = "Scan Direction Flag"
	NameEdgeOfFlightLine  = "EdgeOfFlightLine"
	NameClassification    = "Classification"
	NameSyntheticFlag     = "Synthetic Flag"
	NameKeypointFlag      = "Keypoint Flag"
	NameWithheldFlag      = "Withheld Flag"
	NameScanAngleRank     = "Scan Angle Rank"
	NameUserData          = "User Data"
	NamePointSourceID     = "Point Source ID"
	NameGpsTime           = "Gps Time"
	NameScanAngle         = "Scan Angle"
	NameScannerChannel    = "Scanner Channel"
	NameOverlapFlag       = "Overlap Flag"
	NameNearInfrared      = "Near Infrared"
)

var fieldNames = [fieldCount]string{
	FieldIntensity:               NameIntensity,
	FieldReturnNumber:            NameReturnNumber,
	FieldNumberOfReturns:         NameNumberOfReturns,
	FieldScanDirectionFlag:       NameScanDirectionFlag,
	FieldEdgeOfFlightLine:        NameEdgeOfFlightLine,
	FieldClassification:          NameClassification,
	FieldSyntheticFlag:           NameSyntheticFlag,
	FieldKeypointFlag:            NameKeypointFlag,
	FieldWithheldFlag:            NameWithheldFlag,
	FieldScanAngleRank:           NameScanAngleRank,
	FieldUserData:                NameUserData,
	FieldPointSourceID:           NamePointSourceID,
	FieldGpsTime:                 NameGpsTime,
	FieldExtendedScanAngle:       NameScanAngle,
	FieldExtendedScannerChannel:  NameScannerChannel,
	FieldOverlapFlag:             NameOverlapFlag,
	FieldExtendedClassification:  NameClassification,
	FieldExtendedReturnNumber:    NameReturnNumber,
	FieldExtendedNumberOfReturns: NameNumberOfReturns,
	FieldNearInfrared:            NameNearInfrared,
}

// Name returns the canonical display name of id, or "" for unknown ids.
func (id FieldID) Name() string {
	if id < 0 || id >= fieldCount {
		return ""
	}
	return fieldNames[id]
}

// Valid reports whether id is one of the defined fields.
func (id FieldID) Valid() bool {
	return id >= 0 && id < fieldCount
}

func (id FieldID) String() string {
	if !id.Valid() {
		return "UnknownField"
	}
	return fieldNames[id]
}

// IsExtended reports whether id only exists in point formats 6 and up.
func (id FieldID) IsExtended() bool {
	return id >= FieldExtendedScanAngle && id != FieldNearInfrared
}
