/*
Package las loads LAS point clouds into an in-memory attribute store and
saves them back.

# Quick Start

Load a file, inspect a column, save it as LAS 1.4:

	res, err := las.Load(ctx, "survey.las", las.LoadOptions{})
	if err != nil {
	    log.Fatal(err)
	}
	h := res.Cloud.FindColumn("Intensity")
	fmt.Println(res.Cloud.Len(), res.Cloud.Stats(h).Mean)

	pf := uint8(6)
	_, err = las.Save(ctx, res.Cloud, "survey-14.las", las.SaveOptions{
	    VersionMinor: 4,
	    PointFormat:  &pf,
	})

# Columns

Every standard field of the point format becomes a column named after the
field ("Intensity", "Classification", "Gps Time", ...) unless its value is
the same for every point. Extra bytes fields become one column per
component; array components are named "<name> [i]". Colours go to the
cloud's colour store, waveforms to its waveform store.

# Errors

Failures are *types.Error values; branch on the kind with types.IsKind or
on a sentinel with errors.Is:

	if errors.Is(err, types.ErrCompressed) {
	    // .laz input
	}

Problems with optional metadata (extra bytes, waveform records) do not fail
a load. They are logged and listed in LoadResult.Diagnostics.
*/
package las
