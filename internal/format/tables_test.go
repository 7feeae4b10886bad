package format

import "testing"

func TestPointFormatSizeSupported(t *testing.T) {
	want := map[uint8]uint16{0: 20, 1: 28, 2: 26, 3: 34, 6: 30, 7: 36, 8: 38}
	for pf := uint8(0); pf <= 12; pf++ {
		got := PointFormatSize(pf)
		if got != want[pf] {
			t.Fatalf("PointFormatSize(%d) = %d, want %d", pf, got, want[pf])
		}
	}
}

func TestRecordLengthCoversWaveFormats(t *testing.T) {
	cases := map[uint8]uint16{4: 57, 5: 63, 9: 59, 10: 67, 3: 34, 11: 0}
	for pf, want := range cases {
		if got := RecordLength(pf); got != want {
			t.Fatalf("RecordLength(%d) = %d, want %d", pf, got, want)
		}
	}
}

func TestHeaderSize(t *testing.T) {
	cases := map[uint8]uint16{0: 227, 2: 227, 3: 235, 4: 375, 9: 227}
	for minor, want := range cases {
		if got := HeaderSize(minor); got != want {
			t.Fatalf("HeaderSize(%d) = %d, want %d", minor, got, want)
		}
	}
}

func TestFormatPredicates(t *testing.T) {
	type preds struct{ gps, rgb, wave, nir bool }
	want := map[uint8]preds{
		0:  {},
		1:  {gps: true},
		2:  {rgb: true},
		3:  {gps: true, rgb: true},
		4:  {gps: true, rgb: true, wave: true},
		5:  {gps: true, rgb: true, wave: true},
		6:  {gps: true},
		7:  {gps: true, rgb: true},
		8:  {gps: true, rgb: true, wave: true, nir: true},
		9:  {gps: true, rgb: true, wave: true},
		10: {gps: true, rgb: true, wave: true, nir: true},
	}
	for pf, w := range want {
		got := preds{HasGpsTime(pf), HasRGB(pf), HasWaveform(pf), HasNearInfrared(pf)}
		if got != w {
			t.Fatalf("format %d predicates = %+v, want %+v", pf, got, w)
		}
	}
}

func TestPointFormatsAvailableForVersion(t *testing.T) {
	cases := map[string][]uint8{
		"1.2": {0, 1, 2, 3},
		"1.3": {0, 1, 2, 3, 4, 5},
		"1.4": {6, 7, 8, 9, 10},
	}
	for v, want := range cases {
		got, ok := PointFormatsAvailableForVersion(v)
		if !ok || len(got) != len(want) {
			t.Fatalf("%s: got %v ok=%v", v, got, ok)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: got %v, want %v", v, got, want)
			}
		}
	}
	for _, v := range []string{"", "1.1", "1.5", "2.0", "1.4 "} {
		if got, ok := PointFormatsAvailableForVersion(v); ok || got != nil {
			t.Fatalf("%q should be unsupported, got %v", v, got)
		}
	}

	// callers must not be able to mutate the tables
	got, _ := PointFormatsAvailableForVersion("1.2")
	got[0] = 99
	again, _ := PointFormatsAvailableForVersion("1.2")
	if again[0] != 0 {
		t.Fatalf("table mutated through returned slice")
	}
}

func TestFormatAllowedForVersion(t *testing.T) {
	if !FormatAllowedForVersion(4, 8) || FormatAllowedForVersion(2, 6) || FormatAllowedForVersion(9, 0) {
		t.Fatalf("unexpected FormatAllowedForVersion result")
	}
	if VersionString(3) != "1.3" {
		t.Fatalf("VersionString(3) = %q", VersionString(3))
	}
}
