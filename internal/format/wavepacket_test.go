package format

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestWavePacketLayout(t *testing.T) {
	b := make([]byte, WavePacketSize)
	b[0] = 3
	binary.LittleEndian.PutUint64(b[1:], 1060)
	binary.LittleEndian.PutUint32(b[9:], 256)
	binary.LittleEndian.PutUint32(b[13:], math.Float32bits(12.5))
	binary.LittleEndian.PutUint32(b[17:], math.Float32bits(1))
	binary.LittleEndian.PutUint32(b[21:], math.Float32bits(-1))
	binary.LittleEndian.PutUint32(b[25:], math.Float32bits(0.5))

	wp, err := DecodeWavePacket(b)
	if err != nil {
		t.Fatalf("DecodeWavePacket: %v", err)
	}
	want := WavePacket{DescriptorIndex: 3, ByteOffset: 1060, ByteCount: 256, ReturnLocation: 12.5, Direction: [3]float32{1, -1, 0.5}}
	if wp != want {
		t.Fatalf("got %+v, want %+v", wp, want)
	}

	out := make([]byte, WavePacketSize)
	if err := wp.Encode(out); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(out) != string(b) {
		t.Fatalf("encode mismatch:\n% x\n% x", out, b)
	}
	if err := wp.Encode(out[:28]); err == nil {
		t.Fatalf("expected short buffer error")
	}
}

func TestWaveformDescriptorRecord(t *testing.T) {
	d := WaveformDescriptorRecord{BitsPerSample: 8, NumberOfSamples: 60, SamplingRatePs: 1000, DigitizerGain: 2, DigitizerOffset: -1}
	b := d.Encode()
	if len(b) != WaveformDescriptorSize {
		t.Fatalf("size %d", len(b))
	}
	got, err := DecodeWaveformDescriptor(append(b, 0, 0))
	if err != nil || got != d {
		t.Fatalf("round trip: %+v %v", got, err)
	}
	if _, err := DecodeWaveformDescriptor(b[:25]); err == nil {
		t.Fatalf("expected truncation")
	}
}
