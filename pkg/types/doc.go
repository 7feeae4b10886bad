// Package types defines the shared vocabulary of laskit: typed errors, the
// standard field identifiers, the collaborator interfaces the codec core
// reads from and writes to, resource limits and load diagnostics.
//
// The interfaces model the parts of a point cloud application that live
// outside the codec:
//   - AttributeStore holds per-point scalar columns addressed by ColumnHandle.
//   - ColorStore and WaveformStore receive colours and waveform links.
//   - PointReader and PointWriter hand decoded point records to and from a
//     LAS/LAZ codec one record at a time.
//
// Design goals:
//   - Small, copyable handles (ColumnHandle) instead of pointers to columns.
//   - Paranoid bounds checking; never panic on malformed input.
//   - Typed errors with stable categories (codec/memory/unsupported/...).
package types
