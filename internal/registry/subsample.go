package registry

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
)

// MatrixConfig drives platform subsampling: a continuous-integration
// matrix of k operating systems times m language versions runs each
// estimator class on exactly one cell. Partition count and per-OS
// offsets are configuration data so a matrix reshape is a config
// edit, not a code change.
type MatrixConfig struct {
	// Partitions is the number of slices the class list is cut into
	// per OS, normally the number of language versions in the matrix.
	Partitions int `yaml:"partitions" json:"partitions"`

	// OSOffsets maps a GOOS value to its partition rotation, so two
	// operating systems on the same version index test different
	// classes.
	OSOffsets map[string]int `yaml:"os_offsets" json:"os_offsets"`

	// VersionIndex selects this job's slice, in [0, Partitions).
	VersionIndex int `yaml:"version_index" json:"version_index"`
}

// Validate rejects configurations that cannot partition anything.
func (m *MatrixConfig) Validate() error {
	if m.Partitions < 1 {
		return fmt.Errorf("matrix: partitions must be positive, got %d", m.Partitions)
	}
	if m.VersionIndex < 0 || m.VersionIndex >= m.Partitions {
		return fmt.Errorf("matrix: version index %d outside [0,%d)", m.VersionIndex, m.Partitions)
	}
	for os, off := range m.OSOffsets {
		if off < 0 || off >= m.Partitions {
			return fmt.Errorf("matrix: offset %d for %s outside [0,%d)", off, os, m.Partitions)
		}
	}
	return nil
}

// OffsetFor returns the partition rotation for goos. Unknown OS names
// are rejected at config load; reaching one here is an error too.
func (m *MatrixConfig) OffsetFor(goos string) (int, error) {
	off, ok := m.OSOffsets[goos]
	if !ok {
		return 0, fmt.Errorf("matrix: no offset configured for OS %q", goos)
	}
	return off, nil
}

// Subsample returns the slice of entries this matrix cell tests. The
// partition is deterministic in the entry names, so every cell of the
// matrix sees a stable, disjoint share and the union over version
// indices covers all entries.
func (m *MatrixConfig) Subsample(entries []*Entry, goos string) ([]*Entry, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	off, err := m.OffsetFor(goos)
	if err != nil {
		return nil, err
	}

	sorted := make([]*Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	part := RandomPartition(len(sorted), m.Partitions)
	slot := (m.VersionIndex + off) % m.Partitions

	var out []*Entry
	for i, p := range part {
		if p == slot {
			out = append(out, sorted[i])
		}
	}
	return out, nil
}

// RandomPartition assigns each of n items to one of k buckets using a
// fixed-seed shuffle, so buckets have near-equal sizes and the
// assignment is identical across processes and platforms.
func RandomPartition(n, k int) []int {
	if n <= 0 || k <= 0 {
		return nil
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "partition:%d:%d", n, k)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	part := make([]int, n)
	for i := range part {
		part[i] = i % k
	}
	rng.Shuffle(n, func(i, j int) { part[i], part[j] = part[j], part[i] })
	return part
}
