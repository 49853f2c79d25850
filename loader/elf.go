// Package loader provides ELF image loading for 32-bit ARM executables.
package loader

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment represents a loadable segment from an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment is loaded.
	VirtAddr uint32
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint32
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Contains reports whether addr falls inside the file-backed part of the
// segment.
func (s *Segment) Contains(addr uint32) bool {
	return addr >= s.VirtAddr && uint64(addr)-uint64(s.VirtAddr) < uint64(len(s.Data))
}

// Program represents a loaded ELF image.
type Program struct {
	// EntryPoint is the entry address with the Thumb bit cleared.
	EntryPoint uint32
	// ThumbEntry is true when the ELF entry address has bit 0 set.
	ThumbEntry bool
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
}

// ExecutableSegments returns the segments that carry the execute flag.
func (p *Program) ExecutableSegments() []Segment {
	var segs []Segment
	for _, seg := range p.Segments {
		if seg.Flags&SegmentFlagExecute != 0 {
			segs = append(segs, seg)
		}
	}
	return segs
}

// ReadHalfword reads the little-endian halfword at addr. It returns false
// when both bytes are not backed by file data of one segment.
func (p *Program) ReadHalfword(addr uint32) (uint16, bool) {
	for i := range p.Segments {
		seg := &p.Segments[i]
		if !seg.Contains(addr) || !seg.Contains(addr+1) {
			continue
		}

		off := addr - seg.VirtAddr
		return binary.LittleEndian.Uint16(seg.Data[off : off+2]), true
	}

	return 0, false
}

// Load parses a 32-bit little-endian ARM ELF binary and returns its
// loadable segments.
func Load(path string) (*Program, error) {
	// Open the ELF file
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Validate ELF class (must be 32-bit)
	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("not a 32-bit ELF file")
	}

	// Validate byte order (Thumb words are read little-endian)
	if f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("not a little-endian ELF file")
	}

	// Validate machine type (must be ARM)
	if f.Machine != elf.EM_ARM {
		return nil, fmt.Errorf("not an ARM ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{
		EntryPoint: uint32(f.Entry) &^ 1,
		ThumbEntry: f.Entry&1 != 0,
	}

	// Load all PT_LOAD segments
	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		// Read segment data
		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		// Convert ELF flags to our segment flags
		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: uint32(phdr.Vaddr),
			Data:     data,
			MemSize:  uint32(phdr.Memsz),
			Flags:    flags,
		})
	}

	return prog, nil
}
