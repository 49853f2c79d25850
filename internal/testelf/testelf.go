// Package testelf writes minimal ELF images for tests.
package testelf

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"os"
)

// Segment describes one program header and its file contents.
type Segment struct {
	// Type defaults to PT_LOAD when left as PT_NULL.
	Type    elf.ProgType
	Addr    uint32
	Data    []byte
	MemSize uint32 // defaults to len(Data)
	Flags   elf.ProgFlag
}

// Image describes an ELF file to write.
type Image struct {
	Class     elf.Class   // defaults to ELFCLASS32
	Machine   elf.Machine // defaults to EM_ARM
	BigEndian bool
	Entry     uint32
	Segments  []Segment
}

const (
	ehsize32    = 52
	phentsize32 = 32
	ehsize64    = 64
	phentsize64 = 56
)

// Thumb returns an image with one R+X segment holding words at addr and a
// Thumb entry point at addr.
func Thumb(addr uint32, words ...uint16) Image {
	code := make([]byte, 2*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint16(code[2*i:], w)
	}

	return Image{
		Entry: addr | 1,
		Segments: []Segment{
			{Addr: addr, Data: code, Flags: elf.PF_R | elf.PF_X},
		},
	}
}

// Write writes img to path.
func Write(path string, img Image) error {
	data, err := Build(img)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write test ELF: %w", err)
	}

	return nil
}

// Build encodes img. 64-bit images carry a header only, which is enough to
// exercise class checks.
func Build(img Image) ([]byte, error) {
	class := img.Class
	if class == elf.ELFCLASSNONE {
		class = elf.ELFCLASS32
	}
	machine := img.Machine
	if machine == elf.EM_NONE {
		machine = elf.EM_ARM
	}

	var order binary.ByteOrder = binary.LittleEndian
	data := elf.ELFDATA2LSB
	if img.BigEndian {
		order = binary.BigEndian
		data = elf.ELFDATA2MSB
	}

	switch class {
	case elf.ELFCLASS32:
		return build32(img, machine, order, data), nil
	case elf.ELFCLASS64:
		return build64(img, machine, order, data), nil
	default:
		return nil, fmt.Errorf("unsupported ELF class %v", class)
	}
}

func ident(class elf.Class, data elf.Data) []byte {
	id := make([]byte, elf.EI_NIDENT)
	copy(id[0:4], elf.ELFMAG)
	id[elf.EI_CLASS] = byte(class)
	id[elf.EI_DATA] = byte(data)
	id[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	return id
}

func build32(img Image, machine elf.Machine, order binary.ByteOrder, data elf.Data) []byte {
	hdr := make([]byte, ehsize32)
	copy(hdr, ident(elf.ELFCLASS32, data))
	order.PutUint16(hdr[16:18], uint16(elf.ET_EXEC))
	order.PutUint16(hdr[18:20], uint16(machine))
	order.PutUint32(hdr[20:24], uint32(elf.EV_CURRENT))
	order.PutUint32(hdr[24:28], img.Entry)
	order.PutUint32(hdr[28:32], ehsize32) // program headers follow the header
	order.PutUint32(hdr[32:36], 0)        // no section headers
	order.PutUint16(hdr[40:42], ehsize32)
	order.PutUint16(hdr[42:44], phentsize32)
	order.PutUint16(hdr[44:46], uint16(len(img.Segments)))
	order.PutUint16(hdr[46:48], 40)

	out := hdr
	offset := uint32(ehsize32 + phentsize32*len(img.Segments))
	var payload []byte

	for _, seg := range img.Segments {
		typ := seg.Type
		if typ == elf.PT_NULL {
			typ = elf.PT_LOAD
		}
		memSize := seg.MemSize
		if memSize == 0 {
			memSize = uint32(len(seg.Data))
		}

		ph := make([]byte, phentsize32)
		order.PutUint32(ph[0:4], uint32(typ))
		order.PutUint32(ph[4:8], offset)
		order.PutUint32(ph[8:12], seg.Addr)
		order.PutUint32(ph[12:16], seg.Addr)
		order.PutUint32(ph[16:20], uint32(len(seg.Data)))
		order.PutUint32(ph[20:24], memSize)
		order.PutUint32(ph[24:28], uint32(seg.Flags))
		order.PutUint32(ph[28:32], 4)

		out = append(out, ph...)
		payload = append(payload, seg.Data...)
		offset += uint32(len(seg.Data))
	}

	return append(out, payload...)
}

func build64(img Image, machine elf.Machine, order binary.ByteOrder, data elf.Data) []byte {
	hdr := make([]byte, ehsize64)
	copy(hdr, ident(elf.ELFCLASS64, data))
	order.PutUint16(hdr[16:18], uint16(elf.ET_EXEC))
	order.PutUint16(hdr[18:20], uint16(machine))
	order.PutUint32(hdr[20:24], uint32(elf.EV_CURRENT))
	order.PutUint64(hdr[24:32], uint64(img.Entry))
	order.PutUint64(hdr[32:40], 0)
	order.PutUint64(hdr[40:48], 0)
	order.PutUint16(hdr[52:54], ehsize64)
	order.PutUint16(hdr[54:56], phentsize64)
	order.PutUint16(hdr[56:58], 0)
	order.PutUint16(hdr[58:60], 64)
	return hdr
}
