// Package trace renders Thumb code from loaded ELF images, either as a
// linear listing of the executable segments or as a replay of an executed
// address trace.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/thumbdis/config"
	"github.com/sarchlab/thumbdis/disasm"
	"github.com/sarchlab/thumbdis/loader"
	"github.com/sarchlab/thumbdis/trace/textcache"
)

// UnmappedText is the text of an address with no instruction data.
const UnmappedText = "<unmapped>"

// Entry is one rendered instruction.
type Entry struct {
	Addr   uint32
	Word   uint16
	Text   string
	Mapped bool
}

// Format renders the entry as a listing line without a line terminator.
func (e Entry) Format(cfg *config.Config) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%0*x: ", cfg.AddressWidth, e.Addr)
	if cfg.ShowWords {
		if e.Mapped {
			fmt.Fprintf(&sb, "%04x  ", e.Word)
		} else {
			sb.WriteString("----  ")
		}
	}
	sb.WriteString(e.Text)

	return sb.String()
}

// List writes every halfword of every executable segment of prog.
func List(prog *loader.Program, w io.Writer, cfg *config.Config) error {
	d := disasm.New()

	for _, seg := range prog.ExecutableSegments() {
		for off := 0; off+1 < len(seg.Data); off += 2 {
			addr := seg.VirtAddr + uint32(off)
			word, _ := prog.ReadHalfword(addr)

			e := Entry{Addr: addr, Word: word, Text: d.Disassemble(word), Mapped: true}
			if _, err := fmt.Fprintln(w, e.Format(cfg)); err != nil {
				return fmt.Errorf("failed to write listing: %w", err)
			}
		}
	}

	return nil
}

// ParseAddresses reads an address trace: one hexadecimal address per line,
// with an optional 0x prefix. Blank lines and text after '#' are ignored.
func ParseAddresses(r io.Reader) ([]uint32, error) {
	var addrs []uint32

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		digits := strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
		addr, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid address %q: %w", lineNo, text, err)
		}

		addrs = append(addrs, uint32(addr))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return addrs, nil
}

// Replayer renders executed addresses against a program image through a
// rendered-text cache.
//
// A Replayer is not safe for concurrent use.
type Replayer struct {
	prog  *loader.Program
	cache *textcache.Cache
	cfg   *config.Config
}

// NewReplayer creates a Replayer for prog. The cache geometry comes from cfg.
func NewReplayer(prog *loader.Program, cfg *config.Config) *Replayer {
	return &Replayer{
		prog:  prog,
		cache: textcache.New(CacheConfig(cfg), prog),
		cfg:   cfg,
	}
}

// CacheConfig extracts the text cache geometry from cfg.
func CacheConfig(cfg *config.Config) textcache.Config {
	return textcache.Config{
		Sets:       cfg.CacheSets,
		Ways:       cfg.CacheWays,
		BlockWords: cfg.CacheBlockSize,
	}
}

// Entry renders the instruction at addr. The Thumb bit of addr is ignored.
func (r *Replayer) Entry(addr uint32) Entry {
	addr &^= 1

	text, ok := r.cache.Lookup(addr)
	if !ok {
		return Entry{Addr: addr, Text: UnmappedText}
	}

	word, _ := r.prog.ReadHalfword(addr)
	return Entry{Addr: addr, Word: word, Text: text, Mapped: true}
}

// Replay writes one listing line per address.
func (r *Replayer) Replay(addrs []uint32, w io.Writer) error {
	for _, addr := range addrs {
		if _, err := fmt.Fprintln(w, r.Entry(addr).Format(r.cfg)); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
	}
	return nil
}

// Stats returns the text cache statistics.
func (r *Replayer) Stats() textcache.Statistics {
	return r.cache.Stats()
}
