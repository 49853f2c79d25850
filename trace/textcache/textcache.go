// Package textcache caches rendered disassembly by fetch address using Akita
// cache components.
package textcache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/thumbdis/disasm"
)

// Config holds cache geometry.
type Config struct {
	// Sets is the number of sets.
	Sets int
	// Ways is the associativity.
	Ways int
	// BlockWords is the number of halfwords per block. Must be a power of two.
	BlockWords int
}

// DefaultConfig returns the default cache geometry.
func DefaultConfig() Config {
	return Config{
		Sets:       64,
		Ways:       4,
		BlockWords: 16,
	}
}

// blockBytes is the block size in bytes.
func (c Config) blockBytes() uint64 {
	return uint64(c.BlockWords) * 2
}

// Source provides instruction words by address.
type Source interface {
	// ReadHalfword returns the halfword at addr, or false if addr is not
	// backed by data.
	ReadHalfword(addr uint32) (uint16, bool)
}

// Statistics holds cache statistics.
type Statistics struct {
	Reads     uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// line is one rendered halfword of a block.
type line struct {
	text   string
	mapped bool
}

// Cache maps halfword addresses to rendered text. A miss renders the whole
// block containing the address.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	config Config

	// Akita cache directory for tag/LRU management
	directory *akitacache.DirectoryImpl

	// Rendered text - indexed by (setID * ways + wayID)
	lines [][]line

	stats  Statistics
	source Source
}

// New creates a cache over source with the given geometry.
func New(config Config, source Source) *Cache {
	totalBlocks := config.Sets * config.Ways

	lines := make([][]line, totalBlocks)
	for i := range lines {
		lines[i] = make([]line, config.BlockWords)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			config.Sets,
			config.Ways,
			int(config.blockBytes()),
			akitacache.NewLRUVictimFinder(),
		),
		lines:  lines,
		source: source,
	}
}

// Config returns the cache geometry.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// blockIndex computes the index into lines for a block.
func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Ways + block.WayID
}

// blockAddr returns the block-aligned address of addr.
func (c *Cache) blockAddr(addr uint32) uint64 {
	return uint64(addr) / c.config.blockBytes() * c.config.blockBytes()
}

// Lookup returns the text of the instruction at addr. The Thumb bit of addr
// is ignored. It returns false if addr is not backed by the source.
func (c *Cache) Lookup(addr uint32) (string, bool) {
	c.stats.Reads++

	addr &^= 1
	blockAddr := c.blockAddr(addr)
	offset := (uint64(addr) - blockAddr) / 2

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block) // Update LRU

		l := c.lines[c.blockIndex(block)][offset]
		return l.text, l.mapped
	}

	c.stats.Misses++

	block = c.fill(blockAddr)
	l := c.lines[c.blockIndex(block)][offset]
	return l.text, l.mapped
}

// fill renders the block at blockAddr into a victim block.
func (c *Cache) fill(blockAddr uint64) *akitacache.Block {
	victim := c.directory.FindVictim(blockAddr)
	if victim.IsValid {
		c.stats.Evictions++
	}

	lines := c.lines[c.blockIndex(victim)]
	for i := range lines {
		text, mapped := c.renderAt(uint32(blockAddr) + uint32(2*i))
		lines[i] = line{text: text, mapped: mapped}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return victim
}

// renderAt reads and renders one halfword without caching.
func (c *Cache) renderAt(addr uint32) (string, bool) {
	if c.source == nil {
		return "", false
	}

	word, ok := c.source.ReadHalfword(addr)
	if !ok {
		return "", false
	}

	return disasm.Disassemble(word), true
}

// Invalidate drops the block containing addr.
func (c *Cache) Invalidate(addr uint32) {
	block := c.directory.Lookup(0, c.blockAddr(addr&^1))
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// Reset invalidates all blocks and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
