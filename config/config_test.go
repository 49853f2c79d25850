package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/thumbdis/config"
)

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should provide valid defaults", func() {
		c := config.Default()
		Expect(c.Validate()).To(Succeed())
		Expect(c.CacheSets).To(Equal(64))
		Expect(c.CacheWays).To(Equal(4))
		Expect(c.CacheBlockSize).To(Equal(16))
		Expect(c.ShowWords).To(BeTrue())
		Expect(c.AddressWidth).To(Equal(8))
	})

	It("should round-trip through Save and Load", func() {
		path := filepath.Join(tempDir, "config.json")
		c := config.Default()
		c.CacheSets = 8
		c.ShowWords = false
		Expect(c.Save(path)).To(Succeed())

		loaded, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(c))
	})

	It("should keep defaults for fields missing from the file", func() {
		path := filepath.Join(tempDir, "partial.json")
		Expect(os.WriteFile(path, []byte(`{"cache_ways": 2}`), 0644)).To(Succeed())

		loaded, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.CacheWays).To(Equal(2))
		Expect(loaded.CacheSets).To(Equal(64))
		Expect(loaded.ShowWords).To(BeTrue())
	})

	It("should report a missing file", func() {
		_, err := config.Load(filepath.Join(tempDir, "missing.json"))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to read config file"))
	})

	It("should report malformed JSON", func() {
		path := filepath.Join(tempDir, "bad.json")
		Expect(os.WriteFile(path, []byte(`{"cache_ways":`), 0644)).To(Succeed())

		_, err := config.Load(path)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to parse config"))
	})

	DescribeTable("Validate",
		func(mutate func(*config.Config), msg string) {
			c := config.Default()
			mutate(c)
			err := c.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(msg))
		},
		Entry("zero sets", func(c *config.Config) { c.CacheSets = 0 }, "cache_sets"),
		Entry("negative ways", func(c *config.Config) { c.CacheWays = -1 }, "cache_ways"),
		Entry("block size not a power of two", func(c *config.Config) { c.CacheBlockSize = 12 }, "cache_block_size"),
		Entry("zero block size", func(c *config.Config) { c.CacheBlockSize = 0 }, "cache_block_size"),
		Entry("address too narrow", func(c *config.Config) { c.AddressWidth = 0 }, "address_width"),
		Entry("address too wide", func(c *config.Config) { c.AddressWidth = 17 }, "address_width"),
	)

	It("should clone without sharing state", func() {
		c := config.Default()
		clone := c.Clone()
		clone.CacheSets = 1

		Expect(c.CacheSets).To(Equal(64))
		Expect(clone).NotTo(BeIdenticalTo(c))
	})
})
