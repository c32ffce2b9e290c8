/*
Package rpack packs many files into one seekable, integrity-checked,
compressed container and retrieves them by logical path with random access.
A virtual directory view is derived from the flat path set, so callers can
list and classify paths without touching file data.

# Container layout

All integers are little-endian.

	+---------------+------------------+----------------------+--------------------------+
	| magic (7 B)   | index len L (4 B)| compressed index (L) | concatenated payloads... |
	+---------------+------------------+----------------------+--------------------------+

The index is a CBOR map from logical path to entry record (offset, original
and stored sizes, content digest, compression method). Entry offsets are
relative to the start of the data section, which begins immediately after
the index block. The index block is compressed with the same method used
for entries; the format does not record that method, so Open must be given
the method the pack was built with (zlib by default).

# Building and reading

	err := rpack.Build("assets/", "assets.rpack",
		rpack.WithCompression(rpack.CompressionZstd))

	p, err := rpack.Open("assets.rpack",
		rpack.WithCompression(rpack.CompressionZstd))
	defer p.Close()

	data, err := p.Get("textures/atlas.png", rpack.WithVerifyHash())

Every Get seeks to the entry's span, reads it, and decompresses it anew;
nothing is cached between calls. A Pack holds one file handle and is not
safe for concurrent use; open independent Packs for concurrent access.
*/
package rpack
