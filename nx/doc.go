// Package nx reads and writes NX (PKG4) archives as nxview trees.
//
// An NX file is a flat table of fixed-size node records plus string, bitmap,
// and audio tables. [Open] memory-maps a file and exposes node 0 as the root
// of a read-only [nxview.Node] tree; nothing is decoded until asked for.
// Bitmaps are LZ4 block-compressed BGRA8888 and are returned as RGBA8.
//
// [Mount] opens every known archive present in a directory and installs the
// roots into an [nxview.ArchiveSet]:
//
//	set := nxview.NewArchiveSet()
//	mounted, err := nx.Mount(set, "assets")
//	if err != nil {
//		log.Printf("some archives failed to open: %v", err)
//	}
//	defer mounted.Close()
//
// [Write] serializes any nxview tree to the same format, which is how the
// pack command and the tests build archives.
package nx
