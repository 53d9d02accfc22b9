// Package nxview browses archive-backed asset trees and previews their images
// on the GPU with [Ebitengine].
//
// nxview provides path resolution, substring search, and a write-once texture
// cache over a read-only forest of named nodes, plus a small retained viewer
// (search box, tree, preview pane) that drives them from a single-threaded
// game loop.
//
// # Quick start
//
// Mount archives into an [ArchiveSet] (the nx sub-package reads .nx files),
// then hand the set to a [Viewer] and run it:
//
//	set := nxview.NewArchiveSet()
//	mounted, err := nx.Mount(set, "assets")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer mounted.Close()
//
//	v := nxview.NewViewer(nxview.ViewerConfig{Archives: set})
//	if err := nxview.Run(v, nxview.DefaultRunConfig()); err != nil {
//		log.Fatal(err)
//	}
//
// Run closes the viewer, releasing every cached texture, when the window
// closes.
//
// # Paths
//
// Every node is addressed by a path of the form "Label/child/child", where
// Label is one of the fixed archive labels ("Base.nx", "Character.nx", ...).
// Empty segments are ignored, so "Base.nx//a/b/" and "Base.nx/a/b" name the
// same node. Paths are also the keys of the texture cache and the entries of
// search results:
//
//	node, err := set.Resolve("Character.nx/00002000.img/stand1/0")
//	if errors.Is(err, nxview.ErrPathNotFound) {
//		// ...
//	}
//
//	for _, p := range nxview.Search("stand", set.Roots()) {
//		fmt.Println(p)
//	}
//
// # Textures
//
// A [TextureCache] decodes and uploads each requested path at most once and
// keeps the texture until [TextureCache.ReleaseAll]. It never evicts. When the
// requested node is not itself a bitmap, its first bitmap child is shown
// instead and cached under the requested path.
//
// nxview is single-threaded: the tree, the cache, and the viewer must only be
// used from the goroutine running the game loop.
//
// [Ebitengine]: https://ebitengine.org
package nxview
