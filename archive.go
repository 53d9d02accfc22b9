package nxview

// Archive identifies one of the fixed archive files a browser knows about.
type Archive uint8

const (
	ArchiveBase Archive = iota
	ArchiveCharacter
	ArchiveEffect
	ArchiveEtc
	ArchiveItem
	ArchiveMap
	ArchiveMap001
	ArchiveMob
	ArchiveMorph
	ArchiveNpc
	ArchiveQuest
	ArchiveReactor
	ArchiveSkill
	ArchiveSound
	ArchiveString
	ArchiveTamingMob
	ArchiveUI

	numArchives
)

// archiveLabels holds the path label of each archive, in display order.
var archiveLabels = [numArchives]string{
	ArchiveBase:      "Base.nx",
	ArchiveCharacter: "Character.nx",
	ArchiveEffect:    "Effect.nx",
	ArchiveEtc:       "Etc.nx",
	ArchiveItem:      "Item.nx",
	ArchiveMap:       "Map.nx",
	ArchiveMap001:    "Map001.nx",
	ArchiveMob:       "Mob.nx",
	ArchiveMorph:     "Morph.nx",
	ArchiveNpc:       "Npc.nx",
	ArchiveQuest:     "Quest.nx",
	ArchiveReactor:   "Reactor.nx",
	ArchiveSkill:     "Skill.nx",
	ArchiveSound:     "Sound.nx",
	ArchiveString:    "String.nx",
	ArchiveTamingMob: "TamingMob.nx",
	ArchiveUI:        "UI.nx",
}

// Label returns the archive's path label, which is also its file name.
func (a Archive) Label() string {
	if a < numArchives {
		return archiveLabels[a]
	}
	return ""
}

// String implements fmt.Stringer.
func (a Archive) String() string { return a.Label() }

// ParseArchive maps an exact, case-sensitive label to its Archive.
func ParseArchive(label string) (Archive, bool) {
	for i, l := range archiveLabels {
		if l == label {
			return Archive(i), true
		}
	}
	return 0, false
}

// Archives returns every known archive in display order.
func Archives() []Archive {
	out := make([]Archive, numArchives)
	for i := range out {
		out[i] = Archive(i)
	}
	return out
}

// Root pairs an archive label with its root node. Node is nil when the
// archive is not mounted.
type Root struct {
	Label string
	Node  Node
}

// ArchiveSet maps each known Archive to an optional root node. Roots are
// added with Mount and never replaced or removed, so nodes and paths stay
// valid for the life of the set.
//
// ArchiveSet implements Resolver.
type ArchiveSet struct {
	roots [numArchives]Node
}

// NewArchiveSet returns a set with no archive mounted.
func NewArchiveSet() *ArchiveSet {
	return &ArchiveSet{}
}

// Mount installs root as the root of archive a.
// Returns ErrAlreadyMounted if a already has a root.
// Panics if root is nil or a is not a known archive.
func (s *ArchiveSet) Mount(a Archive, root Node) error {
	if root == nil {
		panic("nxview: cannot mount nil root")
	}
	if a >= numArchives {
		panic("nxview: unknown archive index")
	}
	if s.roots[a] != nil {
		return ErrAlreadyMounted
	}
	s.roots[a] = root
	return nil
}

// Root returns the root of archive a and whether it is mounted.
func (s *ArchiveSet) Root(a Archive) (Node, bool) {
	if a >= numArchives || s.roots[a] == nil {
		return nil, false
	}
	return s.roots[a], true
}

// Mounted reports whether archive a has a root.
func (s *ArchiveSet) Mounted(a Archive) bool {
	_, ok := s.Root(a)
	return ok
}

// NumMounted returns the number of mounted archives.
func (s *ArchiveSet) NumMounted() int {
	n := 0
	for _, r := range s.roots {
		if r != nil {
			n++
		}
	}
	return n
}

// Roots returns the mounted archives in display order.
func (s *ArchiveSet) Roots() []Root {
	out := make([]Root, 0, numArchives)
	for i, r := range s.roots {
		if r != nil {
			out = append(out, Root{Label: archiveLabels[i], Node: r})
		}
	}
	return out
}

// AllRoots returns every known archive in display order, with a nil Node for
// archives that are not mounted.
func (s *ArchiveSet) AllRoots() []Root {
	out := make([]Root, numArchives)
	for i := range out {
		out[i] = Root{Label: archiveLabels[i], Node: s.roots[i]}
	}
	return out
}
