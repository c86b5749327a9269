package models

// CascadeLevel indexes the course hierarchy used by dependent dropdowns.
type CascadeLevel int

const (
	LevelUniversity CascadeLevel = iota
	LevelInstitute
	LevelProgram
	LevelBranch
	LevelYear
	LevelSemester

	cascadeDepth
)

// CascadeDepth is the number of levels in the hierarchy.
const CascadeDepth = int(cascadeDepth)

var cascadeLevelNames = [...]string{"university", "institute", "program", "branch", "year", "semester"}

// String returns the level's entity tag.
func (l CascadeLevel) String() string {
	if l < 0 || int(l) >= CascadeDepth {
		return "unknown"
	}
	return cascadeLevelNames[l]
}

// ParseCascadeLevel resolves a level name back to its index.
func ParseCascadeLevel(name string) (CascadeLevel, bool) {
	for i, n := range cascadeLevelNames {
		if n == name {
			return CascadeLevel(i), true
		}
	}
	return 0, false
}

// Option is one selectable entry of a dependent dropdown.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CascadeState is the persisted selection of a multi-step hierarchy form.
// Selecting at one level invalidates everything below it; generation
// counters let callers discard option fetches superseded by a newer
// selection at the same level.
type CascadeState struct {
	Selected    [CascadeDepth]*int64   `json:"selected"`
	Options     [CascadeDepth][]Option `json:"options"`
	Generations [CascadeDepth]uint64   `json:"generations"`
}

// Select records a choice at the given level and clears selections, options
// and pending fetches at every lower level.
func (s *CascadeState) Select(level CascadeLevel, id int64) {
	value := id
	s.Selected[level] = &value
	for l := int(level) + 1; l < CascadeDepth; l++ {
		s.Selected[l] = nil
		s.Options[l] = nil
		s.Generations[l]++
	}
}

// Clear resets the level and everything below it.
func (s *CascadeState) Clear(level CascadeLevel) {
	for l := int(level); l < CascadeDepth; l++ {
		s.Selected[l] = nil
		s.Options[l] = nil
		s.Generations[l]++
	}
}

// BeginFetch stamps a new option fetch for a level and returns its
// generation token.
func (s *CascadeState) BeginFetch(level CascadeLevel) uint64 {
	s.Generations[level]++
	return s.Generations[level]
}

// ApplyOptions installs fetched options only when the generation is still
// current; a stale response for a superseded selection is dropped.
func (s *CascadeState) ApplyOptions(level CascadeLevel, generation uint64, options []Option) bool {
	if generation != s.Generations[level] {
		return false
	}
	s.Options[level] = options
	return true
}
