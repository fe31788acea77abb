package counter

// DefaultSlug is used whenever a request does not name a resource.
const DefaultSlug = "home"

// Counts is one slug's persisted row: three non-negative counters.
type Counts struct {
	Slug     string `json:"slug"`
	Likes    int64  `json:"likes"`
	Dislikes int64  `json:"dislikes"`
	Infos    int64  `json:"infos"`
}

// Zero returns a fresh all-zero row for slug. Reads of unknown slugs
// answer with this without persisting anything.
func Zero(slug string) Counts {
	return Counts{Slug: slug}
}

// Get returns the value of the given field.
func (c Counts) Get(f Field) int64 {
	switch f {
	case FieldLikes:
		return c.Likes
	case FieldDislikes:
		return c.Dislikes
	default:
		return c.Infos
	}
}

// Add returns a copy of c with the given field incremented by delta.
func (c Counts) Add(f Field, delta int64) Counts {
	switch f {
	case FieldLikes:
		c.Likes += delta
	case FieldDislikes:
		c.Dislikes += delta
	case FieldInfos:
		c.Infos += delta
	}
	return c
}
