package counter

import "fmt"

// Field selects which of the three counters an operation targets.
// It is a closed set; anything outside it is rejected at the boundary.
type Field string

const (
	FieldLikes    Field = "likes"
	FieldDislikes Field = "dislikes"
	FieldInfos    Field = "infos"
)

// Fields lists every valid field, in storage-column order.
func Fields() []Field {
	return []Field{FieldLikes, FieldDislikes, FieldInfos}
}

// ParseField validates a caller-supplied field name.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldLikes, FieldDislikes, FieldInfos:
		return Field(s), nil
	default:
		return "", fmt.Errorf("invalid field %q (must be one of: likes, dislikes, infos)", s)
	}
}

func (f Field) String() string { return string(f) }
