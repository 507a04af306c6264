package querysql

import "strings"

// Fragment is a unit of rendered text: either Text or a Group of further
// fragments. Handlers produce fragments; only Build flattens them.
type Fragment interface {
	fragment()
}

// Text is a rendered string.
type Text string

// Group is an ordered sequence of fragments.
type Group []Fragment

func (Text) fragment()  {}
func (Group) fragment() {}

// Flatten walks fragments depth-first and returns the non-empty strings in
// order.
func Flatten(fragments []Fragment) []string {
	var out []string
	return flattenInto(out, fragments)
}

func flattenInto(out []string, fragments []Fragment) []string {
	for _, f := range fragments {
		switch v := f.(type) {
		case Text:
			if v != "" {
				out = append(out, string(v))
			}
		case Group:
			out = flattenInto(out, v)
		}
	}
	return out
}

// Join flattens fragments and joins them with single spaces.
func Join(fragments []Fragment) string {
	return strings.Join(Flatten(fragments), " ")
}
